// Package walker provides depth-first file system traversal with an
// ignore stack maintained in lockstep with directory nesting.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/73ai/ru/internal/ftype"
	"github.com/73ai/ru/internal/ignore"
)

// Result represents a file discovered during traversal.
type Result struct {
	Path      string      // absolute path on disk
	Display   string      // normalized path for display (spec.md 4.5)
	Info      os.FileInfo // target file info (symlinks already resolved if followed)
	IsSymlink bool
	Error     error
}

// Stats carries traversal counters, reported once the walk completes.
type Stats struct {
	FilesFound    int64
	FilesFiltered int64
	DirsTraversed int64
	DirsIgnored   int64
	Errors        int64
	Duration      time.Duration
}

// UnlimitedDepth is the MaxDepth sentinel meaning "no depth limit at all",
// as opposed to 0, which means "root only" per spec.md 4.5.
const UnlimitedDepth = -1

// Config holds the inputs named in spec.md 4.5.
type Config struct {
	MaxDepth      int  // 0 = root only, UnlimitedDepth = no limit
	FollowLinks   bool
	DoHidden      bool
	CheckIgnores  bool
	Types         *ftype.Matcher
	BufferSize    int
	Context       context.Context
}

// DefaultConfig returns the walker's default settings: no depth limit,
// hidden files and ignore rules both honored, symlinks not followed.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:     UnlimitedDepth,
		FollowLinks:  false,
		DoHidden:     false,
		CheckIgnores: true,
		BufferSize:   1000,
		Context:      context.Background(),
	}
}

// Walker traverses a directory tree and yields regular files.
type Walker struct {
	config *Config
	stats  Stats
	mu     sync.Mutex
}

// New builds a Walker. A nil config falls back to DefaultConfig.
func New(config *Config) *Walker {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Walker{config: config}
}

// Stats returns a copy of the traversal counters accumulated so far.
func (w *Walker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Walk starts a depth-first traversal of root on a background goroutine
// and returns a channel of discovered files, closed when the walk
// completes. Directory entries themselves are never sent; only regular
// files (or, with FollowLinks, symlinks resolving to regular files) that
// pass the entry predicate reach the channel, plus a Result with Error set
// for each directory or entry that could not be read.
func (w *Walker) Walk(root string) (<-chan Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Lstat(absRoot)
	if err != nil {
		return nil, err
	}

	out := make(chan Result, w.config.BufferSize)
	start := time.Now()

	go func() {
		defer func() {
			w.mu.Lock()
			w.stats.Duration = time.Since(start)
			w.mu.Unlock()
			close(out)
		}()

		if !info.IsDir() {
			w.visitFile(absRoot, absRoot, info, false, out)
			return
		}

		var parents []string
		var ignores ignore.Stack
		w.descend(absRoot, absRoot, 0, &parents, &ignores, out)
	}()

	return out, nil
}

// descend implements spec.md 4.5's depth-first traversal: push D onto the
// parent/ignore stacks, apply the entry predicate to every child, recurse
// into subdirectories, and pop on return (the lockstep pop-on-ascent rule
// is enforced structurally here by the recursion itself rather than by an
// explicit comparison loop, since each call owns exactly one level).
func (w *Walker) descend(root, dir string, depth int, parents *[]string, ignores *ignore.Stack, out chan<- Result) {
	*parents = append(*parents, dir)
	*ignores = append(*ignores, ignore.ReadDir(dir))
	defer func() {
		*parents = (*parents)[:len(*parents)-1]
		*ignores = (*ignores)[:len(*ignores)-1]
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.recordError()
		select {
		case out <- Result{Path: dir, Error: err}:
		case <-w.config.Context.Done():
		}
		return
	}

	w.recordDirTraversed()

	for _, entry := range entries {
		select {
		case <-w.config.Context.Done():
			return
		default:
		}

		path := filepath.Join(dir, entry.Name())
		if w.rejectByPredicate(entry.Name(), path, *ignores) {
			if entry.IsDir() {
				w.recordDirIgnored()
			} else {
				w.recordFiltered()
			}
			continue
		}

		if entry.IsDir() {
			if w.config.MaxDepth != UnlimitedDepth && depth+1 > w.config.MaxDepth {
				w.recordDirIgnored()
				continue
			}
			w.descend(root, path, depth+1, parents, ignores, out)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.recordError()
			select {
			case out <- Result{Path: path, Error: err}:
			case <-w.config.Context.Done():
			}
			continue
		}

		isSymlink := info.Mode()&os.ModeSymlink != 0
		if isSymlink {
			if !w.config.FollowLinks {
				w.recordFiltered()
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				w.recordError()
				continue
			}
			if target.IsDir() {
				// A followed symlink to a directory extends the tree at
				// this depth; recurse through it like any other child.
				if w.config.MaxDepth != UnlimitedDepth && depth+1 > w.config.MaxDepth {
					w.recordDirIgnored()
					continue
				}
				w.descend(root, path, depth+1, parents, ignores, out)
				continue
			}
			w.visitFile(root, path, target, true, out)
			continue
		}

		if !info.Mode().IsRegular() {
			w.recordFiltered()
			continue
		}

		w.visitFile(root, path, info, false, out)
	}
}

func (w *Walker) visitFile(root, path string, info os.FileInfo, isSymlink bool, out chan<- Result) {
	if w.config.Types != nil && !w.config.Types.Allows(path) {
		w.recordFiltered()
		return
	}
	w.recordFile()
	select {
	case out <- Result{Path: path, Display: displayPath(root, path), Info: info, IsSymlink: isSymlink}:
	case <-w.config.Context.Done():
	}
}

// rejectByPredicate implements spec.md 4.5's entry predicate: hidden
// basenames are rejected unless DoHidden is set, then (if CheckIgnores)
// the full ignore stack is consulted.
func (w *Walker) rejectByPredicate(base, path string, ignores ignore.Stack) bool {
	if !w.config.DoHidden && strings.HasPrefix(base, ".") {
		return true
	}
	if w.config.CheckIgnores && ignore.IsIgnored(path, ignores) {
		return true
	}
	return false
}

func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return normalizeDisplay(filepath.ToSlash(rel))
}

// normalizeDisplay implements spec.md 4.5's path normalization literally:
// a leading "./" is stripped, and a leading "//" is collapsed to a single
// "/"; "//" occurring anywhere else in the path is left untouched. This is
// kept as its own string function (rather than folded into displayPath)
// because filepath.Rel already cleans "." components and repeated
// separators, so it never gets a chance to exercise this rule when called
// through filepath.Join-built paths -- the rule still matters for callers
// that hand the walker pre-built or user-supplied path strings.
func normalizeDisplay(rel string) string {
	rel = strings.TrimPrefix(rel, "./")
	if strings.HasPrefix(rel, "//") {
		rel = rel[1:]
	}
	return rel
}

func (w *Walker) recordFile() {
	w.mu.Lock()
	w.stats.FilesFound++
	w.mu.Unlock()
}

func (w *Walker) recordFiltered() {
	w.mu.Lock()
	w.stats.FilesFiltered++
	w.mu.Unlock()
}

func (w *Walker) recordDirTraversed() {
	w.mu.Lock()
	w.stats.DirsTraversed++
	w.mu.Unlock()
}

func (w *Walker) recordDirIgnored() {
	w.mu.Lock()
	w.stats.DirsIgnored++
	w.mu.Unlock()
}

func (w *Walker) recordError() {
	w.mu.Lock()
	w.stats.Errors++
	w.mu.Unlock()
}

// NumWorkers returns the dispatcher's worker count per spec.md 4.6's
// default: min(4, logical CPUs).
func NumWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		return 4
	}
	if n < 1 {
		return 1
	}
	return n
}
