// Package ignore parses gitignore-dialect rule files and tests paths
// against the stack of rule sets accumulated while descending a directory
// tree.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Set holds the ignore rules that apply within one directory (spec.md
// 4.2's IgnoreSet).
type Set struct {
	Root              string
	LiteralNames      map[string]struct{}
	LiteralExtensions map[string]struct{}
	Patterns          []string // glob patterns, already anchoring-normalized
	NegatedPatterns   []string
}

// Stack is the ordered sequence of Set, deepest last, mirroring the
// currently open chain of ancestor directories (spec.md's IgnoreStack).
type Stack []*Set

const (
	gitignoreName = ".gitignore"
	excludesName  = ".git/info/excludes"
)

// ReadDir builds the Set for directory dir by parsing <dir>/.gitignore and
// <dir>/.git/info/excludes, per spec.md 4.2. A directory with neither file
// still yields an (empty) Set, so the stack depth always tracks traversal
// depth as required by spec.md's invariants.
func ReadDir(dir string) *Set {
	set := &Set{
		Root:              dir,
		LiteralNames:      make(map[string]struct{}),
		LiteralExtensions: make(map[string]struct{}),
	}
	for _, name := range [...]string{gitignoreName, excludesName} {
		parseFile(filepath.Join(dir, name), set)
	}
	return set
}

func parseFile(path string, set *Set) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addRule(line, set)
	}
	// A malformed line that can't be parsed as a glob is silently dropped
	// inside addRule/anchor; scanner.Err() (e.g. a too-long line) is not
	// fatal to the walk either, so it is ignored here too.
}

func addRule(line string, set *Set) {
	if strings.HasPrefix(line, "!") {
		rest := line[1:]
		if rest == "" {
			return
		}
		if g, ok := anchor(rest); ok {
			set.NegatedPatterns = append(set.NegatedPatterns, g)
		}
		return
	}

	if !strings.ContainsAny(line, "*?[]/") {
		set.LiteralNames[line] = struct{}{}
		return
	}

	if strings.HasPrefix(line, "*.") {
		rest := line[2:]
		if !strings.ContainsAny(rest, "*?[]/.") {
			set.LiteralExtensions[rest] = struct{}{}
			return
		}
	}

	if g, ok := anchor(line); ok {
		set.Patterns = append(set.Patterns, g)
	}
}

// anchor applies spec.md 4.2's glob-anchoring rule: a pattern that doesn't
// begin with "/" is made to match at any depth by prepending "**/"; a
// pattern that does begin with "/" is anchored to root, with the leading
// slash dropped since relative-path matching never has one. Patterns that
// doublestar cannot parse are dropped (spec.md: "malformed globs are
// silently dropped").
func anchor(glob string) (string, bool) {
	var g string
	if strings.HasPrefix(glob, "/") {
		g = strings.TrimPrefix(glob, "/")
	} else {
		g = "**/" + glob
	}
	if _, err := doublestar.Match(g, ""); err != nil {
		return "", false
	}
	return g, true
}

// IsIgnored implements spec.md 4.2's is_ignored(path, stack): each Set in
// the stack, outermost to innermost, is evaluated independently against
// its own rules and its own negations; the first Set whose own rules (net
// of its own negations) call the path ignored wins immediately, without
// consulting shallower or deeper sets further.
func IsIgnored(path string, stack Stack) bool {
	for _, set := range stack {
		rel, err := filepath.Rel(set.Root, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		ignored := setIgnores(set, rel)
		if ignored && negates(set, rel) {
			ignored = false
		}
		if ignored {
			return true
		}
	}
	return false
}

func setIgnores(set *Set, rel string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	if _, ok := set.LiteralNames[base]; ok {
		return true
	}
	if ext := extensionOf(base); ext != "" {
		if _, ok := set.LiteralExtensions[ext]; ok {
			return true
		}
	}
	for _, g := range set.Patterns {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func negates(set *Set, rel string) bool {
	for _, g := range set.NegatedPatterns {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func extensionOf(basename string) string {
	i := strings.LastIndexByte(basename, '.')
	if i < 0 || i == len(basename)-1 {
		return ""
	}
	return basename[i+1:]
}
