// Package scanner implements per-file match extraction over a memory-mapped
// byte buffer: binary detection, regex scanning with multi-span and
// inverted-match semantics, and before/after context collection, per
// spec.md 4.4.
package scanner

import (
	"bytes"
	"regexp"

	"github.com/73ai/ru/internal/lineindex"
	"github.com/73ai/ru/internal/result"
)

// Options configures a single file scan.
type Options struct {
	// InvertMatch switches to invert semantics: a Match is emitted for
	// every line the pattern does NOT match.
	InvertMatch bool
	// DoBinaries controls what happens when the file is classified as
	// binary: if false, the scan stops after classification; if true, the
	// whole buffer is tested once for a match and a synthetic record is
	// emitted if found.
	DoBinaries bool
	// MaxCount caps len(result.Matches); 0 means unlimited.
	MaxCount int
	// OnlyFiles, if true, returns as soon as the first Match has been
	// pushed -- the caller only needs to classify whether the file has any
	// match at all.
	OnlyFiles bool
	// Before and After bound the context window collected around each
	// Match.
	Before int
	After  int
}

const binaryProbeLimit = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Scan runs re over buf under opts and returns the FileResult for the
// file displayed as name.
func Scan(re *regexp.Regexp, opts Options, name string, buf []byte) result.FileResult {
	res := result.FileResult{
		Fname:      name,
		HasContext: opts.Before > 0 || opts.After > 0,
	}

	if isBinary(buf) {
		res.IsBinary = true
		if !opts.DoBinaries {
			return res
		}
		if re.Match(buf) {
			res.Matches = append(res.Matches, result.Match{Lineno: 0, Line: []byte{}, Spans: nil})
		}
		return res
	}

	idx := lineindex.New(buf)
	c := 0
	last := -1 // sentinel for "no line recorded yet"

	pushLimit := func() bool {
		return opts.MaxCount > 0 && len(res.Matches) >= opts.MaxCount
	}

	contextFor := func(ln int) result.Match {
		line, _ := idx.LineText(ln)
		m := result.Match{Lineno: ln + 1, Line: copyBytes(line)}
		if opts.Before > 0 {
			start := ln - opts.Before
			if start < 0 {
				start = 0
			}
			for k := start; k < ln; k++ {
				if bl, ok := idx.LineText(k); ok {
					m.Before = append(m.Before, copyBytes(bl))
				}
			}
		}
		if opts.After > 0 {
			for k := ln + 1; k <= ln+opts.After; k++ {
				al, ok := idx.LineText(k)
				if !ok {
					break
				}
				m.After = append(m.After, copyBytes(al))
			}
		}
		return m
	}

scan:
	for c < len(buf) || c == 0 {
		loc := re.FindIndex(buf[c:])
		if loc == nil {
			break
		}
		s, e := c+loc[0], c+loc[1]

		ln := idx.LineAt(s)
		lnEnd := idx.LineAt(e)
		if e > s && e == len(buf) && buf[e-1] != '\n' {
			// A match running to the end of an unterminated last line ends
			// on that line, not on the line index past EOF.
			lnEnd = idx.LineAt(e - 1)
		}
		if ln != lnEnd {
			// A match spanning a line boundary is ignored entirely; resume
			// the scan at the start of the following line.
			c = idx.OffsetOf(ln + 1)
			continue
		}

		if s == e {
			if s == len(buf) {
				break scan
			}
			c = idx.OffsetOf(ln + 1)
		} else {
			c = e
		}

		if opts.InvertMatch {
			for k := last + 1; k < ln; k++ {
				if pushLimit() {
					return res
				}
				res.Matches = append(res.Matches, contextFor(k))
				if opts.OnlyFiles {
					return res
				}
			}
			last = ln
			continue
		}

		lineStart := idx.OffsetOf(ln)
		if ln != last {
			if pushLimit() {
				return res
			}
			res.Matches = append(res.Matches, contextFor(ln))
			last = ln
		}
		cur := &res.Matches[len(res.Matches)-1]
		cur.Spans = append(cur.Spans, [2]int{s - lineStart, e - lineStart})
		if opts.OnlyFiles {
			return res
		}
	}

	if opts.InvertMatch {
		total := idx.LineAt(len(buf))
		for k := last + 1; k < total; k++ {
			if pushLimit() {
				return res
			}
			res.Matches = append(res.Matches, contextFor(k))
			if opts.OnlyFiles {
				return res
			}
		}
	}

	return res
}

// isBinary implements spec.md 4.4 step 1: empty files and files starting
// with a UTF-8 BOM are never binary; otherwise the first 512 bytes are
// scanned for a NUL byte.
func isBinary(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.HasPrefix(buf, utf8BOM) {
		return false
	}
	n := len(buf)
	if n > binaryProbeLimit {
		n = binaryProbeLimit
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
