// Package render implements the display modes that turn a stream of
// result.FileResults into printed output, per spec.md 4.8. Every mode is
// single-threaded: the goroutine draining dispatch.Run's channel owns one
// Mode and feeds it FileResults in arrival order.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/73ai/ru/internal/result"
)

// Mode renders one FileResult at a time to its writer.
type Mode interface {
	PrintResult(res result.FileResult)
}

// DefaultMode is the mode used for an interactive terminal: grouped by
// file, headings optional, colorized, context-aware.
type DefaultMode struct {
	w        io.Writer
	colors   Colors
	grouping bool
	heading  bool
	isFirst  bool
}

// NewDefaultMode builds the default renderer. grouping adds a blank line
// between files' output; heading prints the file name once above its
// matches instead of prefixing every match line with it.
func NewDefaultMode(w io.Writer, colors Colors, grouping, heading bool) *DefaultMode {
	return &DefaultMode{w: w, colors: colors, grouping: grouping, heading: heading, isFirst: true}
}

func (d *DefaultMode) printSeparator() {
	fmt.Fprintf(d.w, "%s--%s\n", d.colors.Punct, d.colors.Reset)
}

func (d *DefaultMode) printLineWithSpans(m result.Match) {
	pos := 0
	line := string(m.Line)
	for _, span := range m.Spans {
		start, end := span[0], span[1]
		if start > pos {
			io.WriteString(d.w, line[pos:start])
		}
		fmt.Fprintf(d.w, "%s%s%s", d.colors.Span, line[start:end], d.colors.Reset)
		pos = end
	}
	fmt.Fprintln(d.w, line[pos:])
}

// matchPrinter drives the shared before/match/after context-printing
// algorithm; fileFunc and lineFunc vary between heading and no-heading
// mode.
func (d *DefaultMode) matchPrinter(res result.FileResult, fileFunc func(), lineFunc func(lineno int, sep string)) {
	fileFunc()

	if !res.HasContext {
		for _, m := range res.Matches {
			lineFunc(m.Lineno, ":")
			d.printLineWithSpans(m)
		}
		return
	}

	lastPrinted := 0
	for im, m := range res.Matches {
		for i, line := range m.Before {
			lno := m.Lineno - len(m.Before) + i
			if lastPrinted > 0 && lno > lastPrinted+1 {
				d.printSeparator()
			}
			if lno > lastPrinted {
				lineFunc(lno, "-")
				fmt.Fprintln(d.w, string(line))
				lastPrinted = lno
			}
		}

		if lastPrinted > 0 && m.Lineno > lastPrinted+1 {
			d.printSeparator()
		}
		lineFunc(m.Lineno, ":")
		d.printLineWithSpans(m)
		lastPrinted = m.Lineno

		nextMatchLine := math.MaxInt
		if im < len(res.Matches)-1 {
			nextMatchLine = res.Matches[im+1].Lineno
		}
		for i, line := range m.After {
			lno := m.Lineno + i + 1
			if lno >= nextMatchLine {
				break
			}
			lineFunc(lno, "-")
			fmt.Fprintln(d.w, string(line))
			lastPrinted = lno
		}
	}
}

func (d *DefaultMode) PrintResult(res result.FileResult) {
	if len(res.Matches) == 0 {
		return
	}

	if !d.isFirst && d.grouping {
		fmt.Fprintln(d.w)
		if res.HasContext && !d.heading {
			d.printSeparator()
		}
	}

	switch {
	case res.IsBinary:
		fmt.Fprintf(d.w, "Binary file %s matches.\n", res.Fname)
	case d.heading:
		d.matchPrinter(res,
			func() { fmt.Fprintf(d.w, "%s%s%s\n", d.colors.Path, res.Fname, d.colors.Reset) },
			func(lineno int, sep string) {
				fmt.Fprintf(d.w, "%s%d%s%s%s%s", d.colors.Lineno, lineno, d.colors.Reset, d.colors.Punct, sep, d.colors.Reset)
			},
		)
	default:
		d.matchPrinter(res,
			func() {},
			func(lineno int, sep string) {
				fmt.Fprintf(d.w, "%s%s%s%s%s%s%s%d%s%s%s%s",
					d.colors.Path, res.Fname, d.colors.Reset,
					d.colors.Punct, sep, d.colors.Reset,
					d.colors.Lineno, lineno, d.colors.Reset,
					d.colors.Punct, sep, d.colors.Reset)
			},
		)
	}

	d.isFirst = false
}

// AckMateMode emits the machine-readable ackmate format: an uncolored
// ":fname" header followed by one line per match carrying a comma-joined
// "start len" span list.
type AckMateMode struct {
	w       io.Writer
	isFirst bool
}

func NewAckMateMode(w io.Writer) *AckMateMode {
	return &AckMateMode{w: w, isFirst: true}
}

func (a *AckMateMode) PrintResult(res result.FileResult) {
	if len(res.Matches) == 0 {
		return
	}
	if !a.isFirst {
		fmt.Fprintln(a.w)
	}
	if res.IsBinary {
		fmt.Fprintf(a.w, "Binary file %s matches.\n", res.Fname)
	} else {
		fmt.Fprintf(a.w, ":%s\n", res.Fname)
		for _, m := range res.Matches {
			spans := make([]string, len(m.Spans))
			for i, s := range m.Spans {
				spans[i] = fmt.Sprintf("%d %d", s[0], s[1]-s[0])
			}
			fmt.Fprintf(a.w, "%d;%s:%s\n", m.Lineno, strings.Join(spans, ","), m.Line)
		}
	}
	a.isFirst = false
}

// VimGrepMode emits one line per span (so a line with several matches is
// repeated once per match), as consumed by editors' quickfix lists.
type VimGrepMode struct {
	w io.Writer
}

func NewVimGrepMode(w io.Writer) *VimGrepMode {
	return &VimGrepMode{w: w}
}

func (v *VimGrepMode) PrintResult(res result.FileResult) {
	if len(res.Matches) == 0 {
		return
	}
	if res.IsBinary {
		fmt.Fprintf(v.w, "Binary file %s matches.\n", res.Fname)
		return
	}
	for _, m := range res.Matches {
		for _, s := range m.Spans {
			fmt.Fprintf(v.w, "%s:%d:%d:%s\n", res.Fname, m.Lineno, s[0]+1, m.Line)
		}
	}
}

// FilesOnlyMode backs both --files-with-matches and --files-without-
// matches: NeedMatch selects which of the two is being rendered.
type FilesOnlyMode struct {
	w         io.Writer
	colors    Colors
	needMatch bool
}

func NewFilesOnlyMode(w io.Writer, colors Colors, needMatch bool) *FilesOnlyMode {
	return &FilesOnlyMode{w: w, colors: colors, needMatch: needMatch}
}

func (f *FilesOnlyMode) PrintResult(res result.FileResult) {
	if (len(res.Matches) == 0) != f.needMatch {
		fmt.Fprintf(f.w, "%s%s%s\n", f.colors.Path, res.Fname, f.colors.Reset)
	}
}

// CountMode prints one "path:count" line per file with any matches, where
// count is the number of matched spans (not matched lines) -- a file
// whose matches all come from invert-match mode (which records no spans)
// is reported with a count of zero, matching how the original tool
// counts.
type CountMode struct {
	w      io.Writer
	colors Colors
}

func NewCountMode(w io.Writer, colors Colors) *CountMode {
	return &CountMode{w: w, colors: colors}
}

func (c *CountMode) PrintResult(res result.FileResult) {
	if len(res.Matches) == 0 {
		return
	}
	count := 0
	for _, m := range res.Matches {
		count += len(m.Spans)
	}
	fmt.Fprintf(c.w, "%s%s%s%s:%s%s%d%s\n",
		c.colors.Path, res.Fname, c.colors.Reset,
		c.colors.Punct, c.colors.Reset,
		c.colors.Lineno, count, c.colors.Reset)
}
