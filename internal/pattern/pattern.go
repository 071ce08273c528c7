// Package pattern builds an executable regular expression from a raw
// pattern string plus the literal/casing flags accepted on the command
// line.
package pattern

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// Casing selects how case is treated when matching.
type Casing int

const (
	// CasingDefault matches with the case sensitivity implied by the regex
	// itself (no inline flag added).
	CasingDefault Casing = iota
	// CasingSmart matches case-insensitively unless the pattern contains an
	// uppercase character.
	CasingSmart
	// CasingInsensitive always matches case-insensitively.
	CasingInsensitive
)

// CompileOptions configures Compile.
type CompileOptions struct {
	Literal bool
	Casing  Casing
}

// literalEscapeSet is the set of characters escaped when Literal is set,
// per spec.md 4.1 step 1.
const literalEscapeSet = `.?*+|^$(){}[]\`

// Error reports a pattern that failed to compile, along with the byte
// offset in the (possibly escaped/flag-prefixed) pattern where the regex
// engine detected the problem.
type Error struct {
	Message string
	Offset  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Message, e.Offset)
}

// Compile builds a compiled regular expression from raw pattern P and the
// given options, following spec.md 4.1:
//
//  1. if Literal, escape every character in literalEscapeSet with a
//     backslash;
//  2. if Casing is Insensitive, or Casing is Smart and the (possibly
//     escaped) pattern contains no uppercase character, prepend the
//     case-insensitive inline flag "(?i)";
//  3. compile with Go's regexp engine.
func Compile(raw string, opts CompileOptions) (*regexp.Regexp, error) {
	p := raw
	if opts.Literal {
		p = escapeLiteral(p)
	}

	insensitive := opts.Casing == CasingInsensitive ||
		(opts.Casing == CasingSmart && !containsUpper(p))
	if insensitive {
		p = "(?i)" + p
	}

	re, err := regexp.Compile(p)
	if err != nil {
		return nil, toPatternError(p, err)
	}
	return re, nil
}

func escapeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(literalEscapeSet, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func containsUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return true
		}
	}
	return false
}

// toPatternError extracts a best-effort offset from a regexp compile
// error. Go's regexp.Compile wraps a *syntax.Error when parsing fails,
// which carries the exact substring where the parser gave up; its first
// occurrence in the compiled pattern p is reported as the offset. Other
// failures (e.g. too-large program) have no position and report offset 0.
func toPatternError(p string, err error) *Error {
	if se, ok := err.(*syntax.Error); ok {
		off := strings.Index(p, se.Expr)
		if off < 0 {
			off = 0
		}
		return &Error{Message: se.Code.String(), Offset: off}
	}
	return &Error{Message: err.Error(), Offset: 0}
}
