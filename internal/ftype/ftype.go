// Package ftype implements the --lang/--lang-not file-type classifier: a
// table of named languages mapped to their file extensions, used to
// include or exclude files by language during a walk. It is adapted from
// the teacher's language registry (internal/parser/languages.go), stripped
// of the tree-sitter parser bindings that went with each entry -- a plain
// regex search has no use for a parse tree, only for the extension table
// that told the teacher's registry which files to hand to which parser.
//
// Named --lang/--lang-not rather than --type/-t: spec.md already reserves
// -t for --all-text, so this classifier carries no short form.
package ftype

import "strings"

// Language names a supported --lang value and the extensions it covers.
type Language struct {
	Name       string
	Extensions []string
}

// Table is the built-in set of recognized --lang values.
var Table = []Language{
	{Name: "go", Extensions: []string{".go"}},
	{Name: "python", Extensions: []string{".py", ".pyx", ".pyi"}},
	{Name: "javascript", Extensions: []string{".js", ".mjs", ".jsx"}},
	{Name: "typescript", Extensions: []string{".ts", ".tsx"}},
	{Name: "rust", Extensions: []string{".rs"}},
	{Name: "c", Extensions: []string{".c", ".h"}},
	{Name: "cpp", Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hxx", ".h++"}},
	{Name: "java", Extensions: []string{".java"}},
}

// extByName and nameByExt are built once from Table for fast lookups.
var (
	extByName = func() map[string][]string {
		m := make(map[string][]string, len(Table))
		for _, l := range Table {
			m[l.Name] = l.Extensions
		}
		return m
	}()
	nameByExt = func() map[string]string {
		m := make(map[string]string)
		for _, l := range Table {
			for _, ext := range l.Extensions {
				m[ext] = l.Name
			}
		}
		return m
	}()
)

// Matcher decides whether a path is accepted, based on --lang (inclusion)
// and --lang-not (exclusion) selections.
type Matcher struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewMatcher builds a Matcher from the names passed to --lang and
// --lang-not. An unrecognized name contributes no extensions, mirroring the
// teacher's "skip unknown, don't fail the whole run" posture for filter
// configuration; if every name given to --lang is unrecognized, there is no
// inclusion filter and every file is allowed.
func NewMatcher(include, exclude []string) *Matcher {
	m := &Matcher{include: toExtSet(include), exclude: toExtSet(exclude)}
	if len(m.include) == 0 {
		m.include = nil
	}
	if len(m.exclude) == 0 {
		m.exclude = nil
	}
	return m
}

func toExtSet(names []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range names {
		for _, ext := range extByName[strings.ToLower(name)] {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Allows reports whether path passes the configured --lang/--lang-not
// filters. A Matcher with no inclusions and no exclusions allows
// everything.
func (m *Matcher) Allows(path string) bool {
	if m == nil || (m.include == nil && m.exclude == nil) {
		return true
	}
	ext := extOf(path)
	if m.exclude != nil {
		if _, ok := m.exclude[ext]; ok {
			return false
		}
	}
	if m.include != nil {
		_, ok := m.include[ext]
		return ok
	}
	return true
}

// NameOf returns the recognized language name for path's extension, or
// "" if none of Table's entries cover it.
func NameOf(path string) string {
	return nameByExt[extOf(path)]
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(path[i:])
}
