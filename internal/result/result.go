// Package result defines the shared record types produced by the scanner
// and consumed by the renderers: Match and FileResult.
package result

// Match is one source line that satisfied the search predicate.
//
// Lineno is 1-based; 0 is reserved for the synthetic record produced when a
// binary file matches. Spans are ordered, non-overlapping byte offsets into
// Line, and are empty iff the Match was produced under invert-match
// semantics.
type Match struct {
	Lineno int
	Line   []byte
	Spans  [][2]int
	Before [][]byte
	After  [][]byte
}

// FileResult holds all matches found in one file.
type FileResult struct {
	Fname      string
	IsBinary   bool
	HasContext bool
	Matches    []Match
}
