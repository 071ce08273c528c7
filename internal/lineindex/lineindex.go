// Package lineindex provides a lazy, incrementally-built map between byte
// offsets and line numbers over a byte buffer, as described in spec.md
// 4.3. It is built on demand as the scanner advances through a file, so a
// scan that only touches part of a large file never pays to index the
// rest.
package lineindex

import "sort"

// Index maps between byte offsets and 0-based line numbers within a
// buffer. It must not be used concurrently.
type Index struct {
	buf     []byte
	offsets []int // offsets[i] is the start offset of line i
}

// New creates an Index over buf. No scanning happens until a query
// requires it.
func New(buf []byte) *Index {
	return &Index{buf: buf, offsets: []int{0}}
}

// growTo extends the frontier until it covers at least line n (0-based),
// or the buffer is exhausted.
func (idx *Index) growTo(n int) {
	for len(idx.offsets)-1 < n {
		last := idx.offsets[len(idx.offsets)-1]
		if last >= len(idx.buf) {
			return // already at EOF; no more lines to add
		}
		nl := indexByteFrom(idx.buf, last, '\n')
		if nl < 0 {
			idx.offsets = append(idx.offsets, len(idx.buf))
			return
		}
		idx.offsets = append(idx.offsets, nl+1)
	}
}

// growPastOffset extends the frontier until a line starting at or after
// offset off has been recorded, or the buffer is exhausted.
func (idx *Index) growPastOffset(off int) {
	for {
		last := idx.offsets[len(idx.offsets)-1]
		if last > off || last >= len(idx.buf) {
			return
		}
		nl := indexByteFrom(idx.buf, last, '\n')
		if nl < 0 {
			idx.offsets = append(idx.offsets, len(idx.buf))
			return
		}
		idx.offsets = append(idx.offsets, nl+1)
	}
}

// LineAt returns the 0-based index of the line containing offset.
func (idx *Index) LineAt(offset int) int {
	idx.growPastOffset(offset)
	// offsets is sorted ascending; find the last line whose start <= offset.
	i := sort.Search(len(idx.offsets), func(i int) bool {
		return idx.offsets[i] > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// OffsetOf returns the byte offset of the start of line n (0-based),
// or len(buf) if n is past EOF.
func (idx *Index) OffsetOf(n int) int {
	idx.growTo(n)
	if n < 0 {
		return 0
	}
	if n >= len(idx.offsets) {
		return len(idx.buf)
	}
	return idx.offsets[n]
}

// LineText returns the byte slice for line n (0-based), excluding its
// terminating newline, and true; or nil, false if n is past EOF.
func (idx *Index) LineText(n int) ([]byte, bool) {
	if n < 0 {
		return nil, false
	}
	start := idx.OffsetOf(n)
	if start >= len(idx.buf) {
		return nil, false
	}
	end := idx.OffsetOf(n + 1)
	line := idx.buf[start:end]
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	return line, true
}

func indexByteFrom(b []byte, from int, c byte) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}
