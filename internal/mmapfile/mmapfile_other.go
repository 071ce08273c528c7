//go:build !unix

package mmapfile

import "os"

// Open reads path into memory in full. Platforms outside the unix build
// tag (notably Windows) don't share a single mmap syscall shape, and the
// scanner only ever needs a read-only []byte, so a buffered read is a
// correct and simple substitute here.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return &File{}, nil
	}

	buf, err := readAll(f, info.Size())
	if err != nil {
		return nil, err
	}
	return &File{fallback: buf}, nil
}

// Close releases resources. On this platform Bytes always returns a heap
// copy, so there is nothing left to unmap.
func (mf *File) Close() error {
	return nil
}
