//go:build unix

package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// Open maps path read-only. Callers must call Close when done.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := info.Size()
	if size == 0 {
		f.Close()
		return &File{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		// Fall back to a regular read for filesystems or files that reject
		// mmap (e.g. some virtual/network filesystems, or files that grow
		// concurrently with the stat above).
		buf, rerr := readAll(f, size)
		f.Close()
		if rerr != nil {
			return nil, rerr
		}
		return &File{fallback: buf}, nil
	}

	return &File{f: f, data: data}, nil
}

// Close unmaps the file and releases the underlying descriptor.
func (mf *File) Close() error {
	var err error
	if mf.data != nil {
		err = unix.Munmap(mf.data)
		mf.data = nil
	}
	if mf.f != nil {
		if cerr := mf.f.Close(); err == nil {
			err = cerr
		}
		mf.f = nil
	}
	return err
}
