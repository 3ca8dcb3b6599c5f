package nrrd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// readRegion fills dst from path starting at off, or from the last
// len(dst) bytes when tail is set. It maps the file read-only and falls
// back to ReadAt when mmap is unavailable.
func readRegion(path string, off int64, tail bool, dst []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size > int64(int(^uint(0)>>1)) {
		return fmt.Errorf("nrrd: %s is too large to map", path)
	}
	want := int64(len(dst))
	if tail {
		off = size - want
	}
	if off < 0 || off+want > size {
		return fmt.Errorf("%w: need %d bytes at offset %d, file has %d", ErrShortPayload, want, off, size)
	}
	if want == 0 {
		return nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		copy(dst, data[off:off+want])
		return unix.Munmap(data)
	}

	// Fallback path that does not require mmap support.
	n, err := f.ReadAt(dst, off)
	if errors.Is(err, io.EOF) && int64(n) == want {
		err = nil
	}
	return err
}
