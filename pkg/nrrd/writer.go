package nrrd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

const writerBufSize = 1 << 20 // 1 MiB

// writeFileAtomic writes through a uniquely named temp file in the target
// directory and renames it into place once fn succeeds.
func writeFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriterSize(f, writerBufSize)
	if err = fn(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// encodePayload writes data to w in the given encoding. Raw data is
// written as is; gzip and bzip2 stream through a compressor.
func encodePayload(w io.Writer, enc Encoding, data []byte) error {
	switch enc {
	case EncodingRaw:
		_, err := w.Write(data)
		return err
	case EncodingGzip:
		zw := gzip.NewWriter(w)
		if _, err := zw.Write(data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("gzip: %w", err)
		}
		return zw.Close()
	case EncodingBzip2:
		zw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		if err != nil {
			return fmt.Errorf("bzip2: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("bzip2: %w", err)
		}
		return zw.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
}

// writeDetached writes the payload to dataPath, then the header to headerPath.
func writeDetached(headerPath, dataPath string, h *Header, payload []byte) error {
	if err := writeFileAtomic(dataPath, func(w io.Writer) error {
		return encodePayload(w, h.Encoding, payload)
	}); err != nil {
		return &PathError{Op: "write", Path: dataPath, Err: err}
	}
	if err := writeFileAtomic(headerPath, func(w io.Writer) error {
		_, err := h.WriteTo(w)
		return err
	}); err != nil {
		_ = os.Remove(dataPath)
		return &PathError{Op: "write", Path: headerPath, Err: err}
	}
	return nil
}

// writeAttached writes header, blank line and payload to one file.
func writeAttached(path string, h *Header, payload []byte) error {
	if h.DataFile != nil {
		return errors.New("nrrd: attached header carries a data file directive")
	}
	err := writeFileAtomic(path, func(w io.Writer) error {
		if _, err := h.WriteTo(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return encodePayload(w, h.Encoding, payload)
	})
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	return nil
}
