package nrrd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/nrrd/internal/logger"
)

// payloadSource is one file holding part of the payload. offset is where
// the data section starts, past any attached header.
type payloadSource struct {
	path   string
	offset int64
}

// checkPayload runs every check that must pass before any file is opened.
func checkPayload(h *Header, srcs []payloadSource) error {
	switch h.Encoding {
	case EncodingRaw, EncodingGzip, EncodingBzip2:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, h.Encoding)
	}
	if h.ByteSkip.IsTail() && h.Encoding != EncodingRaw {
		return fmt.Errorf("%w: encoding is %s", ErrTailEncoding, h.Encoding)
	}
	if len(srcs) == 0 {
		return fmt.Errorf("%w: data file directive names no files", ErrMissingDataFile)
	}
	if total := h.PayloadSize(); total%int64(len(srcs)) != 0 {
		return fmt.Errorf("%w: %d bytes over %d files", ErrIndivisible, total, len(srcs))
	}
	for _, s := range srcs {
		if _, err := os.Stat(s.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				err = ErrMissingDataFile
			}
			return &PathError{Op: "stat", Path: s.path, Err: err}
		}
	}
	return nil
}

// readPayload reads the whole payload of h from srcs. Each source holds an
// equal share and they are concatenated in order.
func readPayload(ctx context.Context, h *Header, srcs []payloadSource, concurrency int, log logger.Logger) ([]byte, error) {
	if err := checkPayload(h, srcs); err != nil {
		return nil, err
	}

	buf := make([]byte, h.PayloadSize())
	chunk := len(buf) / len(srcs)
	log.Debug("reading payload", "files", len(srcs), "bytes", len(buf), "encoding", h.Encoding.String())

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, src := range srcs {
		dst := buf[i*chunk : (i+1)*chunk]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := readChunk(h, src, dst); err != nil {
				var pe *PathError
				if errors.As(err, &pe) {
					return err
				}
				return &PathError{Op: "read", Path: src.path, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buf, nil
}

func readChunk(h *Header, src payloadSource, dst []byte) error {
	if h.Encoding == EncodingRaw && (h.ByteSkip.IsTail() || h.LineSkip == 0) {
		return readRegion(src.path, src.offset+h.ByteSkip.Offset(), h.ByteSkip.IsTail(), dst)
	}

	f, err := os.Open(src.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if src.offset > 0 {
		if _, err := f.Seek(src.offset, io.SeekStart); err != nil {
			return err
		}
	}

	br := bufio.NewReaderSize(f, 1<<16)
	if err := skipLines(br, h.LineSkip); err != nil {
		return fmt.Errorf("skip %d lines: %w", h.LineSkip, err)
	}

	r, closeFn, err := decompressor(h.Encoding, br)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	if skip := h.ByteSkip.Offset(); skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return fmt.Errorf("%w: byte skip %d: %v", ErrShortPayload, skip, err)
		}
	}
	if _, err := io.ReadFull(r, dst); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: want %d bytes", ErrShortPayload, len(dst))
		}
		return err
	}
	return nil
}

func decompressor(enc Encoding, r io.Reader) (io.Reader, func() error, error) {
	switch enc {
	case EncodingGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, zr.Close, nil
	case EncodingBzip2:
		zr, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("bzip2: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return r, func() error { return nil }, nil
	}
}
