package nrrd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/nrrd/internal/logger"
)

// ReadOptions configures header parsing and payload reads.
type ReadOptions struct {
	ParseOptions
	// Concurrency bounds parallel per-file reads. Zero means no limit,
	// one reads files sequentially.
	Concurrency int
}

// WriteOptions configures Write.
type WriteOptions struct {
	Encoding Encoding
	// Detached writes <base>.nhdr plus a data file instead of <base>.nrrd.
	Detached bool
	Logger   Logger
}

// WriteResult names the files Write produced and the header it wrote.
type WriteResult struct {
	HeaderPath string
	DataPath   string // empty when attached
	Header     *Header
}

func readHeaderFile(path string, opts ParseOptions) (*Header, headerBlock, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, headerBlock{}, nil, err
	}
	defer func() { _ = f.Close() }()

	hb, err := readUntilBlank(bufio.NewReader(f))
	if err != nil {
		return nil, hb, nil, &PathError{Op: "read header", Path: path, Err: err}
	}
	h, rest, err := ParseLines(hb.lines, opts)
	if err != nil {
		return nil, hb, nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, hb, rest, nil
}

// ReadHeader parses the header of an .nrrd or .nhdr file.
func ReadHeader(path string, opts ReadOptions) (*Header, error) {
	h, _, _, err := readHeaderFile(path, opts.ParseOptions)
	return h, err
}

// ReadHeaderLines is ReadHeader that also returns the header lines no
// field recognized.
func ReadHeaderLines(path string, opts ReadOptions) (*Header, []string, error) {
	h, _, rest, err := readHeaderFile(path, opts.ParseOptions)
	return h, rest, err
}

// ReadPayload reads the header and its full decoded payload.
func ReadPayload(path string, opts ReadOptions) ([]byte, *Header, error) {
	return ReadPayloadContext(context.Background(), path, opts)
}

// ReadPayloadContext is ReadPayload with cancellation of per-file reads.
func ReadPayloadContext(ctx context.Context, path string, opts ReadOptions) ([]byte, *Header, error) {
	h, hb, _, err := readHeaderFile(path, opts.ParseOptions)
	if err != nil {
		return nil, nil, err
	}

	var srcs []payloadSource
	if h.Attached() {
		if !hb.terminated {
			return nil, nil, &PathError{Op: "read header", Path: path, Err: ErrNoBlankLine}
		}
		srcs = []payloadSource{{path: path, offset: hb.offset}}
	} else {
		paths, err := DataFilePaths(path, h)
		if err != nil {
			return nil, nil, err
		}
		srcs = make([]payloadSource, len(paths))
		for i, p := range paths {
			srcs[i] = payloadSource{path: p}
		}
	}

	b, err := readPayload(ctx, h, srcs, opts.Concurrency, opts.logger())
	if err != nil {
		return nil, nil, err
	}
	return b, h, nil
}

// ReadTyped reads the payload and decodes it to T.
func ReadTyped[T Number](path string, opts ReadOptions) ([]T, *Header, error) {
	b, h, err := ReadPayload(path, opts)
	if err != nil {
		return nil, nil, err
	}
	out, err := Decode[T](h, b)
	if err != nil {
		return nil, nil, err
	}
	return out, h, nil
}

// DataFilePaths resolves the payload files of the header read from path.
// Relative entries are taken relative to the header's directory. An
// attached header resolves to path itself. A directive naming more files
// than the payload has bytes fails with ErrIndivisible before the file
// list is expanded.
func DataFilePaths(path string, h *Header) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if h.Attached() {
		return []string{abs}, nil
	}
	// every file holds a nonempty share, so more files than bytes cannot split
	if n, size := fileCount(h.DataFile), h.PayloadSize(); int64(n) > size {
		return nil, fmt.Errorf("%w: %d bytes over %d files", ErrIndivisible, size, n)
	}
	dir := filepath.Dir(abs)
	paths := h.DataFile.Paths()
	for i, p := range paths {
		paths[i] = ResolvePath(dir, p)
	}
	return paths, nil
}

// BasePath strips a trailing .nrrd or .nhdr extension.
func BasePath(path string) string {
	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".nrrd", ".nhdr":
		return strings.TrimSuffix(path, ext)
	}
	return path
}

// Write stores data with the metadata of ref. The reference header is
// cloned; its type, endian and encoding are replaced, stale skips are
// cleared and, when detached, a single data file directive is set.
func Write[T Number](path string, ref *Header, data []T, opts WriteOptions) (WriteResult, error) {
	if ref == nil {
		return WriteResult{}, fmt.Errorf("nrrd: write %s: nil reference header", path)
	}
	switch opts.Encoding {
	case EncodingRaw, EncodingGzip, EncodingBzip2:
	default:
		return WriteResult{}, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, opts.Encoding)
	}

	h := ref.Clone()
	h.Type = DTypeOf[T]()
	h.BlockSize = 0
	h.Endian = NativeEndian()
	h.Encoding = opts.Encoding
	h.LineSkip = 0
	h.ByteSkip = ByteSkip{}
	h.DataFile = nil
	if h.Version == 0 {
		h.Version = 4
	}
	if err := h.Validate(); err != nil {
		return WriteResult{}, err
	}
	if len(data) != h.NumElements() {
		return WriteResult{}, fmt.Errorf("%w: have %d, sizes %v give %d", ErrLengthMismatch, len(data), h.Sizes, h.NumElements())
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	payload := asBytes(data)
	base := BasePath(path)

	res := WriteResult{Header: h}
	if opts.Detached {
		res.HeaderPath = base + ".nhdr"
		res.DataPath = base + opts.Encoding.FileExt()
		h.DataFile = SingleFile{Path: filepath.Base(res.DataPath)}
		if err := writeDetached(res.HeaderPath, res.DataPath, h, payload); err != nil {
			return WriteResult{}, err
		}
	} else {
		res.HeaderPath = base + ".nrrd"
		if err := writeAttached(res.HeaderPath, h, payload); err != nil {
			return WriteResult{}, err
		}
	}
	log.Debug("wrote volume", "header", res.HeaderPath, "data", res.DataPath, "bytes", len(payload))
	return res, nil
}

// WriteHeader writes only the header text, replacing path atomically.
func WriteHeader(path string, h *Header) error {
	if err := h.Validate(); err != nil {
		return err
	}
	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := h.WriteTo(w)
		return err
	})
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	return nil
}
