package nrrd

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMagic        = errors.New("nrrd: invalid magic")
	ErrMissingField        = errors.New("nrrd: missing required field")
	ErrMalformedField      = errors.New("nrrd: malformed field")
	ErrSizesMismatch       = errors.New("nrrd: per-axis length does not match dimension")
	ErrBlockSize           = errors.New("nrrd: block size present iff type is block")
	ErrUnknownField        = errors.New("nrrd: unknown header field")
	ErrNoBlankLine         = errors.New("nrrd: attached header is not terminated by a blank line")
	ErrUnsupportedEncoding = errors.New("nrrd: unsupported encoding")
	ErrTailEncoding        = errors.New("nrrd: byte skip -1 requires raw encoding")
	ErrIndivisible         = errors.New("nrrd: payload size not divisible by file count")
	ErrMissingDataFile     = errors.New("nrrd: data file does not exist")
	ErrShortPayload        = errors.New("nrrd: payload shorter than expected")
	ErrBlockDecode         = errors.New("nrrd: block data cannot be decoded to a numeric type")
	ErrLengthMismatch      = errors.New("nrrd: element count does not match sizes")
)

// FieldError reports a header line that could not be parsed.
type FieldError struct {
	Field string // field name, e.g. "sizes"
	Line  string // offending header line
	Err   error
}

func (e *FieldError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("nrrd: parse %s %q: %v", e.Field, e.Line, e.Err)
	}
	return fmt.Sprintf("nrrd: parse %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedField
}

// PathError reports a payload file that failed a pre-read check or an I/O step.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("nrrd: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedField, fmt.Sprintf(format, args...))
}
