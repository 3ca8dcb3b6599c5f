package nrrd

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/samcharles93/nrrd/internal/logger"
)

// Logger receives parse warnings and read/write debug records. Wrap an
// existing *slog.Logger with NewLogger.
type Logger = logger.Logger

// NewLogger adapts l for ParseOptions and WriteOptions. A nil l discards.
func NewLogger(l *slog.Logger) Logger {
	if l == nil {
		return logger.Discard()
	}
	return logger.New(l.Handler())
}

// ParseOptions controls how header lines are assembled.
type ParseOptions struct {
	// Strict fails on header lines no field recognizes. Otherwise they are
	// returned from ParseLines and logged at warn level.
	Strict bool
	// AnyOrder searches the whole line set for every mandatory field
	// instead of requiring them in their declared order.
	AnyOrder bool
	Logger   Logger
}

func (o ParseOptions) logger() logger.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Discard()
}

// ParseLines assembles a Header from header lines (without the blank
// terminator). It returns the lines no field consumed.
func ParseLines(lines []string, opts ParseOptions) (*Header, []string, error) {
	rest := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimRight(l, "\r")
		if l != "" {
			rest = append(rest, l)
		}
	}

	h := &Header{}
	if len(rest) == 0 {
		return nil, nil, &FieldError{Field: magicField.name, Err: ErrInvalidMagic}
	}
	magicEnd := 1
	if opts.AnyOrder {
		magicEnd = len(rest)
	}
	rest, idx, err := extract(h, rest, magicField, 0, magicEnd)
	if err != nil {
		return nil, nil, err
	}
	if idx < 0 {
		return nil, nil, &FieldError{Field: magicField.name, Line: rest[0], Err: ErrInvalidMagic}
	}

	pos := 0
	for _, f := range []*field{dimensionField, typeField, blockSizeField, encodingField, endianField, sizesField} {
		if f == blockSizeField && h.Type != DTypeBlock {
			continue
		}
		from := pos
		if opts.AnyOrder {
			from = 0
		}
		rest, idx, err = extract(h, rest, f, from, len(rest))
		if err != nil {
			return nil, nil, err
		}
		if idx < 0 {
			return nil, nil, &FieldError{Field: f.name, Err: ErrMissingField}
		}
		pos = idx
	}
	if h.Type != DTypeBlock {
		// a stray block size is consumed here and rejected by Validate
		if rest, _, err = extract(h, rest, blockSizeField, 0, len(rest)); err != nil {
			return nil, nil, err
		}
	}

	for _, f := range slices.Concat(scalarFields, axisFields) {
		if rest, _, err = extract(h, rest, f, 0, len(rest)); err != nil {
			return nil, nil, err
		}
	}

	rest = slices.DeleteFunc(rest, func(l string) bool {
		if strings.HasPrefix(l, "#") {
			return false
		}
		k, v, ok := strings.Cut(l, ":=")
		if !ok {
			return false
		}
		h.SetKeyValue(k, v)
		return true
	})

	rest = slices.DeleteFunc(rest, func(l string) bool {
		text, ok := strings.CutPrefix(l, "#")
		if !ok {
			return false
		}
		if text = strings.TrimLeft(text, " \t"); text != "" {
			h.Comments = append(h.Comments, text)
		}
		return true
	})

	rest, idx, err = extract(h, rest, dataFileField, 0, len(rest))
	if err != nil {
		return nil, nil, err
	}
	if list, ok := h.DataFile.(FileList); ok && idx >= 0 {
		for _, l := range rest[idx:] {
			if l = strings.TrimSpace(l); l != "" {
				list.Files = append(list.Files, l)
			}
		}
		h.DataFile = list
		rest = rest[:idx]
	}

	if err := h.Validate(); err != nil {
		return nil, nil, err
	}

	if len(rest) > 0 {
		if opts.Strict {
			return nil, nil, &FieldError{Field: "header", Line: rest[0], Err: ErrUnknownField}
		}
		opts.logger().Warn("unrecognized header lines", "count", len(rest), "first", rest[0])
	}
	return h, rest, nil
}

// extract parses and removes the first line in lines[from:to] that f
// matches. The returned index is where the line was, or -1.
func extract(h *Header, lines []string, f *field, from, to int) ([]string, int, error) {
	for i := from; i < to && i < len(lines); i++ {
		v, ok := f.match(lines[i])
		if !ok {
			continue
		}
		if err := f.parse(h, v); err != nil {
			return lines, i, &FieldError{Field: f.name, Line: lines[i], Err: err}
		}
		return slices.Delete(lines, i, i+1), i, nil
	}
	return lines, -1, nil
}

// Parse reads header text up to the first blank line.
func Parse(text string, opts ParseOptions) (*Header, error) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.TrimRight(l, "\r") == "" {
			lines = lines[:i]
			break
		}
	}
	h, _, err := ParseLines(lines, opts)
	return h, err
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Header) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text), ParseOptions{})
	if err != nil {
		return err
	}
	*h = *parsed
	return nil
}
