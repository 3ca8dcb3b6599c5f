package nrrd

import (
	"io"
	"maps"
	"slices"
	"strings"
)

// Lines renders the header in canonical field order, one line per entry,
// without the blank terminator.
func (h *Header) Lines() []string {
	var out []string
	add := func(f *field) {
		if l, ok := f.line(h); ok {
			out = append(out, l)
		}
	}

	add(magicField)
	for _, c := range h.Comments {
		if c != "" {
			out = append(out, "# "+c)
		}
	}
	for _, f := range []*field{dimensionField, typeField, blockSizeField, encodingField, endianField} {
		add(f)
	}
	for _, f := range scalarFields {
		add(f)
	}
	add(sizesField)
	for _, f := range axisFields {
		add(f)
	}
	for _, k := range slices.Sorted(maps.Keys(h.KeyValues)) {
		out = append(out, k+":="+h.KeyValues[k])
	}
	add(dataFileField)
	if list, ok := h.DataFile.(FileList); ok {
		out = append(out, list.Files...)
	}
	return out
}

func (h *Header) String() string {
	return strings.Join(h.Lines(), "\n") + "\n"
}

// MarshalText implements encoding.TextMarshaler.
func (h *Header) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// WriteTo writes the canonical header text.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, h.String())
	return int64(n), err
}
