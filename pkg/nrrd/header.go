package nrrd

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ByteSkip is either a fixed offset into the decoded stream or the tail
// sentinel (text "-1"), which anchors the payload at the end of the file.
type ByteSkip struct {
	n        int64
	fromTail bool
}

// FromTail reads the payload from the last bytes of the data file.
var FromTail = ByteSkip{fromTail: true}

func ByteOffset(n int64) ByteSkip { return ByteSkip{n: n} }

func (b ByteSkip) IsTail() bool  { return b.fromTail }
func (b ByteSkip) Offset() int64 { return b.n }
func (b ByteSkip) IsZero() bool  { return !b.fromTail && b.n == 0 }

func (b ByteSkip) String() string {
	if b.fromTail {
		return "-1"
	}
	return strconv.FormatInt(b.n, 10)
}

func parseByteSkip(s string) (ByteSkip, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return ByteSkip{}, malformed("byte skip %q", s)
	}
	switch {
	case n == -1:
		return FromTail, nil
	case n < -1:
		return ByteSkip{}, malformed("byte skip %d below -1", n)
	}
	return ByteOffset(n), nil
}

// Header is the parsed form of an NRRD header. Optional scalar fields use
// pointers or zero values for absence; optional per-axis slices are nil
// when absent.
type Header struct {
	Version   int
	Dimension int
	Type      DType
	BlockSize int // only when Type is DTypeBlock
	Encoding  Encoding
	Endian    Endian
	Sizes     []int

	Content     string
	Min         *float64
	Max         *float64
	OldMin      *float64
	OldMax      *float64
	LineSkip    int
	ByteSkip    ByteSkip
	SampleUnits string

	Spacings    []float64
	Thicknesses []float64
	AxisMins    []float64
	AxisMaxs    []float64
	Centerings  []Centering
	Labels      []string
	Units       []string
	Kinds       []Kind

	Space            Space
	SpaceDimension   int
	SpaceUnits       []string
	SpaceOrigin      Vector
	SpaceDirections  []Vector // nil entry is "none"
	MeasurementFrame []Vector

	KeyValues map[string]string
	Comments  []string

	// DataFile is nil when the payload is attached.
	DataFile DataFile
}

// NewHeader returns a version 4, native-endian, raw-encoded header.
func NewHeader(t DType, sizes []int) *Header {
	return &Header{
		Version:   4,
		Dimension: len(sizes),
		Type:      t,
		Encoding:  EncodingRaw,
		Endian:    NativeEndian(),
		Sizes:     slices.Clone(sizes),
	}
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := *h
	c.Sizes = slices.Clone(h.Sizes)
	c.Min = clonePtr(h.Min)
	c.Max = clonePtr(h.Max)
	c.OldMin = clonePtr(h.OldMin)
	c.OldMax = clonePtr(h.OldMax)
	c.Spacings = slices.Clone(h.Spacings)
	c.Thicknesses = slices.Clone(h.Thicknesses)
	c.AxisMins = slices.Clone(h.AxisMins)
	c.AxisMaxs = slices.Clone(h.AxisMaxs)
	c.Centerings = slices.Clone(h.Centerings)
	c.Labels = slices.Clone(h.Labels)
	c.Units = slices.Clone(h.Units)
	c.Kinds = slices.Clone(h.Kinds)
	c.SpaceUnits = slices.Clone(h.SpaceUnits)
	c.SpaceOrigin = slices.Clone(h.SpaceOrigin)
	c.SpaceDirections = cloneVectors(h.SpaceDirections)
	c.MeasurementFrame = cloneVectors(h.MeasurementFrame)
	c.KeyValues = maps.Clone(h.KeyValues)
	c.Comments = slices.Clone(h.Comments)
	if h.DataFile != nil {
		c.DataFile = h.DataFile.clone()
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneVectors(vs []Vector) []Vector {
	if vs == nil {
		return nil
	}
	out := make([]Vector, len(vs))
	for i, v := range vs {
		out[i] = slices.Clone(v)
	}
	return out
}

// ElementSize is the byte size of one element, honoring block size.
func (h *Header) ElementSize() int {
	if h.Type == DTypeBlock {
		return h.BlockSize
	}
	return h.Type.Size()
}

// NumElements is the product of sizes.
func (h *Header) NumElements() int {
	n := 1
	for _, s := range h.Sizes {
		n *= s
	}
	return n
}

// PayloadSize is the decoded payload length in bytes.
func (h *Header) PayloadSize() int64 {
	return int64(h.NumElements()) * int64(h.ElementSize())
}

// Attached reports whether the payload follows the header in the same file.
func (h *Header) Attached() bool { return h.DataFile == nil }

// SetKeyValue adds or replaces a key/value pair.
func (h *Header) SetKeyValue(key, value string) {
	if h.KeyValues == nil {
		h.KeyValues = make(map[string]string)
	}
	h.KeyValues[key] = value
}

// Validate checks the cross-field invariants.
func (h *Header) Validate() error {
	if h.Dimension <= 0 {
		return &FieldError{Field: "dimension", Err: malformed("dimension %d not positive", h.Dimension)}
	}
	if len(h.Sizes) != h.Dimension {
		return &FieldError{Field: "sizes", Err: ErrSizesMismatch}
	}
	for _, s := range h.Sizes {
		if s <= 0 {
			return &FieldError{Field: "sizes", Err: malformed("size %d not positive", s)}
		}
	}
	if (h.Type == DTypeBlock) != (h.BlockSize > 0) {
		return &FieldError{Field: "block size", Err: ErrBlockSize}
	}
	axes := []struct {
		name string
		n    int
	}{
		{"spacings", len(h.Spacings)},
		{"thicknesses", len(h.Thicknesses)},
		{"axis mins", len(h.AxisMins)},
		{"axis maxs", len(h.AxisMaxs)},
		{"centerings", len(h.Centerings)},
		{"labels", len(h.Labels)},
		{"units", len(h.Units)},
		{"kinds", len(h.Kinds)},
		{"space directions", len(h.SpaceDirections)},
	}
	for _, a := range axes {
		if a.n != 0 && a.n != h.Dimension {
			return &FieldError{Field: a.name, Err: ErrSizesMismatch}
		}
	}
	return nil
}
