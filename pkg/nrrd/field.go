package nrrd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// field is one header line kind: the literal prefixes it is recognized by
// (canonical first) and how its value moves in and out of a Header.
type field struct {
	name     string
	prefixes []string
	parse    func(h *Header, v string) error
	format   func(h *Header) (string, bool)
}

// match reports whether line carries one of the field's prefixes and
// returns the value that follows it.
func (f *field) match(line string) (string, bool) {
	for _, p := range f.prefixes {
		if v, ok := strings.CutPrefix(line, p); ok {
			return v, true
		}
	}
	return "", false
}

func (f *field) line(h *Header) (string, bool) {
	v, ok := f.format(h)
	if !ok {
		return "", false
	}
	return f.prefixes[0] + v, true
}

var (
	magicField = &field{
		name:     "magic",
		prefixes: []string{"NRRD000"},
		parse: func(h *Header, v string) error {
			if len(v) != 1 || v[0] < '0' || v[0] > '9' {
				return fmt.Errorf("%w: version %q", ErrInvalidMagic, v)
			}
			h.Version = int(v[0] - '0')
			return nil
		},
		format: func(h *Header) (string, bool) { return strconv.Itoa(h.Version), true },
	}
	dimensionField = &field{
		name:     "dimension",
		prefixes: []string{"dimension: "},
		parse: func(h *Header, v string) error {
			n, err := parsePositive(v)
			h.Dimension = n
			return err
		},
		format: func(h *Header) (string, bool) { return strconv.Itoa(h.Dimension), true },
	}
	typeField = &field{
		name:     "type",
		prefixes: []string{"type: "},
		parse: func(h *Header, v string) (err error) {
			h.Type, err = ParseDType(v)
			return err
		},
		format: func(h *Header) (string, bool) { return h.Type.String(), true },
	}
	blockSizeField = &field{
		name:     "block size",
		prefixes: []string{"block size: ", "blocksize: "},
		parse: func(h *Header, v string) error {
			n, err := parsePositive(v)
			h.BlockSize = n
			return err
		},
		format: func(h *Header) (string, bool) {
			return strconv.Itoa(h.BlockSize), h.Type == DTypeBlock || h.BlockSize > 0
		},
	}
	encodingField = &field{
		name:     "encoding",
		prefixes: []string{"encoding: "},
		parse: func(h *Header, v string) (err error) {
			h.Encoding, err = ParseEncoding(v)
			return err
		},
		format: func(h *Header) (string, bool) { return h.Encoding.String(), true },
	}
	endianField = &field{
		name:     "endian",
		prefixes: []string{"endian: "},
		parse: func(h *Header, v string) (err error) {
			h.Endian, err = ParseEndian(v)
			return err
		},
		format: func(h *Header) (string, bool) { return h.Endian.String(), true },
	}
	sizesField = &field{
		name:     "sizes",
		prefixes: []string{"sizes: "},
		parse: func(h *Header, v string) error {
			toks := strings.Fields(v)
			if len(toks) == 0 {
				return malformed("no sizes")
			}
			h.Sizes = make([]int, len(toks))
			for i, t := range toks {
				n, err := parsePositive(t)
				if err != nil {
					return err
				}
				h.Sizes[i] = n
			}
			return nil
		},
		format: func(h *Header) (string, bool) { return joinInts(h.Sizes), true },
	}
	dataFileField = &field{
		name:     "data file",
		prefixes: []string{"data file: ", "datafile: "},
		parse: func(h *Header, v string) (err error) {
			h.DataFile, err = parseDataFile(v)
			return err
		},
		format: func(h *Header) (string, bool) {
			if h.DataFile == nil {
				return "", false
			}
			return h.DataFile.String(), true
		},
	}
)

// scalarFields are the optional fields written between endian and sizes;
// axisFields follow sizes. Both are in canonical output order.
var scalarFields = []*field{
	{
		name:     "content",
		prefixes: []string{"content: "},
		parse:    func(h *Header, v string) error { h.Content = v; return nil },
		format:   func(h *Header) (string, bool) { return h.Content, h.Content != "" },
	},
	floatPtrField("min", []string{"min: "}, func(h *Header) **float64 { return &h.Min }),
	floatPtrField("max", []string{"max: "}, func(h *Header) **float64 { return &h.Max }),
	floatPtrField("old min", []string{"old min: ", "oldmin: "}, func(h *Header) **float64 { return &h.OldMin }),
	floatPtrField("old max", []string{"old max: ", "oldmax: "}, func(h *Header) **float64 { return &h.OldMax }),
	{
		name:     "line skip",
		prefixes: []string{"line skip: ", "lineskip: "},
		parse: func(h *Header, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return malformed("line skip %q", v)
			}
			h.LineSkip = n
			return nil
		},
		format: func(h *Header) (string, bool) { return strconv.Itoa(h.LineSkip), h.LineSkip > 0 },
	},
	{
		name:     "byte skip",
		prefixes: []string{"byte skip: ", "byteskip: "},
		parse: func(h *Header, v string) (err error) {
			h.ByteSkip, err = parseByteSkip(v)
			return err
		},
		format: func(h *Header) (string, bool) { return h.ByteSkip.String(), !h.ByteSkip.IsZero() },
	},
	{
		name:     "sample units",
		prefixes: []string{"sample units: ", "sampleunits: "},
		parse:    func(h *Header, v string) error { h.SampleUnits = v; return nil },
		format:   func(h *Header) (string, bool) { return h.SampleUnits, h.SampleUnits != "" },
	},
}

var axisFields = []*field{
	floatsField("spacings", []string{"spacings: "}, checkSpacing, func(h *Header) *[]float64 { return &h.Spacings }),
	floatsField("thicknesses", []string{"thicknesses: "}, nil, func(h *Header) *[]float64 { return &h.Thicknesses }),
	floatsField("axis mins", []string{"axis mins: ", "axismins: "}, checkFinite, func(h *Header) *[]float64 { return &h.AxisMins }),
	floatsField("axis maxs", []string{"axis maxs: ", "axismaxs: "}, checkFinite, func(h *Header) *[]float64 { return &h.AxisMaxs }),
	{
		name:     "centerings",
		prefixes: []string{"centerings: ", "centers: "},
		parse: func(h *Header, v string) error {
			toks := strings.Fields(v)
			if len(toks) == 0 {
				return malformed("no centerings")
			}
			h.Centerings = make([]Centering, len(toks))
			for i, t := range toks {
				h.Centerings[i] = ParseCentering(t)
			}
			return nil
		},
		format: func(h *Header) (string, bool) { return joinStringers(h.Centerings), h.Centerings != nil },
	},
	quotedField("labels", []string{"labels: "}, func(h *Header) *[]string { return &h.Labels }),
	quotedField("units", []string{"units: "}, func(h *Header) *[]string { return &h.Units }),
	{
		name:     "kinds",
		prefixes: []string{"kinds: "},
		parse: func(h *Header, v string) error {
			toks := strings.Fields(v)
			if len(toks) == 0 {
				return malformed("no kinds")
			}
			h.Kinds = make([]Kind, len(toks))
			for i, t := range toks {
				k, err := ParseKind(t)
				if err != nil {
					return err
				}
				h.Kinds[i] = k
			}
			return nil
		},
		format: func(h *Header) (string, bool) { return joinStringers(h.Kinds), h.Kinds != nil },
	},
	{
		name:     "space",
		prefixes: []string{"space: "},
		parse: func(h *Header, v string) (err error) {
			h.Space, err = ParseSpace(v)
			return err
		},
		format: func(h *Header) (string, bool) { return h.Space.String(), h.Space != SpaceUnset },
	},
	{
		name:     "space dimension",
		prefixes: []string{"space dimension: "},
		parse: func(h *Header, v string) error {
			n, err := parsePositive(v)
			h.SpaceDimension = n
			return err
		},
		format: func(h *Header) (string, bool) { return strconv.Itoa(h.SpaceDimension), h.SpaceDimension > 0 },
	},
	quotedField("space units", []string{"space units: "}, func(h *Header) *[]string { return &h.SpaceUnits }),
	{
		name:     "space origin",
		prefixes: []string{"space origin: "},
		parse: func(h *Header, v string) (err error) {
			h.SpaceOrigin, err = ParseVector(v)
			return err
		},
		format: func(h *Header) (string, bool) { return h.SpaceOrigin.String(), h.SpaceOrigin != nil },
	},
	{
		name:     "space directions",
		prefixes: []string{"space directions: "},
		parse: func(h *Header, v string) (err error) {
			h.SpaceDirections, err = parseDirections(v)
			return err
		},
		format: func(h *Header) (string, bool) {
			return formatDirections(h.SpaceDirections), h.SpaceDirections != nil
		},
	},
	{
		name:     "measurement frame",
		prefixes: []string{"measurement frame: "},
		parse: func(h *Header, v string) (err error) {
			h.MeasurementFrame, err = parseVectorList(v)
			return err
		},
		format: func(h *Header) (string, bool) {
			return formatVectorList(h.MeasurementFrame), h.MeasurementFrame != nil
		},
	},
}

func floatPtrField(name string, prefixes []string, ptr func(*Header) **float64) *field {
	return &field{
		name:     name,
		prefixes: prefixes,
		parse: func(h *Header, v string) error {
			f, err := parseFloat(v)
			if err != nil {
				return err
			}
			*ptr(h) = &f
			return nil
		},
		format: func(h *Header) (string, bool) {
			p := *ptr(h)
			if p == nil {
				return "", false
			}
			return formatFloat(*p), true
		},
	}
}

func floatsField(name string, prefixes []string, check func(float64) error, ptr func(*Header) *[]float64) *field {
	return &field{
		name:     name,
		prefixes: prefixes,
		parse: func(h *Header, v string) error {
			toks := strings.Fields(v)
			if len(toks) == 0 {
				return malformed("no values")
			}
			out := make([]float64, len(toks))
			for i, t := range toks {
				f, err := parseFloat(t)
				if err != nil {
					return err
				}
				if check != nil {
					if err := check(f); err != nil {
						return err
					}
				}
				out[i] = f
			}
			*ptr(h) = out
			return nil
		},
		format: func(h *Header) (string, bool) {
			vs := *ptr(h)
			if vs == nil {
				return "", false
			}
			parts := make([]string, len(vs))
			for i, f := range vs {
				parts[i] = formatFloat(f)
			}
			return strings.Join(parts, " "), true
		},
	}
}

func quotedField(name string, prefixes []string, ptr func(*Header) *[]string) *field {
	return &field{
		name:     name,
		prefixes: prefixes,
		parse: func(h *Header, v string) error {
			items, err := parseQuoted(v)
			if err != nil {
				return err
			}
			*ptr(h) = items
			return nil
		},
		format: func(h *Header) (string, bool) {
			items := *ptr(h)
			return formatQuoted(items), items != nil
		},
	}
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, malformed("integer %q", s)
	}
	if n <= 0 {
		return 0, malformed("%d is not positive", n)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, malformed("float %q", s)
	}
	return f, nil
}

// formatFloat writes the shortest text that parses back to f. NaN is
// spelled the way NRRD tools write it.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func checkSpacing(f float64) error {
	if f == 0 || math.IsInf(f, 0) {
		return malformed("spacing %v", f)
	}
	return nil
}

func checkFinite(f float64) error {
	if math.IsInf(f, 0) {
		return malformed("axis bound %v", f)
	}
	return nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func joinStringers[T interface{ String() string }](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
