package nrrd

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const fullHeader = `NRRD0004
# scan of a phantom
dimension: 3
type: int16
encoding: gzip
endian: little
content: phantom
min: 0
max: 100
old min: -1.5
old max: 2.5
line skip: 2
byte skip: 10
sample units: HU
sizes: 2 3 4
spacings: 1 1.5 2
thicknesses: 1 1 1
axis mins: 0 0 0
axis maxs: 1 2 3
centerings: cell node none
labels: "x" "y axis" "z"
units: "mm" "mm" "mm"
kinds: space space space
space: left-posterior-superior
space dimension: 3
space units: "mm" "mm" "mm"
space origin: (0,0,0)
space directions: (1,0,0) (0,1.5,0) (0,0,2)
measurement frame: (1,0,0) (0,1,0) (0,0,1)
modality:=CT
patient:=anon
data file: vol.raw.gz
`

func TestParseFullHeader(t *testing.T) {
	t.Parallel()

	h, rest, err := ParseLines(strings.Split(strings.TrimSuffix(fullHeader, "\n"), "\n"), ParseOptions{Strict: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unconsumed lines: %q", rest)
	}

	if h.Version != 4 || h.Dimension != 3 || h.Type != DTypeInt16 {
		t.Fatalf("mandatory fields: version=%d dimension=%d type=%s", h.Version, h.Dimension, h.Type)
	}
	if h.Encoding != EncodingGzip || h.Endian != EndianLittle {
		t.Fatalf("encoding/endian: %s %s", h.Encoding, h.Endian)
	}
	if !slices.Equal(h.Sizes, []int{2, 3, 4}) {
		t.Fatalf("sizes: %v", h.Sizes)
	}
	if h.Min == nil || *h.Min != 0 || h.OldMin == nil || *h.OldMin != -1.5 {
		t.Fatalf("min/old min not parsed: %v %v", h.Min, h.OldMin)
	}
	if h.LineSkip != 2 || h.ByteSkip.Offset() != 10 || h.ByteSkip.IsTail() {
		t.Fatalf("skips: line=%d byte=%s", h.LineSkip, h.ByteSkip)
	}
	if !slices.Equal(h.Labels, []string{"x", "y axis", "z"}) {
		t.Fatalf("labels: %q", h.Labels)
	}
	if !slices.Equal(h.Centerings, []Centering{CenteringCell, CenteringNode, CenteringNone}) {
		t.Fatalf("centerings: %v", h.Centerings)
	}
	if h.Space != SpaceLPS || h.SpaceDimension != 3 {
		t.Fatalf("space: %s %d", h.Space, h.SpaceDimension)
	}
	if len(h.SpaceDirections) != 3 || h.SpaceDirections[1][1] != 1.5 {
		t.Fatalf("space directions: %v", h.SpaceDirections)
	}
	if h.KeyValues["modality"] != "CT" || h.KeyValues["patient"] != "anon" {
		t.Fatalf("key values: %v", h.KeyValues)
	}
	if !slices.Equal(h.Comments, []string{"scan of a phantom"}) {
		t.Fatalf("comments: %q", h.Comments)
	}
	if sf, ok := h.DataFile.(SingleFile); !ok || sf.Path != "vol.raw.gz" {
		t.Fatalf("data file: %#v", h.DataFile)
	}

	if got := h.String(); got != fullHeader {
		t.Fatalf("canonical round trip mismatch:\n got:\n%s\nwant:\n%s", got, fullHeader)
	}
}

func TestParseSerializeIdempotent(t *testing.T) {
	t.Parallel()

	// non-canonical optional order and aliases normalize on the first pass
	in := `NRRD0005
dimension: 2
type: unsigned short
encoding: raw
endian: big
kinds: domain domain
sizes: 3 4
centers: cell cell
axismins: -1 -2
spacings: 0.5 0.25
lineskip: 1
zeta:=last
alpha:=first
#   indented comment
#
datafile: ./img.raw
`
	h, err := Parse(in, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	once := h.String()
	h2, err := Parse(once, ParseOptions{})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if twice := h2.String(); twice != once {
		t.Fatalf("serialize(parse(serialize(h))) differs:\n%s\nvs\n%s", twice, once)
	}

	for _, want := range []string{"centerings: cell cell", "axis mins: -1 -2", "line skip: 1", "data file: ./img.raw", "# indented comment"} {
		if !strings.Contains(once, want+"\n") {
			t.Fatalf("canonical text missing %q:\n%s", want, once)
		}
	}
	if strings.Index(once, "alpha:=first") > strings.Index(once, "zeta:=last") {
		t.Fatalf("key values not sorted:\n%s", once)
	}
	if strings.Count(once, "#") != 1 {
		t.Fatalf("empty comment should be dropped:\n%s", once)
	}
}

func TestParseMandatoryOrder(t *testing.T) {
	t.Parallel()

	lines := []string{
		"NRRD0004",
		"type: short",
		"dimension: 2",
		"encoding: raw",
		"endian: little",
		"sizes: 2 2",
	}

	_, _, err := ParseLines(slices.Clone(lines), ParseOptions{})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "type" || !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing type error, got %v", err)
	}

	h, _, err := ParseLines(slices.Clone(lines), ParseOptions{AnyOrder: true})
	if err != nil {
		t.Fatalf("any order parse: %v", err)
	}
	if h.Type != DTypeInt16 || h.Dimension != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	base := func(extra ...string) []string {
		return append([]string{
			"NRRD0004",
			"dimension: 3",
			"type: float",
			"encoding: raw",
			"endian: little",
			"sizes: 2 2 2",
		}, extra...)
	}

	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"empty", nil, ErrInvalidMagic},
		{"bad magic", []string{"NRRX0004", "dimension: 1"}, ErrInvalidMagic},
		{"bad version", []string{"NRRD000x", "dimension: 1"}, ErrInvalidMagic},
		{"multi-digit version", []string{"NRRD00045", "dimension: 1"}, ErrInvalidMagic},
		{"missing version", []string{"NRRD000", "dimension: 1"}, ErrInvalidMagic},
		{"magic not first", append([]string{"# lead"}, base()...), ErrInvalidMagic},
		{"missing endian", []string{"NRRD0004", "dimension: 1", "type: float", "encoding: raw", "sizes: 2"}, ErrMissingField},
		{"sizes count", []string{"NRRD0004", "dimension: 3", "type: float", "encoding: raw", "endian: little", "sizes: 2 2"}, ErrSizesMismatch},
		{"zero size", []string{"NRRD0004", "dimension: 1", "type: float", "encoding: raw", "endian: little", "sizes: 0"}, ErrMalformedField},
		{"axis count", base("spacings: 1 1"), ErrSizesMismatch},
		{"zero spacing", base("spacings: 1 0 1"), ErrMalformedField},
		{"unknown type", []string{"NRRD0004", "dimension: 1", "type: complex128", "encoding: raw", "endian: little", "sizes: 2"}, ErrMalformedField},
		{"unknown encoding", []string{"NRRD0004", "dimension: 1", "type: float", "encoding: zstd", "endian: little", "sizes: 2"}, ErrMalformedField},
		{"block size on float", base("block size: 4"), ErrBlockSize},
		{"block without size", []string{"NRRD0004", "dimension: 1", "type: block", "encoding: raw", "endian: little", "sizes: 2"}, ErrMissingField},
		{"byte skip below tail", base("byte skip: -2"), ErrMalformedField},
		{"bad kind", base("kinds: domain domain sideways"), ErrMalformedField},
		{"bad vector", base("space origin: 0,0,0"), ErrMalformedField},
		{"bad sequence format", base("data file: img%s.raw 0 2 1"), ErrMalformedField},
		{"sequence bound out of range", base("data file: f%d.raw -9223372036854775808 2 1"), ErrMalformedField},
		{"sequence step out of range", base("data file: f%d.raw 0 2 -9223372036854775808"), ErrMalformedField},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseLines(tc.lines, ParseOptions{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseBlockType(t *testing.T) {
	t.Parallel()

	h, err := Parse("NRRD0004\ndimension: 1\ntype: block\nblocksize: 12\nencoding: raw\nendian: little\nsizes: 5\n", ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h.BlockSize != 12 || h.ElementSize() != 12 || h.PayloadSize() != 60 {
		t.Fatalf("block size=%d element=%d payload=%d", h.BlockSize, h.ElementSize(), h.PayloadSize())
	}
	if !strings.Contains(h.String(), "\nblock size: 12\n") {
		t.Fatalf("block size not written:\n%s", h)
	}
}

func TestParseUnknownLines(t *testing.T) {
	t.Parallel()

	lines := []string{
		"NRRD0004",
		"dimension: 1",
		"type: uint8",
		"encoding: raw",
		"endian: little",
		"sizes: 4",
		"frobnication: 3",
	}

	h, rest, err := ParseLines(slices.Clone(lines), ParseOptions{})
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	if h == nil || !slices.Equal(rest, []string{"frobnication: 3"}) {
		t.Fatalf("unconsumed lines: %q", rest)
	}

	_, _, err = ParseLines(slices.Clone(lines), ParseOptions{Strict: true})
	var fe *FieldError
	if !errors.As(err, &fe) || !errors.Is(err, ErrUnknownField) || fe.Line != "frobnication: 3" {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestParseKeyValuesAndComments(t *testing.T) {
	t.Parallel()

	h, err := Parse(`NRRD0004
# first
dimension: 1
type: uint8
#	second
encoding: raw
endian: little
sizes: 4
url:=http://example.com/a:=b
# not:=a key
`, ParseOptions{Strict: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := h.KeyValues["url"]; got != "http://example.com/a:=b" {
		t.Fatalf("value split at wrong separator: %q", got)
	}
	if len(h.KeyValues) != 1 {
		t.Fatalf("comment parsed as key value: %v", h.KeyValues)
	}
	if !slices.Equal(h.Comments, []string{"first", "second", "not:=a key"}) {
		t.Fatalf("comments: %q", h.Comments)
	}
}

func TestParseDataFileList(t *testing.T) {
	t.Parallel()

	text := `NRRD0004
dimension: 3
type: uint8
encoding: raw
endian: little
sizes: 2 2 3
data file: LIST 2
slice0.raw
sub/slice1.raw
slice2.raw
`
	h, err := Parse(text, ParseOptions{Strict: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	list, ok := h.DataFile.(FileList)
	if !ok {
		t.Fatalf("data file: %#v", h.DataFile)
	}
	if list.SubDim != 2 || !slices.Equal(list.Paths(), []string{"slice0.raw", "sub/slice1.raw", "slice2.raw"}) {
		t.Fatalf("list: %+v", list)
	}
	if h.String() != text {
		t.Fatalf("list round trip:\n%s", h)
	}
}

func TestParseStopsAtBlankLine(t *testing.T) {
	t.Parallel()

	var h Header
	err := h.UnmarshalText([]byte("NRRD0004\r\ndimension: 1\r\ntype: uint8\r\nencoding: raw\r\nendian: little\r\nsizes: 3\r\n\r\n\x00\x01\x02"))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.NumElements() != 3 || !h.Attached() {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestHeaderCloneIsDeep(t *testing.T) {
	t.Parallel()

	h, err := Parse(fullHeader, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := h.Clone()
	c.Sizes[0] = 99
	c.SpaceDirections[0][0] = 42
	*c.Min = 7
	c.KeyValues["modality"] = "MR"
	c.Labels[0] = "changed"

	if h.Sizes[0] != 2 || h.SpaceDirections[0][0] != 1 || *h.Min != 0 || h.KeyValues["modality"] != "CT" || h.Labels[0] != "x" {
		t.Fatalf("clone shares state with original")
	}
}
