package inspect

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/blake3"

	"github.com/samcharles93/nrrd/pkg/nrrd"
)

// Summary is the serializable view of a header shared by the CLI and the
// HTTP API.
type Summary struct {
	Path        string            `json:"path" yaml:"path"`
	Version     int               `json:"version" yaml:"version"`
	Type        string            `json:"type" yaml:"type"`
	Encoding    string            `json:"encoding" yaml:"encoding"`
	Endian      string            `json:"endian" yaml:"endian"`
	Sizes       []int             `json:"sizes" yaml:"sizes"`
	Elements    int               `json:"elements" yaml:"elements"`
	Bytes       int64             `json:"bytes" yaml:"bytes"`
	Size        string            `json:"size" yaml:"size"`
	Attached    bool              `json:"attached" yaml:"attached"`
	DataFiles   []string          `json:"data_files,omitempty" yaml:"data_files,omitempty"`
	Space       string            `json:"space,omitempty" yaml:"space,omitempty"`
	Kinds       []string          `json:"kinds,omitempty" yaml:"kinds,omitempty"`
	Spacings    []float64         `json:"spacings,omitempty" yaml:"spacings,omitempty"`
	KeyValues   map[string]string `json:"key_values,omitempty" yaml:"key_values,omitempty"`
	Comments    []string          `json:"comments,omitempty" yaml:"comments,omitempty"`
	Unconsumed  []string          `json:"unconsumed,omitempty" yaml:"unconsumed,omitempty"`
	Checksum    string            `json:"blake3,omitempty" yaml:"blake3,omitempty"`
	HeaderLines []string          `json:"header" yaml:"header"`
}

// Summarize describes h as read from path. Data file paths are resolved
// relative to path.
func Summarize(path string, h *nrrd.Header) (Summary, error) {
	paths, err := nrrd.DataFilePaths(path, h)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Path:        path,
		Version:     h.Version,
		Type:        h.Type.String(),
		Encoding:    h.Encoding.String(),
		Endian:      h.Endian.String(),
		Sizes:       h.Sizes,
		Elements:    h.NumElements(),
		Bytes:       h.PayloadSize(),
		Size:        humanize.IBytes(uint64(h.PayloadSize())),
		Attached:    h.Attached(),
		Space:       h.Space.String(),
		Spacings:    h.Spacings,
		KeyValues:   h.KeyValues,
		Comments:    h.Comments,
		HeaderLines: h.Lines(),
	}
	if !h.Attached() {
		s.DataFiles = paths
	}
	for _, k := range h.Kinds {
		s.Kinds = append(s.Kinds, k.String())
	}
	return s, nil
}

// Checksum hashes the decoded payload.
func Checksum(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// WriteText renders s as aligned key/value lines.
func WriteText(w io.Writer, s Summary) error {
	var b strings.Builder
	row := func(k string, v any) { fmt.Fprintf(&b, "%-10s %v\n", k+":", v) }
	row("path", s.Path)
	row("type", s.Type)
	row("encoding", s.Encoding)
	row("endian", s.Endian)
	row("sizes", s.Sizes)
	row("elements", humanize.Comma(int64(s.Elements)))
	row("payload", s.Size)
	if s.Attached {
		row("data", "attached")
	} else {
		row("data", fmt.Sprintf("%d file(s)", len(s.DataFiles)))
		for _, p := range s.DataFiles {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}
	if s.Space != "" {
		row("space", s.Space)
	}
	if s.Checksum != "" {
		row("blake3", s.Checksum)
	}
	for _, l := range s.Unconsumed {
		fmt.Fprintf(&b, "unrecognized: %s\n", l)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
