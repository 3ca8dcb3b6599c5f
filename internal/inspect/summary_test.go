package inspect

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/nrrd/pkg/nrrd"
)

func TestSummarizeDetached(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := nrrd.NewHeader(nrrd.DTypeUint16, []int{1024, 512})
	h.Kinds = []nrrd.Kind{nrrd.KindDomain, nrrd.KindDomain}
	h.Space = nrrd.SpaceRAS
	seq, err := nrrd.NewFileSequence("s%d.raw", 0, 1, 1, 0)
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	h.DataFile = seq

	s, err := Summarize(filepath.Join(dir, "v.nhdr"), h)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Attached || len(s.DataFiles) != 2 || s.DataFiles[1] != filepath.Join(dir, "s1.raw") {
		t.Fatalf("data files: %+v", s.DataFiles)
	}
	if s.Elements != 1024*512 || s.Bytes != 1<<20 || s.Size != "1.0 MiB" {
		t.Fatalf("sizes: elements=%d bytes=%d size=%q", s.Elements, s.Bytes, s.Size)
	}
	if s.Space != "right-anterior-superior" || len(s.Kinds) != 2 || s.Kinds[0] != "domain" {
		t.Fatalf("space/kinds: %q %q", s.Space, s.Kinds)
	}
	if s.HeaderLines[0] != "NRRD0004" || s.HeaderLines[len(s.HeaderLines)-1] != "data file: s%d.raw 0 1 1" {
		t.Fatalf("header lines: %q", s.HeaderLines)
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	h := nrrd.NewHeader(nrrd.DTypeFloat32, []int{1000, 3})
	s, err := Summarize("/data/a.nrrd", h)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	s.Checksum = Checksum([]byte("abc"))
	s.Unconsumed = []string{"mystery: 1"}

	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"path:      /data/a.nrrd\n",
		"type:      float\n",
		"elements:  3,000\n",
		"payload:   12 KiB\n",
		"data:      attached\n",
		"blake3:    " + s.Checksum + "\n",
		"unrecognized: mystery: 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	// BLAKE3 of the empty input
	const empty = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Checksum(nil); got != empty {
		t.Fatalf("Checksum(nil) = %s", got)
	}
	if Checksum([]byte{1}) == Checksum([]byte{2}) {
		t.Fatalf("distinct payloads hash equal")
	}
}
