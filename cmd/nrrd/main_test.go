package main

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/nrrd/internal/inspect"
	"github.com/samcharles93/nrrd/pkg/nrrd"
)

// runApp runs the CLI with an empty config and captures stdout. Commands
// share package-level flag destinations, so these tests do not run in
// parallel.
func runApp(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "none.yaml"))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	if err := app.Run(context.Background(), append([]string{"nrrd", "--log-level", "error"}, args...)); err != nil {
		t.Fatalf("nrrd %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestBuildInspectConvert(t *testing.T) {
	dir := t.TempDir()

	src := nrrd.NewHeader(nrrd.DTypeUint16, []int{3, 2})
	data := []uint16{10, 20, 30, 40, 50, 60}
	res, err := nrrd.Write(filepath.Join(dir, "raw.nrrd"), src, data, nrrd.WriteOptions{Detached: true})
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	built := filepath.Join(dir, "built.nhdr")
	runApp(t, "build", "--dims", "[3 2]", "--dtype", "ushort", "--file", filepath.Base(res.DataPath), built)

	out := runApp(t, "inspect", "--format", "json", "--checksum", built)
	var s inspect.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode inspect output: %v\n%s", err, out)
	}
	if s.Type != "uint16" || !slices.Equal(s.Sizes, []int{3, 2}) || s.Checksum == "" {
		t.Fatalf("summary = %+v", s)
	}
	if s.Checksum != inspect.Checksum(nrrd.Encode(data)) {
		t.Fatalf("checksum mismatch")
	}

	converted := filepath.Join(dir, "conv")
	runApp(t, "convert", "--encoding", "bzip2", built, converted)
	got, h, err := nrrd.ReadTyped[uint16](converted+".nrrd", nrrd.ReadOptions{})
	if err != nil {
		t.Fatalf("read converted: %v", err)
	}
	if !slices.Equal(got, data) || h.Encoding != nrrd.EncodingBzip2 || !h.Attached() {
		t.Fatalf("converted %v %s", got, h)
	}
	if h.SpaceDimension != 2 {
		t.Fatalf("converted header lost metadata:\n%s", h)
	}
}

func TestWriteSummaries(t *testing.T) {
	h := nrrd.NewHeader(nrrd.DTypeInt8, []int{4})
	a, err := inspect.Summarize("/v/a.nrrd", h)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	b := a
	b.Path = "/v/b.nrrd"

	var buf bytes.Buffer
	if err := writeSummaries(&buf, "json", []inspect.Summary{a, b}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var list []inspect.Summary
	if err := json.Unmarshal(buf.Bytes(), &list); err != nil || len(list) != 2 || list[1].Path != "/v/b.nrrd" {
		t.Fatalf("json list = %+v, %v", list, err)
	}

	buf.Reset()
	if err := writeSummaries(&buf, "yaml", []inspect.Summary{a}); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var one inspect.Summary
	if err := yaml.Unmarshal(buf.Bytes(), &one); err != nil || one.Type != "int8" {
		t.Fatalf("yaml = %+v, %v", one, err)
	}

	buf.Reset()
	if err := writeSummaries(&buf, "header", []inspect.Summary{a}); err != nil {
		t.Fatalf("header: %v", err)
	}
	if buf.String() != h.String() {
		t.Fatalf("header output = %q", buf.String())
	}

	if err := writeSummaries(&buf, "xml", []inspect.Summary{a}); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func TestVersionCommand(t *testing.T) {
	out := runApp(t, "version")
	if !strings.HasPrefix(out, "version:") {
		t.Fatalf("version output = %q", out)
	}
}
