package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nrrd/pkg/nrrd"
)

func newTestEcho(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	root := t.TempDir()

	data := []uint16{1, 2, 3, 4, 5, 6}
	ref := nrrd.NewHeader(nrrd.DTypeUint16, []int{3, 2})
	ref.Comments = []string{"fixture"}
	if _, err := nrrd.Write(filepath.Join(root, "vol.nrrd"), ref, data, nrrd.WriteOptions{Encoding: nrrd.EncodingGzip}); err != nil {
		t.Fatalf("write attached: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := nrrd.Write(filepath.Join(root, "sub", "det"), ref, data, nrrd.WriteOptions{Detached: true}); err != nil {
		t.Fatalf("write detached: %v", err)
	}

	server, err := NewServer(root, nrrd.ReadOptions{}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	e := echo.New()
	server.Register(e)
	return e, root
}

func doGet(t *testing.T, e *echo.Echo, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHeaderEndpoint(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t)

	rec := doGet(t, e, "/v1/header?path=vol.nrrd", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var got HeaderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != "uint16" || got.Encoding != "gzip" || !got.Attached {
		t.Fatalf("unexpected summary: %+v", got.Summary)
	}
	if got.Bytes != 12 || got.Elements != 6 {
		t.Fatalf("unexpected size: bytes=%d elements=%d", got.Bytes, got.Elements)
	}
	if got.Path != "vol.nrrd" {
		t.Fatalf("path should be root-relative, got %q", got.Path)
	}
}

func TestHeaderTextAndPaths(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t)

	rec := doGet(t, e, "/v1/header/text?path=sub/det.nhdr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "data file: det.raw\n") {
		t.Fatalf("header text missing data file: %s", rec.Body.String())
	}

	rec = doGet(t, e, "/v1/paths?path=sub/det.nhdr", nil)
	var paths PathsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &paths); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(paths.Paths) != 1 || paths.Paths[0] != "sub/det.raw" {
		t.Fatalf("unexpected paths: %v", paths.Paths)
	}
}

func TestPayloadEndpoint(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t)

	rec := doGet(t, e, "/v1/payload?path=sub/det.nhdr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 12 {
		t.Fatalf("expected 12 payload bytes, got %d", rec.Body.Len())
	}
	if got := rec.Header().Get("X-Nrrd-Sizes"); got != "3 2" {
		t.Fatalf("X-Nrrd-Sizes: got %q", got)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}

	rec = doGet(t, e, "/v1/payload?path=sub/det.nhdr", map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()
	e, root := newTestEcho(t)

	if err := os.WriteFile(filepath.Join(root, "bad.nhdr"), []byte("NRRD0004\ndimension: 3\ntype: float\nencoding: raw\nendian: little\nsizes: 4 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/v1/header", http.StatusBadRequest},
		{"/v1/header?path=missing.nrrd", http.StatusNotFound},
		{"/v1/header?path=../../etc/passwd", http.StatusNotFound},
		{"/v1/header?path=bad.nhdr", http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		rec := doGet(t, e, tc.target, nil)
		if rec.Code != tc.status {
			t.Errorf("%s: expected %d, got %d body=%s", tc.target, tc.status, rec.Code, rec.Body.String())
		}
	}
}

func TestResolveUnder(t *testing.T) {
	t.Parallel()
	root := filepath.FromSlash("/srv/data")
	tests := []struct {
		in   string
		want string
	}{
		{"a.nrrd", "/srv/data/a.nrrd"},
		{"../a.nrrd", "/srv/data/a.nrrd"},
		{"x/../../../a.nrrd", "/srv/data/a.nrrd"},
		{"/abs/a.nrrd", "/srv/data/abs/a.nrrd"},
	}
	for _, tc := range tests {
		got, err := resolveUnder(root, tc.in)
		if err != nil {
			t.Fatalf("resolveUnder(%q): %v", tc.in, err)
		}
		if got != filepath.FromSlash(tc.want) {
			t.Errorf("resolveUnder(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := resolveUnder(root, ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestHeaderStoreReuse(t *testing.T) {
	t.Parallel()
	_, root := newTestEcho(t)
	store := NewHeaderStore(nrrd.ReadOptions{})
	p := filepath.Join(root, "vol.nrrd")

	h1, _, err := store.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	h1.Sizes[0] = 99
	h2, _, err := store.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if h2.Sizes[0] != 3 {
		t.Fatalf("cached header was mutated through a returned clone")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", store.Len())
	}
}

func TestDataFileOutsideRoot(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	root := filepath.Join(base, "served")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	secret := filepath.Join(base, "secret.raw")
	if err := os.WriteFile(secret, []byte("TOPSECRET"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	hdr := "NRRD0004\ndimension: 1\ntype: uint8\nencoding: raw\nendian: little\nsizes: 9\n"
	for name, df := range map[string]string{"rel.nhdr": "../secret.raw", "abs.nhdr": secret} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(hdr+"data file: "+df+"\n"), 0o644); err != nil {
			t.Fatalf("write header: %v", err)
		}
	}

	server, err := NewServer(root, nrrd.ReadOptions{}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	e := echo.New()
	server.Register(e)

	for _, target := range []string{
		"/v1/payload?path=rel.nhdr",
		"/v1/payload?path=abs.nhdr",
		"/v1/paths?path=rel.nhdr",
		"/v1/paths?path=abs.nhdr",
	} {
		rec := doGet(t, e, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "TOPSECRET") {
			t.Errorf("%s: served data outside the root", target)
		}
	}
}

func TestConfine(t *testing.T) {
	t.Parallel()
	root := filepath.FromSlash("/srv/data")
	ok := []string{filepath.FromSlash("/srv/data/a.raw"), filepath.FromSlash("/srv/data/sub/..x.raw")}
	if err := confine(root, ok); err != nil {
		t.Fatalf("confine(%v): %v", ok, err)
	}
	for _, p := range []string{"/srv/secret.raw", "/srv/data2/a.raw", "/etc/passwd"} {
		if err := confine(root, []string{filepath.FromSlash(p)}); err == nil {
			t.Errorf("confine accepted %s", p)
		}
	}
}
