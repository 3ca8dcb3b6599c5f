package api

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nrrd/internal/inspect"
	"github.com/samcharles93/nrrd/internal/logger"
	"github.com/samcharles93/nrrd/internal/version"
	"github.com/samcharles93/nrrd/pkg/nrrd"
)

// Server is a read-only HTTP view of the NRRD files under one root.
type Server struct {
	root  string
	store *HeaderStore
	opts  nrrd.ReadOptions
	log   logger.Logger
}

func NewServer(root string, opts nrrd.ReadOptions, log logger.Logger) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		root:  abs,
		store: NewHeaderStore(opts),
		opts:  opts,
		log:   log,
	}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/header", s.handleHeader)
	e.GET("/v1/header/text", s.handleHeaderText)
	e.GET("/v1/paths", s.handlePaths)
	e.GET("/v1/payload", s.handlePayload)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
		Root:    s.root,
	})
}

// relative reports p relative to the served root, slash-separated.
func (s *Server) relative(p string) string {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// dataFiles resolves the payload files of h and keeps them under the root.
func (s *Server) dataFiles(p string, h *nrrd.Header) ([]string, error) {
	paths, err := nrrd.DataFilePaths(p, h)
	if err != nil {
		return nil, err
	}
	if err := confine(s.root, paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Server) handleHeader(c *echo.Context) error {
	p, err := resolveUnder(s.root, c.QueryParam("path"))
	if err != nil {
		return writeError(c, err)
	}
	h, rest, err := s.store.Get(p)
	if err != nil {
		return writeError(c, err)
	}
	sum, err := inspect.Summarize(p, h)
	if err != nil {
		return writeError(c, err)
	}
	sum.Path = s.relative(p)
	sum.Unconsumed = rest
	for i, df := range sum.DataFiles {
		sum.DataFiles[i] = s.relative(df)
	}
	return writeJSON(c, http.StatusOK, HeaderResponse{Object: "nrrd.header", Summary: sum})
}

func (s *Server) handleHeaderText(c *echo.Context) error {
	p, err := resolveUnder(s.root, c.QueryParam("path"))
	if err != nil {
		return writeError(c, err)
	}
	h, _, err := s.store.Get(p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(h.String()))
}

func (s *Server) handlePaths(c *echo.Context) error {
	p, err := resolveUnder(s.root, c.QueryParam("path"))
	if err != nil {
		return writeError(c, err)
	}
	h, _, err := s.store.Get(p)
	if err != nil {
		return writeError(c, err)
	}
	paths, err := s.dataFiles(p, h)
	if err != nil {
		return writeError(c, err)
	}
	for i, df := range paths {
		paths[i] = s.relative(df)
	}
	return writeJSON(c, http.StatusOK, PathsResponse{Object: "nrrd.paths", Path: s.relative(p), Paths: paths})
}

// handlePayload returns the decoded payload bytes. Layout metadata travels
// in X-Nrrd-* headers and the ETag is the payload's BLAKE3 digest.
func (s *Server) handlePayload(c *echo.Context) error {
	p, err := resolveUnder(s.root, c.QueryParam("path"))
	if err != nil {
		return writeError(c, err)
	}
	h, _, err := s.store.Get(p)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := s.dataFiles(p, h); err != nil {
		s.log.Warn("payload outside root", "path", s.relative(p), "error", err)
		return writeError(c, err)
	}
	b, h, err := nrrd.ReadPayloadContext(c.Request().Context(), p, s.opts)
	if err != nil {
		s.log.Warn("payload read failed", "path", s.relative(p), "error", err)
		return writeError(c, err)
	}

	etag := `"` + inspect.Checksum(b) + `"`
	if etagMatches(c, etag) {
		return notModified(c)
	}
	sizes := make([]string, len(h.Sizes))
	for i, n := range h.Sizes {
		sizes[i] = strconv.Itoa(n)
	}
	hdr := c.Response().Header()
	hdr.Set("ETag", etag)
	hdr.Set("X-Nrrd-Type", h.Type.String())
	hdr.Set("X-Nrrd-Endian", h.Endian.String())
	hdr.Set("X-Nrrd-Sizes", strings.Join(sizes, " "))
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, b)
}
