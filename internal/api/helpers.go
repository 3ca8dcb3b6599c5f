package api

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeError(c *echo.Context, err error) error {
	status, errType := statusFor(err)
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{
			Message: err.Error(),
			Type:    errType,
		},
	})
}

// resolveUnder maps a slash-separated request path onto root. Cleaning
// against "/" first keeps ".." from escaping root.
func resolveUnder(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", newInvalidRequest("missing path parameter")
	}
	if strings.ContainsRune(rel, 0) {
		return "", newInvalidRequest("invalid path")
	}
	clean := path.Clean("/" + rel)
	return filepath.Join(root, filepath.FromSlash(clean)), nil
}

// confine rejects resolved data files that fall outside root.
func confine(root string, paths []string) error {
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return newInvalidRequest("data file outside served root: " + filepath.Base(p))
		}
	}
	return nil
}

func etagMatches(c *echo.Context, etag string) bool {
	for _, t := range strings.Split(c.Request().Header.Get("If-None-Match"), ",") {
		if strings.TrimSpace(t) == etag {
			return true
		}
	}
	return false
}

func notModified(c *echo.Context) error {
	return c.NoContent(http.StatusNotModified)
}
