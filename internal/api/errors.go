package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/samcharles93/nrrd/pkg/nrrd"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// statusFor maps a read failure to an HTTP status and error type.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, nrrd.ErrMissingDataFile):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, nrrd.ErrInvalidMagic),
		errors.Is(err, nrrd.ErrMissingField),
		errors.Is(err, nrrd.ErrMalformedField),
		errors.Is(err, nrrd.ErrSizesMismatch),
		errors.Is(err, nrrd.ErrBlockSize),
		errors.Is(err, nrrd.ErrUnknownField),
		errors.Is(err, nrrd.ErrNoBlankLine):
		return http.StatusUnprocessableEntity, "invalid_header_error"
	case errors.Is(err, nrrd.ErrUnsupportedEncoding),
		errors.Is(err, nrrd.ErrTailEncoding),
		errors.Is(err, nrrd.ErrIndivisible),
		errors.Is(err, nrrd.ErrShortPayload):
		return http.StatusUnprocessableEntity, "invalid_payload_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
