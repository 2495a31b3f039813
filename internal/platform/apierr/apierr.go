package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code}
}

func Forbidden(code string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code}
}

func BadRequest(code string, err error) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Err: err}
}

// NormalizeStatus clamps anything that does not look like a 3-digit HTTP
// status (first digit 1-5, second 0-5) to 500.
func NormalizeStatus(status int) int {
	if status < 100 || status > 559 {
		return http.StatusInternalServerError
	}
	if (status/10)%10 > 5 {
		return http.StatusInternalServerError
	}
	return status
}

// StatusOf extracts the HTTP status carried by err, normalized; plain errors
// map to 500.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return NormalizeStatus(apiErr.Status)
	}
	return http.StatusInternalServerError
}

// CodeOf extracts the machine-readable code carried by err, if any.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
