package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeAuthentication = "authentication"
	CodeAuthorization  = "authorization"
	CodeReferential    = "referential"
	CodeValidation     = "validation"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal"
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

// Authentication: no valid caller identity on the request.
func Authentication(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, CodeAuthentication, fmt.Errorf(format, args...))
}

// Authorization: valid identity, forbidden row.
func Authorization(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, CodeAuthorization, fmt.Errorf(format, args...))
}

// Referential: reference to a non-existent owner or entity.
func Referential(format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, CodeReferential, fmt.Errorf(format, args...))
}

// Validation: required field missing, value out of bounds, unknown category.
func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// IsCode reports whether err is (or wraps) an *Error carrying the given code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, defaulting to 500 for plain errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the taxonomy code for err, or "internal" for plain errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodeInternal
}
