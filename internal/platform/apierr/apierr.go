// Package apierr carries an HTTP status and a stable error code from the
// service layer up to the handlers.
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
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("%s (%d)", http.StatusText(e.Status), e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, err error) *Error { return New(http.StatusBadRequest, code, err) }
func NotFound(code string, err error) *Error   { return New(http.StatusNotFound, code, err) }
func Conflict(code string, err error) *Error   { return New(http.StatusConflict, code, err) }

// Lookup returns the status and code carried anywhere in err's chain.
// Without one, it reports 500 and fallbackCode. An empty code is replaced
// by fallbackCode as well.
func Lookup(err error, fallbackCode string) (int, string) {
	var ae *Error
	if !errors.As(err, &ae) || ae.Status == 0 {
		return http.StatusInternalServerError, fallbackCode
	}
	if ae.Code == "" {
		return ae.Status, fallbackCode
	}
	return ae.Status, ae.Code
}
