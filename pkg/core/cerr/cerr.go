package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict categorizes an error as a state conflict, that is, the
// source-state precondition of a requested transition did not hold.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

func hasStatus(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.HTTPStatusCode == code
}

// IsNotFound reports if err indicates that the target record does not
// exist anymore.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports if err indicates a rejected transition whose
// source-state precondition did not hold.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}
