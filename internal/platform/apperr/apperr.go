// Package apperr は各機能パッケージで共通のエラーモデル。
// 機能パッケージごとに APIError を持たず、ここに集約する。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

// Error is an expected, recoverable outcome. Reason narrows Code down to the
// concrete domain condition (ALREADY_BORROWED, READER_NOT_FOUND, ...).
type Error struct {
	Code    Code   `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, reason, msg string) *Error {
	return &Error{Code: code, Reason: reason, Message: msg}
}

func Invalid(msg string) *Error               { return New(CodeInvalidArgument, "", msg) }
func NotFound(reason, msg string) *Error      { return New(CodeNotFound, reason, msg) }
func Conflict(reason, msg string) *Error      { return New(CodeConflict, reason, msg) }
func Internal(msg string) *Error              { return New(CodeInternal, "", msg) }
func Invalidf(format string, a ...any) *Error { return Invalid(fmt.Sprintf(format, a...)) }

// From returns the *Error in err's chain, or an INTERNAL error wrapping its text.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err.Error())
}

// IsDomain reports whether err is an expected outcome rather than a fault.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code != CodeInternal
}

func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}
