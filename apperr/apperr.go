// Package apperr carries the error taxonomy shared by handlers and services.
// Every error crossing a handler boundary is either an *Error or gets
// reported as an internal fault with its detail redacted from the response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota
	Authentication
	Authorization
	NotFound
	Conflict
	Carrier
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	Remark  string // provider remark, carrier errors only
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewCarrier reports a failure from the external shipping provider,
// keeping its human-readable remark for the response body.
func NewCarrier(message, remark string) *Error {
	return &Error{Kind: Carrier, Message: message, Remark: remark}
}

// KindOf returns the taxonomy kind of err, or Internal for anything
// that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Conflict, Carrier:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to echo to a client. Internal faults
// are redacted; callers log the full error instead.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal server error"
}

// RemarkOf returns the carrier remark attached to err, if any.
func RemarkOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Remark
	}
	return ""
}
