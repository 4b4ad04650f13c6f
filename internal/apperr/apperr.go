// Package apperr defines the error kinds services report and how they map onto HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	InvalidInput
	UpstreamFailure
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case UpstreamFailure:
		return "upstream_failure"
	}
	return "internal"
}

// Status is the HTTP status code a Kind is reported with.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidInput:
		return http.StatusBadRequest
	case UpstreamFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Retryable reports whether the caller may retry the operation unchanged.
func Retryable(err error) bool {
	return KindOf(err) == UpstreamFailure
}

// Message returns the client-facing message for err. Internal errors never leak their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "internal server error"
}

var (
	LoginRequired        = New(Unauthenticated, "Login required for premium content")
	SubscriptionRequired = New(Forbidden, "Premium subscription required")
	SubscriptionExpired  = New(Forbidden, "Subscription expired")
)
