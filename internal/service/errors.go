package service

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrUpstream       = errors.New("upstream error")
	ErrUnauthorized   = errors.New("unauthorized")
)

// Error pairs one of the sentinel kinds with a message fit for the caller and
// the underlying cause, if any. errors.Is matches both the kind and the cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func invalidRequest(message string) error {
	return &Error{Kind: ErrInvalidRequest, Message: message}
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func upstream(message string, err error) error {
	return &Error{Kind: ErrUpstream, Message: message, Err: err}
}

func unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}
