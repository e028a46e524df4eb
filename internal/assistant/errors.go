package assistant

import (
	"errors"

	"github.com/ayeshastore/ayesha/internal/llm"
)

// Kind categorizes why a reply could not be produced.
type Kind string

const (
	KindGatewayUnavailable Kind = "gateway_unavailable"
	KindGatewayBadResponse Kind = "gateway_bad_response"
	KindInternal           Kind = "internal"
)

// Error is returned by Ask for every failure. Kind is safe to show to
// clients; Err carries the underlying detail for logs.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Classify wraps err in an *Error with the matching Kind. Errors that are
// already classified are returned unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	switch {
	case errors.Is(err, llm.ErrUnavailable):
		return &Error{Kind: KindGatewayUnavailable, Err: err}
	case errors.Is(err, llm.ErrBadResponse):
		return &Error{Kind: KindGatewayBadResponse, Err: err}
	default:
		return &Error{Kind: KindInternal, Err: err}
	}
}
