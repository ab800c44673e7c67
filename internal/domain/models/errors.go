package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by adapters, the retry executor and the gateway.
// Adapters surface only ErrNotFound, ErrRateLimited and TransportError;
// the executor alone produces ErrExhausted; the gateway alone turns
// ErrExhausted into a fallback or an empty result.
var (
	// ErrNotFound means a successful call yielded no data for the symbol
	// or keywords. Never retried.
	ErrNotFound = errors.New("no data found")

	// ErrRateLimited means the provider asked the caller to slow down.
	// Retryable after a fixed cooldown.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrMissingCredential is a configuration-time failure: the selected
	// provider requires an API key and none was supplied.
	ErrMissingCredential = errors.New("provider requires an API key")

	// ErrUnknownProvider is a configuration-time failure for an
	// unrecognized provider id.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrExhausted means all retry attempts were consumed. The gateway
	// interprets it as "fall back to simulation", not as fatal.
	ErrExhausted = errors.New("all attempts exhausted")
)

// TransportError wraps a timeout, connection failure, unexpected status or
// malformed body. Retryable with jittered backoff.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err as a retryable transport failure.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// Retryable reports whether the executor should attempt the call again.
func Retryable(err error) bool {
	var te *TransportError
	return errors.Is(err, ErrRateLimited) || errors.As(err, &te)
}
