package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind drives the service manager's state machine: transient
// errors are retried on the same provider, rate-limited errors trigger
// immediate fallback, permanent errors skip the item's retries entirely.
type ErrorKind string

const (
	KindTransient   ErrorKind = "transient"
	KindRateLimited ErrorKind = "rate-limited"
	KindPermanent   ErrorKind = "permanent"
)

// Error is a classified provider failure.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, defaulting to transient for
// unclassified failures so they remain retryable.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindTransient
}

func permanentf(provider string, format string, args ...interface{}) *Error {
	return &Error{Provider: provider, Kind: KindPermanent, Err: fmt.Errorf(format, args...)}
}

// classify tags an API error by inspecting its message: quota markers
// mean rate-limited, timeouts and 5xx mean transient, everything else
// stays transient and retryable.
func classify(provider string, err error) *Error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"):
		return &Error{Provider: provider, Kind: KindRateLimited, Err: err}

	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "500"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "overloaded"),
		strings.Contains(msg, "unavailable"):
		return &Error{Provider: provider, Kind: KindTransient, Err: err}

	case strings.Contains(msg, "400"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "unsupported"):
		return &Error{Provider: provider, Kind: KindPermanent, Err: err}

	default:
		return &Error{Provider: provider, Kind: KindTransient, Err: err}
	}
}
