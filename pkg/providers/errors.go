package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrCancelled is the sentinel for caller-driven cancellation. Check with
// errors.Is; the concrete type is CancellationError.
var ErrCancelled = errors.New("request cancelled")

// Error kind tags. Kinds classify provider failures for diagnostics and
// metrics; the router treats every kind identically ("try next candidate").
const (
	KindPayment     = "payment_required"
	KindRateLimited = "rate_limited"
	KindAuth        = "auth"
	KindTransport   = "transport"
	KindBadResponse = "bad_response"
	KindUpstream    = "upstream"
)

// ProviderError reports a single provider call failure: a non-2xx response,
// a transport error, or a malformed body. It never escapes the completion
// router to end users.
type ProviderError struct {
	// Provider is the name of the provider that failed.
	Provider string

	// StatusCode is the HTTP status code (0 for transport errors).
	StatusCode int

	// Kind tags the failure class (KindPayment, KindRateLimited, ...).
	Kind string

	// Message is the error detail, typically the upstream body.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d, %s): %s", e.Provider, e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("provider %q error (%s): %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ClassifyStatus maps an HTTP status code to an error kind.
func ClassifyStatus(status int) string {
	switch status {
	case http.StatusPaymentRequired:
		return KindPayment
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	default:
		return KindUpstream
	}
}

// CancellationError reports that the caller-supplied cancellation signal
// was or became active. It always short-circuits: the router never fails
// over past a cancellation, and nothing is recorded against the provider.
type CancellationError struct {
	// Provider is the provider whose call was interrupted, or empty if
	// cancellation was observed before any call started.
	Provider string

	// Cause is the context error (context.Canceled or
	// context.DeadlineExceeded).
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("request cancelled during call to provider %q", e.Provider)
	}
	return "request cancelled"
}

// Is matches ErrCancelled for errors.Is checks.
func (e *CancellationError) Is(target error) bool {
	return target == ErrCancelled
}

// Unwrap returns the context error.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// IsCancellation reports whether err stems from caller-driven cancellation,
// including raw context errors that escaped without wrapping. Caller-side
// deadlines count: the router imposes no timeout of its own, so an expired
// deadline is by definition the caller's.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ParseError reports a malformed provider response body.
type ParseError struct {
	// Provider is the name of the provider that returned the body.
	Provider string

	// RawResponse is the body that failed to parse, possibly truncated.
	RawResponse string

	// Cause is the underlying parse error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ConfigError reports invalid provider configuration. It is fatal at
// construction time, never a per-request condition.
type ConfigError struct {
	// Provider is the name of the misconfigured provider.
	Provider string

	// Field is the configuration field that is invalid.
	Field string

	// Message describes the configuration error.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
