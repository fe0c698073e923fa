package routing

import (
	"errors"
	"fmt"
	"strings"
)

// Common routing errors that can be checked with errors.Is().
var (
	// ErrAllProvidersFailed is returned when every candidate in the
	// resolved pool has been tried and failed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersAvailable is returned when no provider matches the
	// request requirements before any call is made.
	ErrNoProvidersAvailable = errors.New("no providers available")
)

// AllProvidersFailedError is returned when every candidate provider has
// been tried and failed. It never carries a cancellation: a cancelled
// request short-circuits instead of exhausting the pool.
type AllProvidersFailedError struct {
	// AttemptedProviders contains the names of providers that were tried.
	AttemptedProviders []string

	// LastError is the error from the last attempted provider.
	LastError error
}

// Error implements the error interface.
func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all providers failed (attempted: %s, last error: %v)",
		strings.Join(e.AttemptedProviders, ", "), e.LastError)
}

// Is implements error matching for errors.Is().
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// Unwrap returns the wrapped error for error chain traversal.
func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastError
}

// NoProvidersAvailableError is returned when the catalog holds no
// provider matching the request's requirements.
type NoProvidersAvailableError struct {
	// Vision reports whether the request required vision capability.
	Vision bool
}

// Error implements the error interface.
func (e *NoProvidersAvailableError) Error() string {
	if e.Vision {
		return "no vision-capable providers available"
	}
	return "no providers available"
}

// Is implements error matching for errors.Is().
func (e *NoProvidersAvailableError) Is(target error) bool {
	return target == ErrNoProvidersAvailable
}
