package routing

import (
	"errors"
	"fmt"
	"testing"

	"venty-hq/relay/pkg/providers"
)

func TestAllProvidersFailedErrorChain(t *testing.T) {
	last := &providers.ProviderError{Provider: "nvidia-1", StatusCode: 503, Kind: providers.KindUpstream}
	err := &AllProvidersFailedError{
		AttemptedProviders: []string{"nvidia-1", "gemini"},
		LastError:          last,
	}

	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Error("errors.Is(ErrAllProvidersFailed) = false")
	}

	var pe *providers.ProviderError
	if !errors.As(err, &pe) || pe.Provider != "nvidia-1" {
		t.Error("last provider error not reachable through Unwrap")
	}

	wrapped := fmt.Errorf("handling request: %w", err)
	if !errors.Is(wrapped, ErrAllProvidersFailed) {
		t.Error("sentinel lost after wrapping")
	}
}

func TestNoProvidersAvailableErrorChain(t *testing.T) {
	err := &NoProvidersAvailableError{Vision: true}

	if !errors.Is(err, ErrNoProvidersAvailable) {
		t.Error("errors.Is(ErrNoProvidersAvailable) = false")
	}
	if errors.Is(err, ErrAllProvidersFailed) {
		t.Error("matched the wrong sentinel")
	}
}
