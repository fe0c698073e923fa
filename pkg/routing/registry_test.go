package routing

import (
	"errors"
	"reflect"
	"testing"

	mockrouting "venty-hq/relay/internal/routing"
	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/providers"
)

func TestNewRegistryEmptyCatalog(t *testing.T) {
	_, err := NewRegistry(nil, func(config.ProviderConfig) (providers.Caller, error) {
		t.Fatal("factory called for empty catalog")
		return nil, nil
	})

	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewRegistry(nil) error = %v, want *ConfigError", err)
	}
}

func TestNewRegistryDuplicateName(t *testing.T) {
	var created []*mockrouting.MockCaller
	factory := func(pc config.ProviderConfig) (providers.Caller, error) {
		c := mockrouting.NewMockCaller(pc.Name, "ok")
		created = append(created, c)
		return c, nil
	}

	cfgs := []config.ProviderConfig{
		{Name: "nvidia-1", Models: []string{"m"}},
		{Name: "nvidia-1", Models: []string{"m"}},
	}

	_, err := NewRegistry(cfgs, factory)
	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewRegistry() error = %v, want *ConfigError", err)
	}

	// The caller built before the duplicate was detected must be closed.
	if len(created) != 1 || !created[0].Closed() {
		t.Error("caller leaked on duplicate-name failure")
	}
}

func TestNewRegistryFactoryFailure(t *testing.T) {
	boom := errors.New("bad credentials")
	factory := func(pc config.ProviderConfig) (providers.Caller, error) {
		return nil, boom
	}

	_, err := NewRegistry([]config.ProviderConfig{{Name: "nvidia-1"}}, factory)
	if !errors.Is(err, boom) {
		t.Fatalf("NewRegistry() error = %v, want wrapped factory error", err)
	}
}

func TestRegistryLookups(t *testing.T) {
	registry := newTestRegistry(t,
		config.ProviderConfig{Name: "nvidia-1", Family: "nvidia", Models: []string{"m"}},
		config.ProviderConfig{Name: "gemini", Family: "gemini", Models: []string{"m"}},
	)

	if len(registry.All()) != 2 {
		t.Errorf("All() size = %d, want 2", len(registry.All()))
	}

	p, ok := registry.Get("nvidia-1")
	if !ok || p.Family != "nvidia" {
		t.Errorf("Get(nvidia-1) = %+v, %v", p, ok)
	}
	if _, ok := registry.Get("missing"); ok {
		t.Error("Get(missing) found an entry")
	}

	caller, ok := registry.Caller("gemini")
	if !ok || caller.Name() != "gemini" {
		t.Errorf("Caller(gemini) = %v, %v", caller, ok)
	}
}

func TestProviderModelsFor(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		vision   bool
		want     []string
	}{
		{
			name:     "text request returns text models",
			provider: Provider{Models: []string{"m1", "m2"}, SupportsVision: true, VisionModels: []string{"v1"}},
			vision:   false,
			want:     []string{"m1", "m2"},
		},
		{
			name:     "vision request prefers dedicated vision models",
			provider: Provider{Models: []string{"m1"}, SupportsVision: true, VisionModels: []string{"v1", "v2"}},
			vision:   true,
			want:     []string{"v1", "v2"},
		},
		{
			name:     "vision request without support",
			provider: Provider{Models: []string{"m1"}},
			vision:   true,
			want:     nil,
		},
		{
			name: "vision falls back to multimodal-looking text models",
			provider: Provider{
				Models:         []string{"llama-3.1-70b", "llama-3.2-90b-vision-instruct", "gemini-2.0-flash"},
				SupportsVision: true,
			},
			vision: true,
			want:   []string{"llama-3.2-90b-vision-instruct", "gemini-2.0-flash"},
		},
		{
			name:     "vision with support but no multimodal models",
			provider: Provider{Models: []string{"qwen-72b"}, SupportsVision: true},
			vision:   true,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.provider.ModelsFor(tt.vision)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ModelsFor(%v) = %v, want %v", tt.vision, got, tt.want)
			}
		})
	}
}
