package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/backend/openai"
	"github.com/ekisa-team/ttsform/internal/backend/speechapi"
	"github.com/ekisa-team/ttsform/internal/config"
)

// Factory builds one backend from the endpoint config.
type Factory func(cfg backend.Config) (backend.Backend, error)

// DefaultFactories returns the built-in backend constructors.
func DefaultFactories() map[backend.BackendProvider]Factory {
	return map[backend.BackendProvider]Factory{
		backend.BackendProviderHTTP: func(cfg backend.Config) (backend.Backend, error) {
			return speechapi.NewBackend(cfg)
		},
		backend.BackendProviderOpenAI: func(cfg backend.Config) (backend.Backend, error) {
			return openai.NewBackend(cfg)
		},
	}
}

// Speech builds speech backends from configuration and tracks the active one.
type Speech struct {
	factories map[backend.BackendProvider]Factory
	registry  *backend.Registry
	active    backend.Backend
	logger    *slog.Logger
	loadMu    sync.Mutex
	mu        sync.RWMutex
}

// SpeechOption configures a Speech service.
type SpeechOption func(*Speech)

// WithFactories replaces the backend constructors.
func WithFactories(factories map[backend.BackendProvider]Factory) SpeechOption {
	return func(s *Speech) {
		s.factories = factories
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SpeechOption {
	return func(s *Speech) {
		s.logger = l
	}
}

// NewSpeech creates a Speech service with no backend loaded.
func NewSpeech(opts ...SpeechOption) *Speech {
	s := &Speech{
		factories: DefaultFactories(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadFromConfig builds a fresh registry from the endpoint section and makes the
// configured provider active. The previous registry is closed; requests already
// running on its backends finish normally. On error the current state is kept.
func (s *Speech) LoadFromConfig(cfg config.EndpointConfig) (backend.Backend, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	return s.load(cfg)
}

// Ensure returns the active backend, loading cfg only when nothing has been loaded
// yet. A reload that already ran is never replaced by cfg.
func (s *Speech) Ensure(cfg config.EndpointConfig) (backend.Backend, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if active, err := s.Active(); err == nil {
		return active, nil
	}
	return s.load(cfg)
}

func (s *Speech) load(cfg config.EndpointConfig) (backend.Backend, error) {
	provider := cfg.Provider()
	registry := backend.NewRegistry()

	for p, factory := range s.factories {
		b, err := factory(cfg.BackendConfig())
		if err != nil {
			if p == provider {
				_ = registry.Close()
				return nil, fmt.Errorf("service: failed to build %s backend: %w", p, err)
			}
			s.logger.Warn("Skipping speech backend", "provider", p, "error", err)
			continue
		}
		if err := registry.Register(b); err != nil {
			_ = b.Close()
			_ = registry.Close()
			return nil, fmt.Errorf("service: %w", err)
		}
	}

	active, err := registry.MustGet(provider)
	if err != nil {
		_ = registry.Close()
		return nil, fmt.Errorf("service: %w", err)
	}

	s.mu.Lock()
	prev := s.registry
	s.registry = registry
	s.active = active
	s.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			s.logger.Warn("Failed to close previous speech backends", "error", err)
		}
	}

	s.logger.Info("Speech backends loaded",
		"active", provider,
		"providers", registry.Providers(),
		"url", cfg.URL,
	)

	return active, nil
}

// Active returns the backend selected by the last successful load.
func (s *Speech) Active() (backend.Backend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil, ErrNotLoaded
	}
	return s.active, nil
}

// Registry returns the registry built by the last successful load, or nil.
func (s *Speech) Registry() *backend.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.registry
}

// Close closes every loaded backend.
func (s *Speech) Close() error {
	s.mu.Lock()
	registry := s.registry
	s.registry = nil
	s.active = nil
	s.mu.Unlock()

	if registry == nil {
		return nil
	}
	return registry.Close()
}
