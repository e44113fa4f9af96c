package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/backend/openai"
	"github.com/ekisa-team/ttsform/internal/backend/speechapi"
	"github.com/ekisa-team/ttsform/internal/config"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
	provider backend.BackendProvider
}

func (m *MockBackend) Provider() backend.BackendProvider {
	return m.provider
}

func (m *MockBackend) Synthesize(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*backend.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Tests ---

func TestSpeech_LoadDefaultFactories(t *testing.T) {
	s := NewSpeech(WithLogger(quietLogger()))
	t.Cleanup(func() { _ = s.Close() })

	active, err := s.LoadFromConfig(config.EndpointConfig{URL: "http://localhost:8000"})
	require.NoError(t, err)
	assert.IsType(t, &speechapi.Backend{}, active)
	assert.Equal(t, []backend.BackendProvider{backend.BackendProviderHTTP, backend.BackendProviderOpenAI}, s.Registry().Providers())

	active, err = s.LoadFromConfig(config.EndpointConfig{URL: "http://localhost:8000", Backend: "openai"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Backend{}, active)

	got, err := s.Active()
	require.NoError(t, err)
	assert.Same(t, active, got)
}

func TestSpeech_ActiveBeforeLoad(t *testing.T) {
	s := NewSpeech()

	_, err := s.Active()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Nil(t, s.Registry())
	assert.NoError(t, s.Close())
}

func TestSpeech_ReloadClosesPreviousRegistry(t *testing.T) {
	first := &MockBackend{provider: backend.BackendProviderHTTP}
	first.On("Close").Return(nil).Once()
	second := &MockBackend{provider: backend.BackendProviderHTTP}
	second.On("Close").Return(nil).Once()

	queue := []*MockBackend{first, second}
	s := NewSpeech(
		WithLogger(quietLogger()),
		WithFactories(map[backend.BackendProvider]Factory{
			backend.BackendProviderHTTP: func(backend.Config) (backend.Backend, error) {
				b := queue[0]
				queue = queue[1:]
				return b, nil
			},
		}),
	)

	active, err := s.LoadFromConfig(config.EndpointConfig{URL: "http://a"})
	require.NoError(t, err)
	assert.Same(t, first, active)

	active, err = s.LoadFromConfig(config.EndpointConfig{URL: "http://b"})
	require.NoError(t, err)
	assert.Same(t, second, active)
	first.AssertExpectations(t)

	require.NoError(t, s.Close())
	second.AssertExpectations(t)
}

func TestSpeech_FailedLoadKeepsActive(t *testing.T) {
	s := NewSpeech(WithLogger(quietLogger()))
	t.Cleanup(func() { _ = s.Close() })

	before, err := s.LoadFromConfig(config.EndpointConfig{URL: "http://localhost:8000"})
	require.NoError(t, err)

	_, err = s.LoadFromConfig(config.EndpointConfig{URL: "not a url"})
	require.Error(t, err)

	got, err := s.Active()
	require.NoError(t, err)
	assert.Same(t, before, got)
}

func TestSpeech_UnknownProvider(t *testing.T) {
	s := NewSpeech(WithLogger(quietLogger()))

	_, err := s.LoadFromConfig(config.EndpointConfig{URL: "http://localhost:8000", Backend: "grpc"})
	assert.ErrorIs(t, err, backend.ErrNotFound)

	_, err = s.Active()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestSpeech_SkipsBrokenInactiveProvider(t *testing.T) {
	ok := &MockBackend{provider: backend.BackendProviderHTTP}
	ok.On("Close").Return(nil)

	s := NewSpeech(
		WithLogger(quietLogger()),
		WithFactories(map[backend.BackendProvider]Factory{
			backend.BackendProviderHTTP: func(backend.Config) (backend.Backend, error) { return ok, nil },
			backend.BackendProviderOpenAI: func(backend.Config) (backend.Backend, error) {
				return nil, errors.New("boom")
			},
		}),
	)
	t.Cleanup(func() { _ = s.Close() })

	active, err := s.LoadFromConfig(config.EndpointConfig{URL: "http://a"})
	require.NoError(t, err)
	assert.Same(t, ok, active)
	assert.Equal(t, []backend.BackendProvider{backend.BackendProviderHTTP}, s.Registry().Providers())
}

func TestSpeech_EnsureKeepsLoadedBackend(t *testing.T) {
	s := NewSpeech(WithLogger(quietLogger()))
	t.Cleanup(func() { _ = s.Close() })

	reloaded, err := s.LoadFromConfig(config.EndpointConfig{URL: "http://localhost:9000", Backend: "openai"})
	require.NoError(t, err)

	got, err := s.Ensure(config.EndpointConfig{URL: "http://localhost:8000"})
	require.NoError(t, err)
	assert.Same(t, reloaded, got)
	assert.IsType(t, &openai.Backend{}, got)
}

func TestSpeech_EnsureLoadsWhenEmpty(t *testing.T) {
	s := NewSpeech(WithLogger(quietLogger()))
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Ensure(config.EndpointConfig{URL: "http://localhost:8000"})
	require.NoError(t, err)
	assert.IsType(t, &speechapi.Backend{}, got)

	active, err := s.Active()
	require.NoError(t, err)
	assert.Same(t, got, active)
}
