package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Provider() BackendProvider {
	args := m.Called()
	return args.Get(0).(BackendProvider)
}

func (m *MockBackend) Synthesize(ctx context.Context, req *Request) (*Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Tests ---

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	mockBackend := new(MockBackend)
	mockBackend.On("Provider").Return(BackendProviderHTTP)

	require.NoError(t, reg.Register(mockBackend))

	got, ok := reg.Get(BackendProviderHTTP)
	assert.True(t, ok)
	assert.Equal(t, mockBackend, got)

	// Ensure a missing backend returns false
	_, ok = reg.Get(BackendProviderOpenAI)
	assert.False(t, ok)

	_, err := reg.MustGet(BackendProviderOpenAI)
	assert.ErrorIs(t, err, ErrNotFound)

	mockBackend.AssertExpectations(t)
}

func TestRegistry_RegisterTwice(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)
	b1.On("Provider").Return(BackendProviderHTTP)
	b2.On("Provider").Return(BackendProviderHTTP)

	require.NoError(t, reg.Register(b1))
	err := reg.Register(b2)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	got, err := reg.MustGet(BackendProviderHTTP)
	require.NoError(t, err)
	assert.Same(t, b1, got)
}

func TestRegistry_Providers(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)
	b1.On("Provider").Return(BackendProviderOpenAI)
	b2.On("Provider").Return(BackendProviderHTTP)

	require.NoError(t, reg.Register(b1))
	require.NoError(t, reg.Register(b2))

	assert.Equal(t, []BackendProvider{BackendProviderHTTP, BackendProviderOpenAI}, reg.Providers())
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)
	b1.On("Provider").Return(BackendProviderHTTP)
	b2.On("Provider").Return(BackendProviderOpenAI)

	// Normal close
	b1.On("Close").Return(nil).Once()
	b2.On("Close").Return(nil).Once()

	require.NoError(t, reg.Register(b1))
	require.NoError(t, reg.Register(b2))

	err := reg.Close()
	assert.NoError(t, err)
	assert.Empty(t, reg.Providers())

	b1.AssertExpectations(t)
	b2.AssertExpectations(t)
}

func TestRegistry_CloseErrorPropagation(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)

	b1.On("Provider").Return(BackendProviderHTTP)
	b2.On("Provider").Return(BackendProviderOpenAI)

	b1.On("Close").Return(errors.New("close failed")).Once()
	b2.On("Close").Return(nil).Once()

	require.NoError(t, reg.Register(b1))
	require.NoError(t, reg.Register(b2))

	err := reg.Close()
	assert.EqualError(t, err, "close failed")

	b1.AssertExpectations(t)
	b2.AssertExpectations(t)
}
