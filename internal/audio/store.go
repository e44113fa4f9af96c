package audio

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultPrefix is the path under which locators are served.
	DefaultPrefix = "/audio/"

	// DefaultMaxBytes bounds a single payload.
	DefaultMaxBytes = 64 << 20
)

// Blob is an audio payload held by the store.
type Blob struct {
	CreatedAt   time.Time
	ContentType string
	Data        []byte
}

// Store keeps audio payloads in memory and hands out transient locators for them.
// A locator stays valid until its handle is released or the store is closed.
type Store struct {
	blobs    map[string]*Blob
	prefix   string
	maxBytes int64
	mu       sync.RWMutex
	closed   bool
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the locator prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		s.prefix = prefix
	}
}

// WithMaxBytes sets the maximum payload size. Zero or negative disables the limit.
func WithMaxBytes(n int64) Option {
	return func(s *Store) {
		s.maxBytes = n
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		blobs:    make(map[string]*Blob),
		prefix:   DefaultPrefix,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores data and returns the handle that owns it.
func (s *Store) Create(data []byte, contentType string) (*Handle, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("audio: %d bytes (limit %d): %w", len(data), s.maxBytes, ErrTooLarge)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	s.blobs[id] = &Blob{
		Data:        data,
		ContentType: contentType,
		CreatedAt:   time.Now(),
	}

	return &Handle{
		store:       s,
		id:          id,
		locator:     s.prefix + id,
		contentType: contentType,
		size:        len(data),
	}, nil
}

// Open dereferences a locator.
func (s *Store) Open(locator string) (*Blob, error) {
	id, ok := strings.CutPrefix(locator, s.prefix)
	if !ok {
		return nil, fmt.Errorf("audio: %q: %w", locator, ErrNotFound)
	}
	return s.Get(id)
}

// Get returns the blob stored under id.
func (s *Store) Get(id string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[id]
	if !ok {
		return nil, fmt.Errorf("audio: %q: %w", id, ErrNotFound)
	}
	return b, nil
}

// Len returns the number of live blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blobs)
}

// Close revokes every locator and rejects further Create calls.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	clear(s.blobs)
	return nil
}

func (s *Store) revoke(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, id)
}

// Handle exclusively owns one stored payload.
type Handle struct {
	store       *Store
	id          string
	locator     string
	contentType string
	size        int
	released    atomic.Bool
}

// ID returns the store key of the payload.
func (h *Handle) ID() string {
	return h.id
}

// Locator returns the transient reference a player can fetch the audio from.
func (h *Handle) Locator() string {
	return h.locator
}

// ContentType returns the MIME type of the payload.
func (h *Handle) ContentType() string {
	return h.contentType
}

// Size returns the payload size in bytes.
func (h *Handle) Size() int {
	return h.size
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Release revokes the locator. Calling it more than once, or on a nil handle, is a no-op.
func (h *Handle) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	h.store.revoke(h.id)
}
