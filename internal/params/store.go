package params

import (
	"fmt"
	"sync"

	"github.com/ekisa-team/ttsform/internal/catalog"
)

// Store holds the current form values.
//
// Changing the language always resets the voice to the first voice listed for the
// new language, even when the previous voice would still be valid. Voice, format,
// model and speed writes are stored as given; callers are expected to offer only
// valid options.
type Store struct {
	catalog *catalog.Catalog
	params  Parameters
	mu      sync.RWMutex
}

// NewStore creates a store seeded with initial values. A language unknown to the
// catalog is dropped, and a voice that does not belong to the language is reset.
func NewStore(c *catalog.Catalog, initial Parameters) *Store {
	if initial.Language != "" && !c.HasLanguage(initial.Language) {
		initial.Language = ""
	}
	if !c.HasVoice(initial.Language, initial.Voice) {
		initial.Voice, _ = c.DefaultVoice(initial.Language)
	}

	return &Store{
		catalog: c,
		params:  initial,
	}
}

// Catalog returns the catalog the store validates languages against.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params
}

// Text returns the current text.
func (s *Store) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params.Text
}

// SetText sets the text to synthesize.
func (s *Store) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Text = text
}

// Language returns the selected language code, or "" when none is selected.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params.Language
}

// SetLanguage selects a language and resets the voice to its first voice.
// Passing "" clears the selection and resets the voice to the first global voice.
func (s *Store) SetLanguage(code string) error {
	voice, err := s.catalog.DefaultVoice(code)
	if err != nil {
		return fmt.Errorf("params: set language: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Language = code
	s.params.Voice = voice
	return nil
}

// Voice returns the selected voice.
func (s *Store) Voice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params.Voice
}

// SetVoice sets the voice without checking it against the language.
func (s *Store) SetVoice(voice string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Voice = voice
}

// ResponseFormat returns the selected response format.
func (s *Store) ResponseFormat() ResponseFormat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params.ResponseFormat
}

// SetResponseFormat sets the response format.
func (s *Store) SetResponseFormat(f ResponseFormat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.ResponseFormat = f
}

// Model returns the selected model.
func (s *Store) Model() Model {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params.Model
}

// SetModel sets the model.
func (s *Store) SetModel(m Model) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Model = m
}

// Speed returns the playback speed.
func (s *Store) Speed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params.Speed
}

// SetSpeed stores v as given. No clamping is applied.
func (s *Store) SetSpeed(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Speed = v
}
