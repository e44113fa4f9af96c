package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Language binds a language code to the ordered voices valid for it.
type Language struct {
	Code   string   `json:"code"   yaml:"code"`
	Voices []string `json:"voices" yaml:"voices"`
}

// Catalog is the static language to voice table. It is read-only once built.
type Catalog struct {
	voices    []string
	languages []Language
	index     map[string]int
}

// DefaultVoices is the global voice set used when no language is selected.
var DefaultVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// DefaultLanguages is the built-in language table.
var DefaultLanguages = []Language{
	{Code: "en-US", Voices: []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}},
	{Code: "en-GB", Voices: []string{"fable", "alloy", "echo", "onyx", "nova", "shimmer"}},
	{Code: "es-ES", Voices: []string{"nova", "alloy", "onyx"}},
	{Code: "fr-FR", Voices: []string{"shimmer", "alloy", "echo"}},
	{Code: "de-DE", Voices: []string{"onyx", "alloy", "nova"}},
	{Code: "ja-JP", Voices: []string{"nova", "shimmer"}},
}

// New builds a catalog from a global voice set and an optional language table.
// Every voice set must be non-empty and free of duplicates.
func New(voices []string, languages []Language) (*Catalog, error) {
	if err := checkVoices("global", voices); err != nil {
		return nil, err
	}

	c := &Catalog{
		voices:    slices.Clone(voices),
		languages: make([]Language, 0, len(languages)),
		index:     make(map[string]int, len(languages)),
	}

	for _, lang := range languages {
		code := strings.TrimSpace(lang.Code)
		if code == "" {
			return nil, fmt.Errorf("catalog: empty language code")
		}
		if _, exists := c.index[code]; exists {
			return nil, fmt.Errorf("catalog: %s: %w", code, ErrDuplicateLanguage)
		}
		if err := checkVoices(code, lang.Voices); err != nil {
			return nil, err
		}

		c.index[code] = len(c.languages)
		c.languages = append(c.languages, Language{Code: code, Voices: slices.Clone(lang.Voices)})
	}

	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultVoices, DefaultLanguages)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in table: %v", err))
	}
	return c
}

// LanguageAware reports whether the catalog defines any language.
func (c *Catalog) LanguageAware() bool {
	return len(c.languages) > 0
}

// Languages returns the language codes in definition order.
func (c *Catalog) Languages() []string {
	codes := make([]string, len(c.languages))
	for i, lang := range c.languages {
		codes[i] = lang.Code
	}
	return codes
}

// Voices returns the ordered voices for a language, or the global set for "".
func (c *Catalog) Voices(language string) ([]string, error) {
	if language == "" {
		return slices.Clone(c.voices), nil
	}

	i, ok := c.index[language]
	if !ok {
		return nil, fmt.Errorf("catalog: %q: %w", language, ErrLanguageNotFound)
	}

	return slices.Clone(c.languages[i].Voices), nil
}

// DefaultVoice returns the first voice listed for language ("" for the global set).
func (c *Catalog) DefaultVoice(language string) (string, error) {
	if language == "" {
		return c.voices[0], nil
	}

	i, ok := c.index[language]
	if !ok {
		return "", fmt.Errorf("catalog: %q: %w", language, ErrLanguageNotFound)
	}

	return c.languages[i].Voices[0], nil
}

// HasLanguage reports whether the language code is defined.
func (c *Catalog) HasLanguage(language string) bool {
	_, ok := c.index[language]
	return ok
}

// HasVoice reports whether voice is valid for language ("" for the global set).
func (c *Catalog) HasVoice(language, voice string) bool {
	voices, err := c.Voices(language)
	if err != nil {
		return false
	}
	return slices.Contains(voices, voice)
}

func checkVoices(owner string, voices []string) error {
	if len(voices) == 0 {
		return fmt.Errorf("catalog: %s: %w", owner, ErrNoVoices)
	}

	seen := make(map[string]struct{}, len(voices))
	for _, v := range voices {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("catalog: %s: empty voice identifier", owner)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("catalog: %s: %q: %w", owner, v, ErrDuplicateVoice)
		}
		seen[v] = struct{}{}
	}

	return nil
}
