package params

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/ekisa-team/ttsform/internal/catalog"
)

// MaxTextLength is the maximum number of characters accepted by the speech endpoint.
const MaxTextLength = 4096

// ResponseFormat is the audio container requested from the endpoint.
type ResponseFormat string

const (
	FormatMP3  ResponseFormat = "mp3"
	FormatOpus ResponseFormat = "opus"
	FormatAAC  ResponseFormat = "aac"
	FormatFLAC ResponseFormat = "flac"
	FormatWAV  ResponseFormat = "wav"
	FormatPCM  ResponseFormat = "pcm"
)

var responseFormats = []ResponseFormat{FormatMP3, FormatOpus, FormatAAC, FormatFLAC, FormatWAV, FormatPCM}

// ResponseFormats returns the supported formats in display order.
func ResponseFormats() []ResponseFormat {
	return slices.Clone(responseFormats)
}

// Valid reports whether f is a supported format.
func (f ResponseFormat) Valid() bool {
	return slices.Contains(responseFormats, f)
}

// ContentType returns the MIME type of audio encoded in f.
func (f ResponseFormat) ContentType() string {
	switch f {
	case FormatMP3:
		return "audio/mpeg"
	case FormatOpus:
		return "audio/ogg"
	case FormatAAC:
		return "audio/aac"
	case FormatFLAC:
		return "audio/flac"
	case FormatWAV:
		return "audio/wav"
	case FormatPCM:
		// 24kHz signed 16-bit little-endian mono
		return "audio/L16"
	default:
		return "application/octet-stream"
	}
}

// Model is the speech model requested from the endpoint.
type Model string

const (
	ModelTTS1   Model = "tts-1"
	ModelTTS1HD Model = "tts-1-hd"
)

var models = []Model{ModelTTS1, ModelTTS1HD}

// Models returns the supported models in display order.
func Models() []Model {
	return slices.Clone(models)
}

// Valid reports whether m is a supported model.
func (m Model) Valid() bool {
	return slices.Contains(models, m)
}

// Parameters is the set of user-configurable generation fields.
type Parameters struct {
	Text           string         `json:"text"            yaml:"text"`
	Language       string         `json:"language"        yaml:"language"`
	Voice          string         `json:"voice"           yaml:"voice"`
	ResponseFormat ResponseFormat `json:"response_format" yaml:"response_format"`
	Model          Model          `json:"model"           yaml:"model"`
	Speed          float64        `json:"speed"           yaml:"speed"`
}

// Defaults returns the initial form values.
func Defaults() Parameters {
	return Parameters{
		Voice:          "alloy",
		ResponseFormat: FormatMP3,
		Model:          ModelTTS1,
		Speed:          DefaultSpeed,
	}
}

// Validate checks every field against the catalog. Empty text is allowed when
// allowEmptyText is set, which is the case for configured defaults.
func (p Parameters) Validate(c *catalog.Catalog, allowEmptyText bool) error {
	if err := CheckText(p.Text); err != nil && !(allowEmptyText && p.Text == "") {
		return err
	}

	if p.Language != "" && !c.HasLanguage(p.Language) {
		return fmt.Errorf("params: %q: %w", p.Language, catalog.ErrLanguageNotFound)
	}
	if !c.HasVoice(p.Language, p.Voice) {
		return fmt.Errorf("params: %q for language %q: %w", p.Voice, p.Language, ErrInvalidVoice)
	}
	if !p.ResponseFormat.Valid() {
		return fmt.Errorf("params: %q: %w", p.ResponseFormat, ErrInvalidResponseFormat)
	}
	if !p.Model.Valid() {
		return fmt.Errorf("params: %q: %w", p.Model, ErrInvalidModel)
	}
	if !SpeedInRange(p.Speed) {
		return fmt.Errorf("params: %v: %w", p.Speed, ErrSpeedOutOfRange)
	}

	return nil
}

// CheckText enforces the 1..MaxTextLength character bound.
func CheckText(text string) error {
	if text == "" {
		return ErrTextRequired
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return fmt.Errorf("params: %d characters: %w", n, ErrTextTooLong)
	}
	return nil
}
