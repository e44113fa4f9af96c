package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/catalog"
	"github.com/ekisa-team/ttsform/internal/envvar"
	"github.com/ekisa-team/ttsform/internal/params"
)

const validConfig = `
version: "1"
endpoint:
  url: http://localhost:8000
  api_key: your_api_key_here
  backend: openai
  options:
    user_agent: ttsform-test
    max_idle_conns: 4
audio:
  max_bytes: 1048576
defaults:
  text: Hello there
  language: es-ES
  voice: nova
  response_format: wav
  model: tts-1-hd
  speed: 1.5
voices: [alloy, nova, onyx]
languages:
  - code: es-ES
    voices: [nova, alloy]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate_Valid(t *testing.T) {
	t.Setenv(envvar.TTSFormAPIKey, "")

	cfg, err := LoadAndValidate(writeConfig(t, validConfig), "")
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "http://localhost:8000", cfg.Endpoint.URL)
	assert.Equal(t, "your_api_key_here", cfg.Endpoint.APIKey)
	assert.Equal(t, backend.BackendProviderOpenAI, cfg.Endpoint.Provider())
	assert.Equal(t, "ttsform-test", cfg.Endpoint.Options["user_agent"])
	assert.EqualValues(t, 1048576, cfg.Audio.MaxBytes)
	assert.Equal(t, []string{"alloy", "nova", "onyx"}, cfg.Voices)
	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, catalog.Language{Code: "es-ES", Voices: []string{"nova", "alloy"}}, cfg.Languages[0])

	p := cfg.Defaults.Parameters()
	assert.Equal(t, params.Parameters{
		Text:           "Hello there",
		Language:       "es-ES",
		Voice:          "nova",
		ResponseFormat: params.FormatWAV,
		Model:          params.ModelTTS1HD,
		Speed:          1.5,
	}, p)

	c, err := cfg.Catalog()
	require.NoError(t, err)
	require.NoError(t, p.Validate(c, false))
}

func TestLoadAndValidate_APIKeyFromEnv(t *testing.T) {
	t.Setenv(envvar.TTSFormAPIKey, "from-env")

	cfg, err := LoadAndValidate(writeConfig(t, validConfig), "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Endpoint.APIKey)
}

func TestLoadAndValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing endpoint", "version: \"1\"\n"},
		{"bad url", "version: \"1\"\nendpoint:\n  url: ftp://x\n"},
		{"unknown backend", "version: \"1\"\nendpoint:\n  url: http://x\n  backend: grpc\n"},
		{"speed out of range", "version: \"1\"\nendpoint:\n  url: http://x\ndefaults:\n  speed: 5\n"},
		{"bad format", "version: \"1\"\nendpoint:\n  url: http://x\ndefaults:\n  response_format: ogg\n"},
		{"empty language voices", "version: \"1\"\nendpoint:\n  url: http://x\nlanguages:\n  - code: en-US\n    voices: []\n"},
		{"unknown field", "version: \"1\"\nendpoint:\n  url: http://x\ncache: true\n"},
		{"not yaml", "version: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAndValidate(writeConfig(t, tt.content), "")
			assert.Error(t, err)
		})
	}
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndValidate_SchemaOverride(t *testing.T) {
	schema := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"type": "object", "required": ["version"]}`), 0o644))

	cfg, err := LoadAndValidate(writeConfig(t, "version: \"2\"\n"), schema)
	require.NoError(t, err)
	assert.Equal(t, "2", cfg.Version)
}

func TestParse_MinimalUsesBuiltInDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: \"1\"\nendpoint:\n  url: http://localhost:8000\n"))
	require.NoError(t, err)

	assert.Equal(t, backend.BackendProviderHTTP, cfg.Endpoint.Provider())
	assert.Equal(t, params.Defaults(), cfg.Defaults.Parameters())

	c, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Languages(), c.Languages())
}
