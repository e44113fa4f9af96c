package config

import (
	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/catalog"
	"github.com/ekisa-team/ttsform/internal/params"
)

// Config holds the main configuration for the application.
type Config struct {
	Version   string             `json:"version"             yaml:"version"`
	Endpoint  EndpointConfig     `json:"endpoint"            yaml:"endpoint"`
	Audio     AudioConfig        `json:"audio,omitempty"     yaml:"audio,omitempty"`
	Defaults  DefaultsConfig     `json:"defaults,omitempty"  yaml:"defaults,omitempty"`
	Voices    []string           `json:"voices,omitempty"    yaml:"voices,omitempty"`
	Languages []catalog.Language `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// EndpointConfig describes the remote speech endpoint.
type EndpointConfig struct {
	URL     string         `json:"url"                yaml:"url"`
	APIKey  string         `json:"api_key,omitempty"  yaml:"api_key,omitempty"`
	Backend string         `json:"backend,omitempty"  yaml:"backend,omitempty"`
	Options map[string]any `json:"options,omitempty"  yaml:"options,omitempty"`
}

// AudioConfig bounds the in-memory audio store.
type AudioConfig struct {
	MaxBytes int64 `json:"max_bytes,omitempty" yaml:"max_bytes,omitempty"`
}

// DefaultsConfig holds the initial form values. Unset fields keep the built-in defaults.
type DefaultsConfig struct {
	Text           string  `json:"text,omitempty"            yaml:"text,omitempty"`
	Language       string  `json:"language,omitempty"        yaml:"language,omitempty"`
	Voice          string  `json:"voice,omitempty"           yaml:"voice,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty" yaml:"response_format,omitempty"`
	Model          string  `json:"model,omitempty"           yaml:"model,omitempty"`
	Speed          float64 `json:"speed,omitempty"           yaml:"speed,omitempty"`
}

// Provider returns the configured backend provider, "http" when unset.
func (e EndpointConfig) Provider() backend.BackendProvider {
	if e.Backend == "" {
		return backend.BackendProviderHTTP
	}
	return backend.BackendProvider(e.Backend)
}

// BackendConfig converts the endpoint section for backend constructors.
func (e EndpointConfig) BackendConfig() backend.Config {
	return backend.Config{
		URL:     e.URL,
		APIKey:  e.APIKey,
		Options: e.Options,
	}
}

// Catalog builds the language to voice catalog. Without a voices section the
// built-in catalog is used.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if len(c.Voices) == 0 {
		if len(c.Languages) == 0 {
			return catalog.Default(), nil
		}
		return catalog.New(catalog.DefaultVoices, c.Languages)
	}
	return catalog.New(c.Voices, c.Languages)
}

// Parameters overlays the configured defaults on params.Defaults.
func (d DefaultsConfig) Parameters() params.Parameters {
	p := params.Defaults()

	p.Text = d.Text
	p.Language = d.Language
	if d.Voice != "" {
		p.Voice = d.Voice
	}
	if d.ResponseFormat != "" {
		p.ResponseFormat = params.ResponseFormat(d.ResponseFormat)
	}
	if d.Model != "" {
		p.Model = params.Model(d.Model)
	}
	if d.Speed != 0 {
		p.Speed = d.Speed
	}

	return p
}
