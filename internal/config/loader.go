package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/ttsform/internal/envvar"
	"github.com/ekisa-team/ttsform/internal/xfs"
)

//go:embed ttsform.v1.schema.json
var embeddedSchema string

const embeddedSchemaURL = "ttsform.v1.schema.json"

// LoadAndValidate loads and validates the configuration. An empty schemaPath
// selects the embedded schema.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(xfs.ExpandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return nil, err
	}

	return parse(data, schema)
}

// Parse validates raw YAML against the embedded schema and decodes it.
func Parse(data []byte) (*Config, error) {
	schema, err := compileSchema("")
	if err != nil {
		return nil, err
	}
	return parse(data, schema)
}

func parse(data []byte, schema *jsonschema.Schema) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}

	if key := os.Getenv(envvar.TTSFormAPIKey); key != "" {
		config.Endpoint.APIKey = key
	}

	return &config, nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	var (
		schema *jsonschema.Schema
		err    error
	)
	if schemaPath == "" {
		schema, err = jsonschema.CompileString(embeddedSchemaURL, embeddedSchema)
	} else {
		schema, err = jsonschema.Compile(xfs.ExpandTilde(schemaPath))
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}
	return schema, nil
}
