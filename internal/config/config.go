// Package config loads the adapter's YAML configuration and validates it
// against an embedded CUE schema before anything touches the filesystem.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// schema constrains the configuration document. Unknown keys are
// tolerated; known keys must have the right shape.
const schema = `
database?:   string & !=""
pool_size?:  int & >=1
migrations?: string & !=""
`

// Config is the adapter configuration.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// PoolSize is the configured connection pool capacity. Zero means
	// the toolkit default.
	PoolSize int `yaml:"pool_size"`

	// Migrations is an optional directory of NNN_name.sql files.
	Migrations string `yaml:"migrations"`
}

// ConfigError is a configuration document that failed schema validation
// or could not be read.
type ConfigError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("parse yaml: %v", err)}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("decode yaml: %v", err)}
	}
	return &cfg, nil
}

// validate unifies the raw document with the embedded CUE schema.
func validate(raw map[string]any) error {
	ctx := cuecontext.New()

	sv := ctx.CompileString(schema)
	if err := sv.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	dv := ctx.Encode(raw)
	if err := dv.Err(); err != nil {
		return &ConfigError{Message: fmt.Sprintf("encode document: %v", err)}
	}

	unified := sv.Unify(dv)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return &ConfigError{Message: err.Error()}
	}
	return nil
}
