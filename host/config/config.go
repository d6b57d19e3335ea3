// Package config loads generator parameters from a YAML or JSON file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"varduty/core"
)

// Load reads path over the reference defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (core.Config, error) {
	return LoadOver(path, core.DefaultConfig())
}

// LoadOver reads path over base, typically the defaults with a board
// profile applied, and validates the result. Keys absent from the file
// keep base's values. An empty path returns base.
func LoadOver(path string, base core.Config) (core.Config, error) {
	cfg := base
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode overlays data on cfg. Unknown keys are rejected so typos surface
// instead of silently falling back to a default. JSON documents are valid
// YAML and decode the same way.
func Decode(data []byte, cfg *core.Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg core.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
