package strategy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML strategy file. Unknown fields fail fast so typos in
// operator overrides are caught at startup instead of silently ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode strategy file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate strategy file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault returns the file-based strategy when path is set,
// otherwise the built-in default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
