package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding of ChartConfig.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension, defaulting to YAML.
func FormatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses and validates a chart config.
func Decode(data []byte, format Format) (*ChartConfig, error) {
	var cfg ChartConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode chart config: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode chart config: %w", err)
		}
	}
	if cfg.Version == "" {
		cfg.Version = Version
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode serializes a chart config.
func Encode(cfg ChartConfig, format Format) ([]byte, error) {
	if cfg.Version == "" {
		cfg.Version = Version
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode chart config: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode chart config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode chart config: %w", err)
		}
		return buf.Bytes(), nil
	}
}
