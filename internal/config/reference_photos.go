package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReferencePhotos is the optional YAML file that overrides the per-category
// reference photo URLs used for image synthesis:
//
//	photos:
//	  keys: https://example.com/keys.jpg
//	  other: https://example.com/other.jpg
type ReferencePhotos struct {
	Photos map[string]string `yaml:"photos"`
}

// LoadReferencePhotos reads the file at path. An "other" entry is required
// because unknown categories fall back to it.
func LoadReferencePhotos(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference photos file: %w", err)
	}

	var cfg ReferencePhotos
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing reference photos file: %w", err)
	}
	if cfg.Photos["other"] == "" {
		return nil, fmt.Errorf("reference photos file %s has no \"other\" entry", path)
	}
	return cfg.Photos, nil
}
