// Package config loads the optional TOML document that drives
// cmd/callisto: which backend to use, whether to keep the intermediate
// assembly, backend-specific options, and language-policy extensions.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the whole of a callisto.toml document. Every field is optional;
// the zero value selects the reference UXN backend with no extra options.
type Config struct {
	Backend      string            `toml:"backend"`
	KeepAssembly bool              `toml:"keep-assembly"`
	Options      map[string]string `toml:"options"`

	ReservedWordsExtra []string `toml:"reserved-words-extra"`
	FeatureTagsExtra   []string `toml:"feature-tags-extra"`
}

// Load parses a TOML config file. A missing file is not an error - it is
// read as an empty Config - since every field already has a usable zero
// value.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return &cfg, nil
}
