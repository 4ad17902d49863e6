// Package config loads the optional labelguard.toml file. Flags always win;
// the config file only supplies defaults for repeated invocations.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds checker defaults shared by the check and ingest commands.
type Config struct {
	LabelsDir  string `toml:"labels_dir"`
	Extension  string `toml:"extension"`
	Strict     bool   `toml:"strict"`
	MaxClassID int    `toml:"max_class_id"` // 0 = unlimited
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Extension:  ".txt",
		MaxClassID: 0,
	}
}

// Load reads the config at path. A missing file is not an error: the
// defaults are returned so the CLI works without any setup.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Extension == "" {
		cfg.Extension = ".txt"
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that would make every parse fail in confusing ways.
func Validate(cfg Config) error {
	if !strings.HasPrefix(cfg.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", cfg.Extension)
	}
	if cfg.MaxClassID < 0 {
		return fmt.Errorf("max_class_id must be >= 0, got %d", cfg.MaxClassID)
	}
	return nil
}
