// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
}

// SessionConfig maps session settings. Nil fields were not set in the file.
type SessionConfig struct {
	Mode        *string `toml:"mode"`
	Time        *int    `toml:"time"`
	Words       *int    `toml:"words"`
	Batch       *int    `toml:"batch"`
	Lang        *string `toml:"lang"`
	Punctuation *bool   `toml:"punctuation"`
	Numbers     *bool   `toml:"numbers"`
	Level       *int    `toml:"level"`
	Theme       *string `toml:"theme"`
	TopWords    *int    `toml:"top-words"`
	LockTimeout *string `toml:"lock-timeout"`
	LogLevel    *string `toml:"log-level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if cfg.Session.LockTimeout != nil {
		if _, err := time.ParseDuration(*cfg.Session.LockTimeout); err != nil {
			return FileConfig{}, fmt.Errorf("invalid lock-timeout: %w", err)
		}
	}
	return cfg, nil
}
