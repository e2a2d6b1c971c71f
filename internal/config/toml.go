// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Sound    SoundConfig    `toml:"sound"`
}

// PracticeConfig maps drill-related settings.
type PracticeConfig struct {
	WordsFile    *string  `toml:"words-file"`
	Round        *int     `toml:"round"`
	AdvanceDelay *string  `toml:"advance-delay"`
	MinElapsed   *float64 `toml:"min-elapsed"`
	ShowMistype  *bool    `toml:"show-mistype"`
	ProxyInput   *bool    `toml:"proxy-input"`
	View         *string  `toml:"view"`
	FocusWeak    *bool    `toml:"focus-weak"`
	WeakTop      *int     `toml:"weak-top"`
	WeakFactor   *float64 `toml:"weak-factor"`
	WeakWindow   *int     `toml:"weak-window"`
}

// SoundConfig maps audio cue and speech settings.
type SoundConfig struct {
	Mute      *bool   `toml:"mute"`
	NoSpeech  *bool   `toml:"no-speech"`
	SoundsDir *string `toml:"sounds-dir"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
