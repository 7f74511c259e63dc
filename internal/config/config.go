// Package config handles trtool configuration loading and management.
package config

import "time"

// Config holds all trtool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Decode  DecodeConfig  `yaml:"decode"`
	Cache   CacheConfig   `yaml:"cache"`
	Batch   BatchConfig   `yaml:"batch"`
	Watch   WatchConfig   `yaml:"watch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DecodeConfig holds the options passed to the level decoder.
type DecodeConfig struct {
	Remastered bool   `yaml:"remastered"`
	TR1Demo    bool   `yaml:"tr1_demo"`
	DecryptKey string `yaml:"decrypt_key"` // hex, for obfuscated TR4 files
	// Platform is "pc" or "psx". Empty detects PC levels.
	Platform string `yaml:"platform"`
	// Version forces a game ("tr1".."tr5"). PlayStation TR4 and TR5 need it.
	Version string `yaml:"version"`
}

// CacheConfig controls the decoded level cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// BatchConfig controls concurrent decoding.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    16,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}
