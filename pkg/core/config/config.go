// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     config
// Description: Application configuration loaded from a TOML file
// Author:      rdittrich
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Audio         AudioConfig         `toml:"audio"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Summarization SummarizationConfig `toml:"summarization"`
	Server        ServerConfig        `toml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir   string `toml:"data_dir"`   // history database and scratch recordings
	OutputDir string `toml:"output_dir"` // exported markdown summaries; empty disables export
	LogLevel  string `toml:"log_level"`
}

// AudioConfig holds capture settings
type AudioConfig struct {
	InputDevice    string `toml:"input_device"`    // microphone device name (empty = default)
	LoopbackDevice string `toml:"loopback_device"` // system audio monitor device name
	SampleRate     int    `toml:"sample_rate"`
}

// TranscriptionConfig holds speech-to-text provider settings
type TranscriptionConfig struct {
	APIKey       string   `toml:"api_key"`
	BaseURL      string   `toml:"base_url"`
	PollInterval Duration `toml:"poll_interval"`
	MaxWait      Duration `toml:"max_wait"` // 0 = wait until the provider finishes
}

// SummarizationConfig holds LLM provider settings
type SummarizationConfig struct {
	APIKey      string   `toml:"api_key"`
	BaseURL     string   `toml:"base_url"`
	Model       string   `toml:"model"`
	Temperature float64  `toml:"temperature"`
	MaxTokens   int      `toml:"max_tokens"`
	Timeout     Duration `toml:"timeout"`
}

// ServerConfig holds the optional event feed settings
type ServerConfig struct {
	Listen string `toml:"listen"` // address for the WebSocket event feed; empty disables it
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file. A missing or unparseable file
// yields the defaults rather than an error: a broken config must never
// prevent startup. The returned bool reports whether the file was used.
func Load(path string) (*Config, bool) {
	path = os.ExpandEnv(path)

	cfg := &Config{}
	used := false

	if _, err := os.Stat(path); err == nil {
		if _, derr := toml.DecodeFile(path, cfg); derr == nil {
			used = true
		} else {
			// Degraded: fall back to defaults, but keep the distinction
			// from "file absent" visible to the caller via the log.
			fmt.Fprintf(os.Stderr, "warning: ignoring corrupt config %s: %v\n", path, derr)
			*cfg = Config{}
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, used
}

// LoadDefault loads configuration from RECAP_CONFIG or the standard
// locations.
func LoadDefault() (*Config, bool) {
	if path := os.Getenv("RECAP_CONFIG"); path != "" {
		return Load(path)
	}

	candidates := []string{"./recap.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "recap", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.applyEnvOverrides()
	return cfg, false
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.General.DataDir = filepath.Join(home, ".local", "share", "recap")
		} else {
			c.General.DataDir = "./data"
		}
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}

	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}

	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.assemblyai.com/v2"
	}
	if c.Transcription.PollInterval.Duration == 0 {
		c.Transcription.PollInterval.Duration = 3 * time.Second
	}

	if c.Summarization.BaseURL == "" {
		c.Summarization.BaseURL = "https://api.openai.com/v1"
	}
	if c.Summarization.Model == "" {
		c.Summarization.Model = "gpt-4o-mini"
	}
	if c.Summarization.Temperature == 0 {
		c.Summarization.Temperature = 0.3
	}
	if c.Summarization.MaxTokens == 0 {
		c.Summarization.MaxTokens = 2048
	}
	if c.Summarization.Timeout.Duration == 0 {
		c.Summarization.Timeout.Duration = 120 * time.Second
	}
}

// applyEnvOverrides lets API keys come from the environment so they can be
// kept out of the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RECAP_TRANSCRIPTION_API_KEY"); v != "" {
		c.Transcription.APIKey = v
	}
	if v := os.Getenv("RECAP_SUMMARIZATION_API_KEY"); v != "" {
		c.Summarization.APIKey = v
	}
}

// RecordingsDir returns the scratch directory for in-flight recordings.
func (c *Config) RecordingsDir() string {
	return filepath.Join(c.General.DataDir, "recordings")
}

// HistoryPath returns the history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.General.DataDir, "history.db")
}
