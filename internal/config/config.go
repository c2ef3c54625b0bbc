// Package config handles safety copilot configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all copilot configuration.
type Config struct {
	Agent      AgentConfig      `mapstructure:"agent"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	Insights   InsightsConfig   `mapstructure:"insights"`
	Transcribe TranscribeConfig `mapstructure:"transcribe"`
	History    HistoryConfig    `mapstructure:"history"`
	UI         UIConfig         `mapstructure:"ui"`
}

// AgentConfig points at the streaming analysis agent.
type AgentConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	Dataset        string `mapstructure:"dataset"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AnalyticsConfig points at the plain request/response analytics API.
type AnalyticsConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	RegistryPath string `mapstructure:"registry_path"`
}

// InsightsConfig points at the chart-insights endpoint.
type InsightsConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// TranscribeConfig points at the speech transcription service.
type TranscribeConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	PollIntervalMS int    `mapstructure:"poll_interval_ms"`
}

// HistoryConfig controls conversation persistence.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig controls rendering behavior.
type UIConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		Agent: AgentConfig{
			BaseURL:        "http://localhost:8000",
			Model:          "gpt-4o",
			Dataset:        "all",
			TimeoutSeconds: 30,
		},
		Analytics: AnalyticsConfig{
			BaseURL: "http://localhost:8000",
		},
		Insights: InsightsConfig{
			BaseURL: "http://localhost:8000",
		},
		Transcribe: TranscribeConfig{
			BaseURL:        "https://api.assemblyai.com",
			PollIntervalMS: 1500,
		},
		UI: UIConfig{
			DebounceMS: 150,
		},
	}
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".safety-copilot"), nil
}

// Load reads config.yaml from the config directory, layered over defaults,
// with SAFETY_COPILOT_* environment overrides. A missing file is not an
// error; defaults apply.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return DefaultConfig(), err
	}
	return load(dir)
}

func load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("SAFETY_COPILOT")
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("agent.base_url", defaults.Agent.BaseURL)
	v.SetDefault("agent.model", defaults.Agent.Model)
	v.SetDefault("agent.dataset", defaults.Agent.Dataset)
	v.SetDefault("agent.timeout_seconds", defaults.Agent.TimeoutSeconds)
	v.SetDefault("analytics.base_url", defaults.Analytics.BaseURL)
	v.SetDefault("analytics.registry_path", defaults.Analytics.RegistryPath)
	v.SetDefault("insights.base_url", defaults.Insights.BaseURL)
	v.SetDefault("transcribe.base_url", defaults.Transcribe.BaseURL)
	v.SetDefault("transcribe.api_key", defaults.Transcribe.APIKey)
	v.SetDefault("transcribe.poll_interval_ms", defaults.Transcribe.PollIntervalMS)
	v.SetDefault("history.path", defaults.History.Path)
	v.SetDefault("ui.debounce_ms", defaults.UI.DebounceMS)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return defaults, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in the config directory.
func (c Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return c.save(dir)
}

func (c Config) save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.Set("agent.base_url", c.Agent.BaseURL)
	v.Set("agent.model", c.Agent.Model)
	v.Set("agent.dataset", c.Agent.Dataset)
	v.Set("agent.timeout_seconds", c.Agent.TimeoutSeconds)
	v.Set("analytics.base_url", c.Analytics.BaseURL)
	v.Set("analytics.registry_path", c.Analytics.RegistryPath)
	v.Set("insights.base_url", c.Insights.BaseURL)
	v.Set("transcribe.base_url", c.Transcribe.BaseURL)
	v.Set("transcribe.api_key", c.Transcribe.APIKey)
	v.Set("transcribe.poll_interval_ms", c.Transcribe.PollIntervalMS)
	v.Set("history.path", c.History.Path)
	v.Set("ui.debounce_ms", c.UI.DebounceMS)

	if err := v.WriteConfigAs(filepath.Join(dir, "config.yaml")); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
