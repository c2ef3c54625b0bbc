package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Agent.BaseURL == "" {
		t.Error("expected default agent URL")
	}
	if cfg.Agent.Model == "" {
		t.Error("expected default model")
	}
	if cfg.Agent.Dataset != "all" {
		t.Errorf("expected default dataset all, got %q", cfg.Agent.Dataset)
	}
	if cfg.UI.DebounceMS != 150 {
		t.Errorf("expected debounce 150ms, got %d", cfg.UI.DebounceMS)
	}
	if cfg.Transcribe.PollIntervalMS <= 0 {
		t.Error("expected a positive poll interval")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Agent.BaseURL != defaults.Agent.BaseURL {
		t.Errorf("expected default agent URL, got %q", cfg.Agent.BaseURL)
	}
	if cfg.UI.DebounceMS != defaults.UI.DebounceMS {
		t.Errorf("expected default debounce, got %d", cfg.UI.DebounceMS)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `agent:
  base_url: http://dash.internal:9000
  model: gpt-4o-mini
history:
  path: /var/lib/copilot/history.json
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Agent.BaseURL != "http://dash.internal:9000" {
		t.Errorf("agent URL not overridden: %q", cfg.Agent.BaseURL)
	}
	if cfg.Agent.Model != "gpt-4o-mini" {
		t.Errorf("model not overridden: %q", cfg.Agent.Model)
	}
	if cfg.History.Path != "/var/lib/copilot/history.json" {
		t.Errorf("history path not overridden: %q", cfg.History.Path)
	}
	// Untouched keys keep their defaults.
	if cfg.Agent.Dataset != "all" {
		t.Errorf("dataset default lost: %q", cfg.Agent.Dataset)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("agent: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := load(dir); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Agent.BaseURL = "http://example.com:8000"
	cfg.Agent.Dataset = "incident"
	cfg.Transcribe.APIKey = "secret"
	cfg.UI.DebounceMS = 200

	if err := cfg.save(dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Agent.BaseURL != cfg.Agent.BaseURL {
		t.Errorf("agent URL round trip: %q", loaded.Agent.BaseURL)
	}
	if loaded.Agent.Dataset != "incident" {
		t.Errorf("dataset round trip: %q", loaded.Agent.Dataset)
	}
	if loaded.Transcribe.APIKey != "secret" {
		t.Errorf("api key round trip: %q", loaded.Transcribe.APIKey)
	}
	if loaded.UI.DebounceMS != 200 {
		t.Errorf("debounce round trip: %d", loaded.UI.DebounceMS)
	}
}
