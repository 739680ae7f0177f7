package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// CONFIG FILE TESTS
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TURNAVG_STATE", "")
	t.Setenv("TURNAVG_PROMPT_BACKEND", "")
	t.Setenv("TURNAVG_LOG_LEVEL", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Prompt.Backend != BackendTUI {
		t.Errorf("expected Backend=tui, got %s", cfg.Prompt.Backend)
	}
	if cfg.Prompt.Text != "How many turns did it take:" {
		t.Errorf("unexpected prompt text %q", cfg.Prompt.Text)
	}
	if filepath.Base(cfg.StatePath) != "average.yaml" {
		t.Errorf("expected state file average.yaml, got %s", cfg.StatePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "turnavg", "config.yaml")

	cfg := DefaultConfig()
	cfg.StatePath = "/tmp/turns.yaml"
	cfg.Prompt.Backend = BackendDialog
	cfg.Prompt.DialogCommand = []string{"kdialog", "--inputbox", "{text}"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_LoadMissingReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestConfig_LoadPartialKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("prompt:\n  title: Turns\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Prompt.Title != "Turns" {
		t.Errorf("expected Title=Turns, got %s", cfg.Prompt.Title)
	}
	if cfg.Prompt.Backend != BackendTUI {
		t.Errorf("expected default backend to survive, got %s", cfg.Prompt.Backend)
	}
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("prompt: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty state path", func(c *Config) { c.StatePath = "" }},
		{"unknown backend", func(c *Config) { c.Prompt.Backend = "gtk" }},
		{"dialog without command", func(c *Config) {
			c.Prompt.Backend = BackendDialog
			c.Prompt.DialogCommand = nil
		}},
		{"bad timeout", func(c *Config) { c.Prompt.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Prompt.Timeout = "-1s" }},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "fast" }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = "-5ms" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.PromptTimeout(); got != 0 {
		t.Errorf("PromptTimeout=%v, want 0", got)
	}
	if got := cfg.WatchDebounce(); got != 200*time.Millisecond {
		t.Errorf("WatchDebounce=%v, want 200ms", got)
	}

	cfg.Prompt.Timeout = "30s"
	cfg.Watch.Debounce = "garbage"
	if got := cfg.PromptTimeout(); got != 30*time.Second {
		t.Errorf("PromptTimeout=%v, want 30s", got)
	}
	if got := cfg.WatchDebounce(); got != 200*time.Millisecond {
		t.Errorf("WatchDebounce fallback=%v, want 200ms", got)
	}
}
