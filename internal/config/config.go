package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all turnavg configuration.
type Config struct {
	// StatePath is the YAML record file holding amount and total.
	StatePath string `yaml:"state_path"`

	Prompt  PromptConfig  `yaml:"prompt"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// PromptConfig configures how a new value is collected.
type PromptConfig struct {
	Backend string `yaml:"backend"` // tui, dialog, static
	Title   string `yaml:"title"`
	Text    string `yaml:"text"`

	// DialogCommand is the argv for the dialog backend.
	// {title} and {text} are substituted in each argument.
	DialogCommand []string `yaml:"dialog_command"`

	// Timeout bounds how long the prompt waits; "0" waits forever.
	Timeout string `yaml:"timeout"`
}

// WatchConfig configures --watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// Prompt backends.
const (
	BackendTUI    = "tui"
	BackendDialog = "dialog"
	BackendStatic = "static"
)

// ValidBackends lists all supported prompt backends.
var ValidBackends = []string{BackendTUI, BackendDialog, BackendStatic}

// DefaultDir returns $XDG_CONFIG_HOME/turnavg, falling back to ~/.config/turnavg.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "turnavg")
	}
	return filepath.Join(".config", "turnavg")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StatePath: filepath.Join(DefaultDir(), "average.yaml"),

		Prompt: PromptConfig{
			Backend:       BackendTUI,
			Title:         "Dialog",
			Text:          "How many turns did it take:",
			DialogCommand: []string{"zenity", "--entry", "--title", "{title}", "--text", "{text}"},
			Timeout:       "0",
		},

		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},

		Watch: WatchConfig{
			Debounce: "200ms",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("TURNAVG_STATE"); path != "" {
		c.StatePath = path
	}
	if backend := os.Getenv("TURNAVG_PROMPT_BACKEND"); backend != "" {
		c.Prompt.Backend = backend
	}
	if level := os.Getenv("TURNAVG_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// PromptTimeout returns the prompt timeout; zero means no timeout.
func (c *Config) PromptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Prompt.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// WatchDebounce returns the watch debounce window.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path must not be empty")
	}

	if !isValidBackend(c.Prompt.Backend) {
		return fmt.Errorf("invalid prompt backend: %s (valid: %v)", c.Prompt.Backend, ValidBackends)
	}
	if c.Prompt.Backend == BackendDialog && len(c.Prompt.DialogCommand) == 0 {
		return fmt.Errorf("prompt.dialog_command is required for the dialog backend")
	}
	if d, err := time.ParseDuration(c.Prompt.Timeout); err != nil {
		return fmt.Errorf("invalid prompt.timeout %q: %w", c.Prompt.Timeout, err)
	} else if d < 0 {
		return fmt.Errorf("invalid prompt.timeout %q: must not be negative", c.Prompt.Timeout)
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	} else if d < 0 {
		return fmt.Errorf("invalid watch.debounce %q: must not be negative", c.Watch.Debounce)
	}

	return c.Logging.Validate()
}

func isValidBackend(backend string) bool {
	for _, b := range ValidBackends {
		if backend == b {
			return true
		}
	}
	return false
}
