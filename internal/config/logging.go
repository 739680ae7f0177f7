package config

import "fmt"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Validate rejects unknown levels and formats.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Level)
	}
	switch c.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Format)
	}
	return nil
}
