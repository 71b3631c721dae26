package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ApplicationConfiguration holds logging settings.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
}

// Validate checks the log level.
func (a ApplicationConfiguration) Validate() error {
	if a.LogLevel == "" {
		return nil
	}
	if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
		return fmt.Errorf("invalid LogLevel: %w", err)
	}
	return nil
}
