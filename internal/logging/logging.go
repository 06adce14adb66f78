// Package logging builds the zap logger shared by the CLI and the server.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects the level and encoding.
type Config struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig logs info and above as JSON.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatJSON}
}

// New builds a logger: production settings for json, development settings
// for console.
func New(cfg Config, opts ...zap.Option) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		parsed, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	var zc zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatJSON:
		zc = zap.NewProductionConfig()
	case FormatConsole:
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}
