// Package logging builds the structured logger used by the command line tool
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // "console" or "json"
	OutputPath  string // Defaults to stderr
	Development bool
}

// DefaultConfig logs info and above to stderr in console format
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

// NewLogger creates a new structured logger
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Sampling = nil
	}

	// Set log level
	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	// Set output format
	if config.Format == "json" {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	} else {
		zapConfig.OutputPaths = []string{"stderr"}
	}

	return zapConfig.Build()
}

// ForFile returns a child logger tagged with the file being processed
func ForFile(log *zap.Logger, path string) *zap.Logger {
	return log.With(zap.String("file", path))
}
