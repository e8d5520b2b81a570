// Package config reads tool defaults from the environment. Command line
// flags take precedence over the values loaded here.
package config

import (
	"os"
	"unicode/utf8"
)

type Config struct {
	values map[string]string
}

// Environment variables consulted by Load
var envVars = []string{
	"PINREMAP_CHARSET",
	"PINREMAP_LOG_LEVEL",
	"PINREMAP_LOG_FORMAT",
	"PINREMAP_TABLE_DELIMITER",
	"PINREMAP_ORIGINAL_COLUMN",
	"PINREMAP_REMAPPED_COLUMN",
	"PINREMAP_ON_DUPLICATE",
	"PINREMAP_OUTPUT_SUFFIX",
}

func Load() *Config {
	cfg := &Config{
		values: make(map[string]string),
	}

	cfg.loadFromEnv()
	return cfg
}

func (c *Config) loadFromEnv() {
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			c.values[envVar] = value
		}
	}
}

func (c *Config) GetString(key, defaultValue string) string {
	if value, exists := c.values[key]; exists {
		return value
	}
	return defaultValue
}

// GetRune returns the single character stored under key
func (c *Config) GetRune(key string, defaultValue rune) rune {
	if value, exists := c.values[key]; exists {
		if r, size := utf8.DecodeRuneInString(value); size == len(value) && r != utf8.RuneError {
			return r
		}
	}
	return defaultValue
}
