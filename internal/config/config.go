// Package config defines the cardgen configuration file format and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents a cardgen configuration file.
type Config struct {
	Addr string

	FontDir         string
	AllowLocalFiles bool

	FetchTimeout       time.Duration
	MaxImageBytes      int64
	MaxImagePixels     int64
	MaxRequestBodySize int64
	RenderTimeout      time.Duration

	LogLevel  string
	LogFormat string
	Debug     bool
}

// FillDefaults replaces missing or invalid settings with defaults.
func (c *Config) FillDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}

	if c.FetchTimeout <= 0 {
		c.FetchTimeout = time.Second * 10
	}

	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = 8 << 20
	}

	if c.MaxImagePixels <= 0 {
		c.MaxImagePixels = 40_000_000
	}

	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = 16 << 20
	}

	if c.RenderTimeout <= 0 {
		c.RenderTimeout = time.Second * 30
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}
}

// Load reads an optional JSON file, applies environment overrides and
// fills defaults.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := c.fromEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	c.FillDefaults()
	return &c, nil
}

func (c *Config) fromEnv(lookup func(string) (string, bool)) error {
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Addr = ":" + port
	}

	if v, ok := lookup("CARDGEN_FONT_DIR"); ok {
		c.FontDir = v
	}

	if v, ok := lookup("CARDGEN_LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	if v, ok := lookup("CARDGEN_LOG_FORMAT"); ok {
		c.LogFormat = v
	}

	for name, dst := range map[string]*bool{
		"CARDGEN_ALLOW_FILES": &c.AllowLocalFiles,
		"CARDGEN_DEBUG":       &c.Debug,
	} {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = b
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}
