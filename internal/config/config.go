// Package config holds the analyzer's runtime settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel          = "CHROMA_LOG_LEVEL"
	EnvMaxImageBytes     = "CHROMA_MAX_IMAGE_BYTES"
	EnvYieldThreshold    = "CHROMA_YIELD_THRESHOLD"
	EnvYieldInterval     = "CHROMA_YIELD_INTERVAL"
	EnvChromaticityGuard = "CHROMA_CHROMATICITY_GUARD"
	EnvPreviewTieBreak   = "CHROMA_PREVIEW_TIE_BREAK"
	EnvClipping          = "CHROMA_CLIPPING"
	EnvPreviewMaxSize    = "CHROMA_PREVIEW_MAX_SIZE"
	EnvAnalysisTimeout   = "CHROMA_ANALYSIS_TIMEOUT"
)

// Config is the analyzer configuration. Start from Default and override
// what you need.
type Config struct {
	// Logging.
	LogLevel string // "debug", "info", "warn", "error"

	// Input limits.
	MaxImageBytes   int64         // 0 = no limit; default 512 MiB
	AnalysisTimeout time.Duration // per tool call; 0 = none

	// Statistics engine.
	YieldThreshold    int     // pixel count above which the pass yields; 0 = default 2,000,000
	YieldInterval     int     // rows between checkpoints; default 1
	ChromaticityGuard float64 // minimum r+g+b for a chromaticity sample; default 0.001
	Clipping          bool    // report per-channel clipping fractions

	// Decoder.
	PreviewTieBreak string // "first" or "last" among equal-area previews

	// Preview rendering.
	PreviewMaxSize int // longest edge in pixels; default 512
}

// Default returns a Config populated with the production defaults.
func Default() Config {
	return Config{
		LogLevel:          "info",
		MaxImageBytes:     512 << 20,
		AnalysisTimeout:   2 * time.Minute,
		YieldThreshold:    2_000_000,
		YieldInterval:     1,
		ChromaticityGuard: 0.001,
		PreviewTieBreak:   "first",
		PreviewMaxSize:    512,
	}
}

// FromEnv returns Default overlaid with any CHROMA_* environment variables,
// validated.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str(EnvLogLevel, &c.LogLevel)
	str(EnvPreviewTieBreak, &c.PreviewTieBreak)
	integer(EnvYieldThreshold, &c.YieldThreshold)
	integer(EnvYieldInterval, &c.YieldInterval)
	integer(EnvPreviewMaxSize, &c.PreviewMaxSize)

	if v, ok := lookup(EnvMaxImageBytes); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvMaxImageBytes, err))
		} else {
			c.MaxImageBytes = n
		}
	}
	if v, ok := lookup(EnvChromaticityGuard); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvChromaticityGuard, err))
		} else {
			c.ChromaticityGuard = f
		}
	}
	if v, ok := lookup(EnvClipping); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvClipping, err))
		} else {
			c.Clipping = b
		}
	}
	if v, ok := lookup(EnvAnalysisTimeout); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvAnalysisTimeout, err))
		} else {
			c.AnalysisTimeout = d
		}
	}

	if len(errs) > 0 {
		return c, errors.Join(errs...)
	}
	return c, Validate(c)
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	if c.AnalysisTimeout < 0 {
		return errors.New("config: AnalysisTimeout must not be negative")
	}
	if c.YieldThreshold < 0 {
		return errors.New("config: YieldThreshold must not be negative")
	}
	if c.YieldInterval <= 0 {
		return errors.New("config: YieldInterval must be positive")
	}
	if c.ChromaticityGuard <= 0 || c.ChromaticityGuard >= 3 {
		return errors.New("config: ChromaticityGuard must be in (0, 3)")
	}
	if c.PreviewTieBreak != "first" && c.PreviewTieBreak != "last" {
		return fmt.Errorf("config: PreviewTieBreak must be first or last, got %q", c.PreviewTieBreak)
	}
	if c.PreviewMaxSize <= 0 {
		return errors.New("config: PreviewMaxSize must be positive")
	}
	return nil
}

// ParseLevel maps a LogLevel string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", s)
}
