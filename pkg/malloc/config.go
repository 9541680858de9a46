package malloc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Environment variables read by LoadConfig.
const (
	EnvVerbose    = "MALLOCVERBOSE"
	EnvLog        = "MALLOC_LOG"
	EnvExtentSize = "MALLOC_EXTENT_SIZE"
)

// Config controls allocator behavior.
type Config struct {
	// Verbose prints the heap summary when Exit is called.
	// Default: true
	Verbose bool

	// Log enables structured logging to stderr at LogLevel.
	// Default: false
	Log bool

	// LogLevel is the minimum level logged when Log is set.
	// Default: slog.LevelInfo
	LogLevel slog.Level

	// ExtentSize is the number of bytes requested from the arena source per
	// growth. Zero selects the default.
	// Default: 2 MiB
	ExtentSize int
}

// DefaultConfig returns the configuration used when the environment sets
// nothing.
func DefaultConfig() Config {
	return Config{
		Verbose:    true,
		Log:        false,
		LogLevel:   slog.LevelInfo,
		ExtentSize: format.DefaultExtentSize,
	}
}

// LoadConfig reads the allocator configuration from the environment. Malformed
// values are reported in the returned error and left at their defaults; the
// returned Config is always usable.
func LoadConfig() (Config, error) {
	return configFromEnv(os.LookupEnv)
}

func configFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	if v, ok := lookup(EnvVerbose); ok && strings.EqualFold(strings.TrimSpace(v), "NO") {
		cfg.Verbose = false
	}

	if v, ok := lookup(EnvLog); ok && strings.TrimSpace(v) != "" {
		lvl, err := logger.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLog, err))
		} else {
			cfg.Log = true
			cfg.LogLevel = lvl
		}
	}

	if v, ok := lookup(EnvExtentSize); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvExtentSize, err))
		case n <= 0:
			errs = append(errs, fmt.Errorf("%s: extent size must be positive, got %d", EnvExtentSize, n))
		default:
			cfg.ExtentSize = n
		}
	}

	return cfg, errors.Join(errs...)
}
