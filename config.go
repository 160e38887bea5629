package mempool

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// DefaultArenaCapacity is the default capacity of a single arena (128 KiB).
const DefaultArenaCapacity = 1 << 17

// DefaultThreshold is the default cutoff between arena and tracked allocations.
const DefaultThreshold = DefaultArenaCapacity

const envPrefix = "MEMPOOL"

// Memory source names accepted by Config.Source.
const (
	SourceHeap = "heap"
	SourceMmap = "mmap"
)

// Config holds the tunables of a Pool.
type Config struct {
	// ArenaCapacity is the fixed size in bytes of every arena.
	ArenaCapacity int `envconfig:"ARENA_CAPACITY" json:"arena_capacity"`
	// Threshold routes requests of at most this many bytes to arenas.
	Threshold int `envconfig:"THRESHOLD" json:"threshold"`
	// Source selects the system memory source, "heap" or "mmap".
	Source string `envconfig:"SOURCE" json:"source"`
	// MemoryLimit caps outstanding heap bytes. Zero means unlimited.
	MemoryLimit int `envconfig:"MEMORY_LIMIT" json:"memory_limit"`
	// Strict makes Deallocate report pointers it does not own.
	Strict bool `envconfig:"STRICT" json:"strict"`
	// LogLevel is one of logrus' level names. Empty leaves the package
	// logger at whatever level it already has.
	LogLevel string `envconfig:"LOG_LEVEL" json:"log_level"`

	// System overrides Source with a caller supplied memory source.
	System Source `ignored:"true" json:"-"`
	// Logger overrides the package logger.
	Logger *logrus.Logger `ignored:"true" json:"-"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		ArenaCapacity: DefaultArenaCapacity,
		Threshold:     DefaultThreshold,
		Source:        SourceHeap,
	}
}

// LoadConfig returns DefaultConfig overridden by MEMPOOL_* environment variables.
func LoadConfig() (Config, error) {
	conf := DefaultConfig()
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return conf, fmt.Errorf("failed to process config env vars: %w", err)
	}
	return conf, conf.Validate()
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch {
	case c.ArenaCapacity <= 0:
		return fmt.Errorf("%w: arena capacity %d must be positive", ErrInvalidConfig, c.ArenaCapacity)
	case c.Threshold <= 0:
		return fmt.Errorf("%w: threshold %d must be positive", ErrInvalidConfig, c.Threshold)
	case c.Threshold > c.ArenaCapacity:
		return fmt.Errorf("%w: threshold %d exceeds arena capacity %d", ErrInvalidConfig, c.Threshold, c.ArenaCapacity)
	case c.MemoryLimit < 0:
		return fmt.Errorf("%w: memory limit %d is negative", ErrInvalidConfig, c.MemoryLimit)
	}
	if c.System == nil {
		switch strings.ToLower(c.Source) {
		case SourceHeap, SourceMmap, "":
		default:
			return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
		}
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// source resolves the memory source described by the config.
func (c Config) source() (Source, error) {
	if c.System != nil {
		return c.System, nil
	}
	switch strings.ToLower(c.Source) {
	case SourceMmap:
		src, err := NewMmapSource()
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return NewHeapSource(c.MemoryLimit), nil
	}
}
