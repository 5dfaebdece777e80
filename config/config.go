package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/karupanerura/ttlmemcache"
	"github.com/karupanerura/ttlmemcache/expiration"
)

// DefaultLifetime is applied when store.default_lifetime is absent from the config file.
const DefaultLifetime = 5 * time.Minute

// Config is the top-level configuration of a store and its replication channel.
type Config struct {
	Store       StoreConfig       `yaml:"store"`
	Replication ReplicationConfig `yaml:"replication"`
	Log         LogConfig         `yaml:"log"`
}

// StoreConfig holds the store settings.
type StoreConfig struct {
	// ID is the identity of the store. A random id is generated when empty.
	ID string `yaml:"id"`

	// DefaultLifetime is the lifetime of entries set without an explicit one.
	DefaultLifetime Lifetime `yaml:"default_lifetime"`

	// Stale makes expired values readable once more while they are removed.
	Stale bool `yaml:"stale"`

	// Changefeed makes set notifications carry the previous value.
	Changefeed bool `yaml:"changefeed"`
}

// ReplicationConfig holds the replication channel settings.
type ReplicationConfig struct {
	// ByteMode makes piped channels exchange encoded records.
	ByteMode bool `yaml:"byte_mode"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	// Suppress discards all logs.
	Suppress bool `yaml:"suppress"`

	// Debug enables the debug level.
	Debug bool `yaml:"debug"`
}

// Lifetime is a time.Duration read from a duration string ("5m"), a number of milliseconds, or "infinite".
type Lifetime time.Duration

// Duration returns the lifetime as a time.Duration.
func (l Lifetime) Duration() time.Duration {
	return time.Duration(l)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Lifetime) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: lifetime must be a scalar", value.Line)
	}
	if value.Value == "infinite" {
		*l = Lifetime(expiration.Infinite)
		return nil
	}
	if ms, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*l = Lifetime(time.Duration(ms) * time.Millisecond)
		return nil
	}
	d, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid lifetime %q", value.Line, value.Value)
	}
	*l = Lifetime(d)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Lifetime) MarshalYAML() (any, error) {
	if time.Duration(l) == expiration.Infinite {
		return "infinite", nil
	}
	return time.Duration(l).String(), nil
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML config document.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Store: StoreConfig{
			DefaultLifetime: Lifetime(DefaultLifetime),
		},
	}
}

// validate checks structural constraints.
func validate(cfg *Config) error {
	if cfg.Store.DefaultLifetime < 0 {
		return fmt.Errorf("store.default_lifetime must not be negative: %w", ttlmemcache.ErrInvalidArgument)
	}
	if cfg.Log.Suppress && cfg.Log.Debug {
		return fmt.Errorf("log.suppress and log.debug are exclusive: %w", ttlmemcache.ErrInvalidArgument)
	}
	return nil
}
