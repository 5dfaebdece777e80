package config

import (
	"github.com/sirupsen/logrus"

	"github.com/karupanerura/ttlmemcache"
	"github.com/karupanerura/ttlmemcache/logging"
	"github.com/karupanerura/ttlmemcache/replication"
)

// Logger creates the logger described by the log section.
func (c *Config) Logger(name string) logging.Logger {
	return logging.New(name, c.Log.Suppress, c.Log.Debug)
}

// StoreOptions converts the store section to store options.
func StoreOptions[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](cfg *Config, logger logging.Logger) []ttlmemcache.Option[K, V] {
	opts := []ttlmemcache.Option[K, V]{
		ttlmemcache.WithDefaultLifetime[K, V](cfg.Store.DefaultLifetime.Duration()),
		ttlmemcache.WithStale[K, V](cfg.Store.Stale),
		ttlmemcache.WithChangefeed[K, V](cfg.Store.Changefeed),
	}
	if cfg.Store.ID != "" {
		opts = append(opts, ttlmemcache.WithID[K, V](cfg.Store.ID))
	}
	if logger != nil {
		opts = append(opts, ttlmemcache.WithLogger[K, V](logger))
	}
	return opts
}

// ChannelOptions converts the replication section to channel options.
func ChannelOptions(cfg *Config, logger logging.Logger) []replication.Option {
	opts := []replication.Option{
		replication.WithByteMode(cfg.Replication.ByteMode),
	}
	if logger != nil {
		opts = append(opts, replication.WithLogger(logger))
	}
	return opts
}

// ApplyLogLevel applies the log section to a running logrus logger.
// It is meant to be called from the onChange function of Watch.
func ApplyLogLevel(l *logrus.Logger, cfg *Config) {
	switch {
	case cfg.Log.Suppress:
		l.SetLevel(logrus.PanicLevel)
	case cfg.Log.Debug:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
}
