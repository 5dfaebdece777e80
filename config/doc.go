// Package config loads and watches the configuration file of a store.
//
// Top-level types:
//   - Config{Store, Replication, Log}: full config tree parsed from YAML
//   - StoreConfig: id, default_lifetime, stale, changefeed
//   - ReplicationConfig: byte_mode
//   - LogConfig: suppress, debug
//
// Load(path) reads the YAML file, applies defaults (5m default lifetime),
// then validates. StoreOptions and ChannelOptions convert a Config to the
// options of ttlmemcache.New and replication.New.
//
// Watch(ctx, path, logger, onChange) uses fsnotify to detect file changes and
// calls onChange with the newly parsed Config. ApplyLogLevel applies the
// reloaded log section to a running logrus logger.
package config
