package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/karupanerura/ttlmemcache"
	"github.com/karupanerura/ttlmemcache/config"
	"github.com/karupanerura/ttlmemcache/expiration"
	"github.com/karupanerura/ttlmemcache/logging"
	"github.com/karupanerura/ttlmemcache/replication"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ttlmemcache.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadFromString(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func parse(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	got := loadFromString(t, "store:\n  id: node-a\n")
	want := &config.Config{
		Store: config.StoreConfig{
			ID:              "node-a",
			DefaultLifetime: config.Lifetime(config.DefaultLifetime),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad_Full(t *testing.T) {
	t.Parallel()

	got := loadFromString(t, `
store:
  id: node-b
  default_lifetime: 90s
  stale: true
  changefeed: true
replication:
  byte_mode: true
log:
  debug: true
`)
	want := &config.Config{
		Store: config.StoreConfig{
			ID:              "node-b",
			DefaultLifetime: config.Lifetime(90 * time.Second),
			Stale:           true,
			Changefeed:      true,
		},
		Replication: config.ReplicationConfig{ByteMode: true},
		Log:         config.LogConfig{Debug: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad_Lifetime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "duration string", raw: "1m30s", want: 90 * time.Second},
		{name: "milliseconds", raw: "1500", want: 1500 * time.Millisecond},
		{name: "zero", raw: "0", want: 0},
		{name: "infinite", raw: "infinite", want: expiration.Infinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := loadFromString(t, "store:\n  default_lifetime: "+tt.raw+"\n")
			if got := cfg.Store.DefaultLifetime.Duration(); got != tt.want {
				t.Errorf("DefaultLifetime = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantMsg string
		wantErr error
	}{
		{name: "invalid yaml", raw: "store: [unclosed\n", wantMsg: "config: parse yaml"},
		{name: "invalid lifetime", raw: "store:\n  default_lifetime: soon\n", wantMsg: `invalid lifetime "soon"`},
		{name: "negative lifetime", raw: "store:\n  default_lifetime: -1s\n", wantErr: ttlmemcache.ErrInvalidArgument},
		{name: "suppress with debug", raw: "log:\n  suppress: true\n  debug: true\n", wantErr: ttlmemcache.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(writeConfig(t, tt.raw))
			if err == nil {
				t.Fatal("Load() succeeded, want an error")
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil || !strings.Contains(err.Error(), "config: read file") {
			t.Errorf("Load() error = %v, want a read error", err)
		}
	})
}

func TestStoreOptions(t *testing.T) {
	t.Parallel()

	cfg := parse(t, `
store:
  id: node-c
  default_lifetime: infinite
  stale: true
  changefeed: true
`)

	store := ttlmemcache.New(config.StoreOptions[string, string](cfg, logging.Nop())...)
	if got := store.ID(); got != "node-c" {
		t.Errorf("ID() = %q, want node-c", got)
	}
	if got := store.DefaultLifetime(); got != expiration.Infinite {
		t.Errorf("DefaultLifetime() = %v, want infinite", got)
	}
	if !store.StaleAllowed() || !store.ChangefeedEnabled() {
		t.Errorf("StaleAllowed() = %v, ChangefeedEnabled() = %v, want both", store.StaleAllowed(), store.ChangefeedEnabled())
	}

	t.Run("generated id", func(t *testing.T) {
		t.Parallel()

		store := ttlmemcache.New(config.StoreOptions[string, int](parse(t, "{}"), nil)...)
		if store.ID() == "" {
			t.Error("ID() is empty")
		}
		if got := store.DefaultLifetime(); got != config.DefaultLifetime {
			t.Errorf("DefaultLifetime() = %v, want %v", got, config.DefaultLifetime)
		}
	})
}

func TestChannelOptions(t *testing.T) {
	t.Parallel()

	cfg := parse(t, "replication:\n  byte_mode: true\n")

	store := ttlmemcache.New[string, string]()
	ch := replication.New(store, config.ChannelOptions(cfg, cfg.Logger("test"))...)
	defer ch.Close()

	if !ch.ByteMode() {
		t.Error("ByteMode() = false")
	}
	if ch.Store() != store {
		t.Error("Store() is not the wrapped store")
	}
}

func TestApplyLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want logrus.Level
	}{
		{name: "default", raw: "{}", want: logrus.InfoLevel},
		{name: "debug", raw: "log:\n  debug: true\n", want: logrus.DebugLevel},
		{name: "suppress", raw: "log:\n  suppress: true\n", want: logrus.PanicLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := logrus.New()
			l.SetLevel(logrus.TraceLevel)
			config.ApplyLogLevel(l, parse(t, tt.raw))
			if got := l.GetLevel(); got != tt.want {
				t.Errorf("GetLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "store:\n  id: before\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 16)
	var g errgroup.Group
	g.Go(func() error {
		return config.Watch(ctx, path, logging.Nop(), func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	})

	// The watcher registers asynchronously, so keep rewriting until a reload is observed.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// A truncating write can be observed half-way, so wait for the final content.
	for done := false; !done; {
		select {
		case cfg := <-reloaded:
			done = cfg.Store.ID == "after"
		case <-tick.C:
			if err := os.WriteFile(path, []byte("store:\n  id: after\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}

	cancel()
	if err := g.Wait(); err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatch_MissingFile(t *testing.T) {
	t.Parallel()

	err := config.Watch(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), logging.Nop(), func(*config.Config) {})
	if err == nil {
		t.Error("Watch() succeeded on a missing file")
	}
}
