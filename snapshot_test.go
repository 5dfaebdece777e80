package ttlmemcache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/karupanerura/ttlmemcache"
	"github.com/karupanerura/ttlmemcache/expiration"
)

func TestStore_DumpLoad(t *testing.T) {
	t.Parallel()

	keys := []string{"a", "b", "c"}
	setup := func(clock ttlmemcache.Clock) *ttlmemcache.Store[string, string] {
		store := newTestStore(clock)
		_, _ = store.Set("a", "short", ttlmemcache.Lifetime(2*time.Second))
		_, _ = store.Set("b", "forever", ttlmemcache.Lifetime(expiration.Infinite))
		_, _ = store.Set("c", "replicated", ttlmemcache.Lifetime(time.Hour), ttlmemcache.Origin("node-c"))
		return store
	}
	getAll := func(store *ttlmemcache.Store[string, string]) map[string]string {
		got := map[string]string{}
		for _, key := range keys {
			if v, ok := store.Get(key); ok {
				got[key] = v
			}
		}
		return got
	}

	t.Run("in process", func(t *testing.T) {
		t.Parallel()

		clock := ttlmemcache.NewManualClock(epoch)
		src := setup(clock)
		dst := ttlmemcache.New(ttlmemcache.WithID[string, string]("node-z"), ttlmemcache.WithClock[string, string](clock))
		events := recordEvents(dst)
		mutations := recordMutations(dst)

		loaded := dst.Load(src.Dump())
		if diff := cmp.Diff(keys, loaded); diff != "" {
			t.Errorf("unexpected loaded keys (-want +got):\n%s", diff)
		}
		if len(*events) != 0 || len(*mutations) != 0 {
			t.Errorf("Load must not notify, got %v and %d mutations", *events, len(*mutations))
		}
		if diff := cmp.Diff(getAll(src), getAll(dst)); diff != "" {
			t.Errorf("round trip mismatch (-src +dst):\n%s", diff)
		}

		entry, _ := dst.Peek("c")
		if entry.Origin() != "node-c" {
			t.Errorf("origin must be preserved, got %q", entry.Origin())
		}
	})

	t.Run("through JSON", func(t *testing.T) {
		t.Parallel()

		clock := ttlmemcache.NewManualClock(epoch)
		src := setup(clock)

		b, err := json.Marshal(src.Dump())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		dst := ttlmemcache.New(ttlmemcache.WithClock[string, string](clock))
		loaded, err := dst.LoadJSON(b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(keys, loaded); diff != "" {
			t.Errorf("unexpected loaded keys (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(getAll(src), getAll(dst)); diff != "" {
			t.Errorf("round trip mismatch (-src +dst):\n%s", diff)
		}

		clock.Advance(2 * time.Second)
		if diff := cmp.Diff(getAll(src), getAll(dst)); diff != "" {
			t.Errorf("round trip mismatch after expiry (-src +dst):\n%s", diff)
		}
		if _, ok := dst.Get("b"); !ok {
			t.Error("infinite entry must survive the round trip")
		}
	})

	t.Run("expiration is preserved", func(t *testing.T) {
		t.Parallel()

		srcClock := ttlmemcache.NewManualClock(epoch)
		src := setup(srcClock)

		dstClock := ttlmemcache.NewManualClock(epoch.Add(time.Second))
		dst := ttlmemcache.New(ttlmemcache.WithClock[string, string](dstClock))
		dst.Load(src.Dump())

		dstClock.Advance(time.Second)
		if _, ok := dst.Get("a"); ok {
			t.Error("loaded entry must keep its original expiration")
		}
	})
}

func TestStore_Dump(t *testing.T) {
	t.Parallel()

	clock := ttlmemcache.NewManualClock(epoch)
	store := newTestStore(clock)
	_, _ = store.Set("a", "x", ttlmemcache.Lifetime(time.Second))
	_, _ = store.Set("b", "y", ttlmemcache.Lifetime(expiration.Infinite))
	clock.Advance(time.Hour)
	events := recordEvents(store)

	snapshot := store.Dump()
	if len(snapshot) != 2 || store.Len() != 2 || len(*events) != 0 {
		t.Errorf("Dump must not prune, got %d items, Len() = %d, events = %v", len(snapshot), store.Len(), *events)
	}

	b, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[` +
		`["a",{"type":"ttlmemcache.Entry","key":"a","value":"x","lifetime":1000,"origin":"node-a","expiresAt":1672531201000}],` +
		`["b",{"type":"ttlmemcache.Entry","key":"b","value":"y","lifetime":"infinite","origin":"node-a","expiresAt":"infinite"}]` +
		`]`
	if diff := cmp.Diff(want, string(b)); diff != "" {
		t.Errorf("unexpected JSON (-want +got):\n%s", diff)
	}
}

func TestStore_Load_SkipsInvalidItems(t *testing.T) {
	t.Parallel()

	value := "x"
	lifetime := expiration.Lifetime(time.Minute)
	empty := ""

	store := newTestStore(ttlmemcache.NewManualClock(epoch))
	loaded := store.Load(ttlmemcache.Snapshot[string, string]{
		{Key: "valid", Record: ttlmemcache.Record[string, string]{Value: &value, Lifetime: &lifetime}},
		{Key: "no-value", Record: ttlmemcache.Record[string, string]{Lifetime: &lifetime}},
		{Key: "empty-value", Record: ttlmemcache.Record[string, string]{Value: &empty, Lifetime: &lifetime}},
		{Key: "no-lifetime", Record: ttlmemcache.Record[string, string]{Value: &value}},
	})

	if diff := cmp.Diff([]string{"valid", "empty-value"}, loaded); diff != "" {
		t.Errorf("unexpected loaded keys (-want +got):\n%s", diff)
	}

	entry, ok := store.Peek("valid")
	if !ok {
		t.Fatal("valid entry not loaded")
	}
	if !entry.ExpiresAt().Equal(epoch.Add(time.Minute)) {
		t.Errorf("missing expiration must be computed from the lifetime, got %v", entry.ExpiresAt())
	}
	if entry.Origin() != "node-a" {
		t.Errorf("missing origin must default to the store id, got %q", entry.Origin())
	}
}

func TestStore_LoadJSON(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{
			name:    "object",
			input:   `{"a":{"value":"x","lifetime":1000}}`,
			wantErr: ttlmemcache.ErrInvalidArgument,
		},
		{
			name:    "null",
			input:   `null`,
			wantErr: ttlmemcache.ErrInvalidArgument,
		},
		{
			name:    "not JSON",
			input:   `not json`,
			wantErr: ttlmemcache.ErrInvalidArgument,
		},
		{
			name:  "empty",
			input: `[]`,
			want:  []string{},
		},
		{
			name:  "malformed items are skipped",
			input: `[["a"], ["b", {"value":"x","lifetime":1000}], 5, ["c", {"value":"y","lifetime":"soon"}], ["d", {"value":"z","lifetime":"infinite"}]]`,
			want:  []string{"b", "d"},
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newTestStore(ttlmemcache.NewManualClock(epoch))
			got, err := store.LoadJSON([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected loaded keys (-want +got):\n%s", diff)
			}
		})
	}
}
