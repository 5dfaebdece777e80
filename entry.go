package ttlmemcache

import (
	"fmt"
	"time"

	"github.com/karupanerura/ttlmemcache/expiration"
	"github.com/karupanerura/ttlmemcache/internal/presence"
)

// Entry is a stored value with its expiration metadata.
// Entries are immutable once constructed.
type Entry[K KeyConstraint, V ValueConstraint] struct {
	key       K
	value     V
	lifetime  time.Duration
	origin    string
	expiresAt time.Time
}

// NewEntry creates an entry that expires lifetime after now.
// A zero lifetime creates an already expired entry; expiration.Infinite never expires.
// It returns ErrInvalidArgument when the key is missing.
func NewEntry[K KeyConstraint, V ValueConstraint](key K, value V, lifetime time.Duration, origin string, now time.Time) (*Entry[K, V], error) {
	return RestoreEntry(key, value, lifetime, origin, expiration.Compute(lifetime, now))
}

// RestoreEntry creates an entry keeping the given expiration time.
// It is used when an entry is replayed from a snapshot or replicated from another store.
// It returns ErrInvalidArgument when the key is missing.
func RestoreEntry[K KeyConstraint, V ValueConstraint](key K, value V, lifetime time.Duration, origin string, expiresAt time.Time) (*Entry[K, V], error) {
	if presence.IsMissing(key) {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidArgument)
	}
	return &Entry[K, V]{
		key:       key,
		value:     value,
		lifetime:  lifetime,
		origin:    origin,
		expiresAt: expiresAt,
	}, nil
}

// Key returns the key of the entry.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// Value returns the value of the entry.
func (e *Entry[K, V]) Value() V {
	return e.value
}

// Lifetime returns the lifetime the entry was created with.
func (e *Entry[K, V]) Lifetime() time.Duration {
	return e.lifetime
}

// Origin returns the id of the store that wrote the entry.
func (e *Entry[K, V]) Origin() string {
	return e.origin
}

// ExpiresAt returns the expiration time of the entry.
func (e *Entry[K, V]) ExpiresAt() time.Time {
	return e.expiresAt
}

// Expired reports whether the entry is expired at now.
func (e *Entry[K, V]) Expired(now time.Time) bool {
	return expiration.IsExpired(e.expiresAt, now)
}

// Record serializes the entry.
func (e *Entry[K, V]) Record() Record[K, V] {
	key, value := e.key, e.value
	lifetime := expiration.Lifetime(e.lifetime)
	expiresAt := expiration.Timestamp(e.expiresAt)
	return Record[K, V]{
		Type:      EntryRecordType,
		Key:       &key,
		Value:     &value,
		Lifetime:  &lifetime,
		Origin:    e.origin,
		ExpiresAt: &expiresAt,
	}
}

// String returns a human readable form of the entry for logs.
func (e *Entry[K, V]) String() string {
	if expiration.IsNever(e.expiresAt) {
		return fmt.Sprintf("%v (origin=%s, never expires)", e.key, e.origin)
	}
	return fmt.Sprintf("%v (origin=%s, expires at %s)", e.key, e.origin, e.expiresAt.Format(time.RFC3339Nano))
}
