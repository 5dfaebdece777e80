package ttlmemcache

import (
	"fmt"
	"time"

	"github.com/karupanerura/ttlmemcache/expiration"
	"github.com/karupanerura/ttlmemcache/internal/presence"
)

// EntryRecordType is the discriminator of records serialized from an Entry.
const EntryRecordType = "ttlmemcache.Entry"

// Record is the wire and in-process shape of an entry.
// Optional fields are pointers. A nil Value marks a delete.
// Lifetime and ExpiresAt are encoded as milliseconds, or the string "infinite".
type Record[K KeyConstraint, V ValueConstraint] struct {
	Type      string                `json:"type,omitempty"`
	Key       *K                    `json:"key,omitempty"`
	Value     *V                    `json:"value"`
	Lifetime  *expiration.Lifetime  `json:"lifetime,omitempty"`
	Origin    string                `json:"origin,omitempty"`
	ExpiresAt *expiration.Timestamp `json:"expiresAt,omitempty"`
}

// NewDeleteRecord creates a record that removes the key.
func NewDeleteRecord[K KeyConstraint, V ValueConstraint](key K, origin string) Record[K, V] {
	return Record[K, V]{
		Type:   EntryRecordType,
		Key:    &key,
		Origin: origin,
	}
}

// HasKey reports whether the record carries a usable key.
func (r *Record[K, V]) HasKey() bool {
	return r.Key != nil && !presence.IsMissing(*r.Key)
}

// HasValue reports whether the record carries a usable value.
func (r *Record[K, V]) HasValue() bool {
	return r.Value != nil && !presence.IsMissing(*r.Value)
}

// IsDelete reports whether the record removes its key.
func (r *Record[K, V]) IsDelete() bool {
	return r.HasKey() && !r.HasValue()
}

// restore creates an entry from a snapshot record.
// The value and the lifetime are required; a missing expiration is computed from the lifetime.
func (r *Record[K, V]) restore(key K, defaultOrigin string, now time.Time) (*Entry[K, V], error) {
	if !r.HasValue() {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidArgument)
	}
	if r.Lifetime == nil {
		return nil, fmt.Errorf("%w: lifetime is required", ErrInvalidArgument)
	}

	lifetime := r.Lifetime.Duration()
	origin := r.Origin
	if origin == "" {
		origin = defaultOrigin
	}
	if r.ExpiresAt == nil {
		return NewEntry(key, *r.Value, lifetime, origin, now)
	}
	return RestoreEntry(key, *r.Value, lifetime, origin, r.ExpiresAt.Time())
}
