// Package replication connects stores through streams of records.
//
// A Channel applies inbound records to its store, unless they are echoes of the store's own writes,
// and turns every local Set and Delete of the store into one outbound record.
// Channels can be piped into chains or cycles; the origin carried by each record stops the cycle.
package replication

import (
	"fmt"
	"time"

	"github.com/karupanerura/ttlmemcache"
)

// Inbound is an inbound record classified by its shape.
// It is one of SetRecord, DeleteRecord or Malformed.
type Inbound interface {
	origin() string
}

// SetRecord stores a value.
type SetRecord[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] struct {
	Key   K
	Value V

	// Lifetime is nil when the record carries none; the store default is used.
	Lifetime *time.Duration

	// ExpiresAt is the zero time when the record carries none; it is computed from the lifetime.
	ExpiresAt time.Time

	Origin string
}

// DeleteRecord removes a key.
type DeleteRecord[K ttlmemcache.KeyConstraint] struct {
	Key    K
	Origin string
}

// Malformed is a record that is neither a set nor a delete.
type Malformed struct {
	Err error
}

func (r SetRecord[K, V]) origin() string { return r.Origin }
func (r DeleteRecord[K]) origin() string { return r.Origin }
func (Malformed) origin() string         { return "" }

// Classify sorts a record into SetRecord, DeleteRecord or Malformed.
// A record with a key and a value is a set; a key without a value is a delete.
// Records tagged with a type other than ttlmemcache.EntryRecordType are malformed.
func Classify[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](r ttlmemcache.Record[K, V]) Inbound {
	switch {
	case r.Type != "" && r.Type != ttlmemcache.EntryRecordType:
		return Malformed{Err: fmt.Errorf("%w: unknown record type %q", ttlmemcache.ErrMalformedRecord, r.Type)}
	case r.HasKey() && r.HasValue():
		set := SetRecord[K, V]{Key: *r.Key, Value: *r.Value, Origin: r.Origin}
		if r.Lifetime != nil {
			lifetime := r.Lifetime.Duration()
			set.Lifetime = &lifetime
		}
		if r.ExpiresAt != nil {
			set.ExpiresAt = r.ExpiresAt.Time()
		}
		return set
	case r.HasKey():
		return DeleteRecord[K]{Key: *r.Key, Origin: r.Origin}
	default:
		return Malformed{Err: ttlmemcache.ErrMissingKeyOrValue}
	}
}

// Origin returns the origin of a classified record, or "" for Malformed.
func Origin(in Inbound) string {
	return in.origin()
}
