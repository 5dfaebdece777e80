package ttlmemcache

// KeyConstraint is an interface for key constraints.
type KeyConstraint interface {
	comparable
}

// ValueConstraint is an interface for value constraints.
type ValueConstraint interface {
	any
}

// Observer receives change notifications from a Store.
// Notifications are delivered synchronously, after the mutation they describe
// and before the call that caused them returns.
// A panicking observer is recovered and logged; it does not affect the store.
type Observer[K KeyConstraint, V ValueConstraint] interface {
	// OnSet is called when a value is stored for the key.
	OnSet(key K, change Change[V])

	// OnDispose is called when an entry is removed by Delete or by the discovery of its expiration.
	OnDispose(key K, value V)

	// OnClear is called once when all entries are removed by Clear.
	OnClear()
}

// Change describes a stored value.
// Old and HasOld are only filled when the store has the changefeed enabled.
type Change[V ValueConstraint] struct {
	// New is the stored value.
	New V

	// Old is the value visible for the key just before the replacement.
	Old V

	// HasOld reports whether Old was found.
	HasOld bool
}

// Op is the kind of a Mutation.
type Op uint8

const (
	// OpSet stores an entry.
	OpSet Op = iota + 1

	// OpDelete removes an entry.
	OpDelete
)

// String returns the name of the operation.
func (op Op) String() string {
	switch op {
	case OpSet:
		return "set"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation is a local write of a Store, as seen by replication consumers.
type Mutation[K KeyConstraint, V ValueConstraint] struct {
	Op  Op
	Key K

	// Entry is a copy of the stored entry for OpSet, nil for OpDelete.
	Entry *Entry[K, V]

	// Origin is the id of the store that authored the write.
	Origin string
}

// Record converts the mutation to its record form.
// Deletes carry a null value.
func (m Mutation[K, V]) Record() Record[K, V] {
	if m.Op == OpSet && m.Entry != nil {
		return m.Entry.Record()
	}
	return NewDeleteRecord[K, V](m.Key, m.Origin)
}
