package ttlmemcache

import (
	"encoding/json"
	"fmt"
)

// Snapshot is an ordered copy of the entries of a store.
// Its JSON form is an array of [key, record] pairs.
type Snapshot[K KeyConstraint, V ValueConstraint] []SnapshotItem[K, V]

// SnapshotItem is a key and the record of its entry.
type SnapshotItem[K KeyConstraint, V ValueConstraint] struct {
	Key    K
	Record Record[K, V]
}

// MarshalJSON encodes the item as a [key, record] pair.
func (i SnapshotItem[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{i.Key, i.Record})
}

// UnmarshalJSON decodes the item from a [key, record] pair.
func (i *SnapshotItem[K, V]) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("snapshot item must be a [key, record] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &i.Key); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	if err := json.Unmarshal(pair[1], &i.Record); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

// Dump returns a copy of all entries, expired or not, in insertion order.
// It does not prune.
func (s *Store[K, V]) Dump() Snapshot[K, V] {
	snapshot := make(Snapshot[K, V], 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		entry := s.export(el.Value.(*Entry[K, V]))
		snapshot = append(snapshot, SnapshotItem[K, V]{Key: entry.key, Record: entry.Record()})
	}
	return snapshot
}

// Load inserts the entries of the snapshot, keeping their expiration times,
// and returns the keys that were inserted.
// Items without a key, a value or a lifetime are skipped.
// Loading does not notify observers or watchers.
func (s *Store[K, V]) Load(snapshot Snapshot[K, V]) []K {
	now := s.options.clock.Now()
	keys := make([]K, 0, len(snapshot))
	for _, item := range snapshot {
		entry, err := item.Record.restore(item.Key, s.id, now)
		if err != nil {
			s.options.logger.Warnf("skip loading %v: %v", item.Key, err)
			continue
		}
		entry.value = s.options.cloner.CloneValue(entry.value)
		s.put(entry)
		keys = append(keys, entry.key)
	}
	return keys
}

// LoadJSON decodes a JSON snapshot and loads it.
// It returns ErrInvalidArgument when the document is not a JSON array.
// Items that cannot be decoded are skipped.
func (s *Store[K, V]) LoadJSON(b []byte) ([]K, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: snapshot is not an array: %w", ErrInvalidArgument, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: snapshot is not an array", ErrInvalidArgument)
	}

	snapshot := make(Snapshot[K, V], 0, len(raw))
	for i, r := range raw {
		var item SnapshotItem[K, V]
		if err := json.Unmarshal(r, &item); err != nil {
			s.options.logger.Warnf("skip loading item %d: %v", i, err)
			continue
		}
		snapshot = append(snapshot, item)
	}
	return s.Load(snapshot), nil
}
