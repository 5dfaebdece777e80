package replication

import "github.com/karupanerura/ttlmemcache"

// Sink receives outbound records.
// Send is called synchronously inside the store call that caused the record.
type Sink[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] interface {
	Send(ttlmemcache.Record[K, V])
}

// SinkFunc is a function type that implements the Sink interface.
type SinkFunc[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] func(ttlmemcache.Record[K, V])

// Send calls the function.
func (f SinkFunc[K, V]) Send(r ttlmemcache.Record[K, V]) {
	f(r)
}

// ChanSink is a sink that hands records to a goroutine through a bounded channel.
// Records are dropped when the channel is full, so a slow reader never blocks the store.
type ChanSink[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] struct {
	ch      chan ttlmemcache.Record[K, V]
	dropped func(ttlmemcache.Record[K, V])
}

// NewChanSink creates a sink buffering up to size records.
// The optional dropped function is called for each record that did not fit.
func NewChanSink[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](size int, dropped func(ttlmemcache.Record[K, V])) *ChanSink[K, V] {
	if size <= 0 {
		panic("size must be natural number")
	}
	return &ChanSink[K, V]{
		ch:      make(chan ttlmemcache.Record[K, V], size),
		dropped: dropped,
	}
}

// Send implements Sink without blocking.
func (s *ChanSink[K, V]) Send(r ttlmemcache.Record[K, V]) {
	select {
	case s.ch <- r:
	default:
		if s.dropped != nil {
			s.dropped(r)
		}
	}
}

// C returns the channel to read records from.
func (s *ChanSink[K, V]) C() <-chan ttlmemcache.Record[K, V] {
	return s.ch
}

// Close closes the channel. The sink must be detached before it is closed.
func (s *ChanSink[K, V]) Close() {
	close(s.ch)
}
