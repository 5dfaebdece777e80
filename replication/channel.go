package replication

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/karupanerura/ttlmemcache"
	"github.com/karupanerura/ttlmemcache/metrics"
)

// Channel is the replication boundary of a store.
// Like its store, a Channel is owned by a single goroutine.
type Channel[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] struct {
	store   *ttlmemcache.Store[K, V]
	options options

	sinks   []attachedSink[K, V]
	nextID  uint64
	pending []byte
	unwatch func()
}

type attachedSink[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] struct {
	id   uint64
	sink Sink[K, V]
}

// New creates a channel for the store and starts watching its writes.
func New[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](store *ttlmemcache.Store[K, V], opts ...Option) *Channel[K, V] {
	options := defaultOptions()
	for _, opt := range opts {
		opt.apply(&options)
	}

	c := &Channel[K, V]{
		store:   store,
		options: options,
	}
	c.unwatch = store.Watch(c.emit)
	return c
}

// Store returns the store of the channel.
func (c *Channel[K, V]) Store() *ttlmemcache.Store[K, V] {
	return c.store
}

// ByteMode reports whether Pipe encodes the records of this channel.
func (c *Channel[K, V]) ByteMode() bool {
	return c.options.byteMode
}

// Metrics returns the registry the channel records into.
func (c *Channel[K, V]) Metrics() *metrics.Registry {
	return c.options.metrics
}

// Close stops watching the store and detaches every sink.
func (c *Channel[K, V]) Close() {
	c.unwatch()
	c.sinks = nil
}

// Accept applies an inbound record to the store.
//
// A record authored by this store is an echo and is discarded.
// A set whose key is already stored with the same expiration and origin is a duplicate and is skipped.
// Replicated sets keep the lifetime, expiration and origin of the record.
// A record that is neither a set nor a delete is reported as ErrMissingKeyOrValue and leaves the store unchanged.
//
// The returned error has already been passed to the error handler.
func (c *Channel[K, V]) Accept(r ttlmemcache.Record[K, V]) error {
	c.options.metrics.Inc(metrics.ReplicationReceivedTotal)
	if r.Origin == c.store.ID() {
		c.options.metrics.Inc(metrics.ReplicationEchoesTotal)
		c.options.logger.Debugf("discard echo from %s", r.Origin)
		return nil
	}

	switch in := Classify(r).(type) {
	case SetRecord[K, V]:
		if c.isDuplicate(in) {
			c.options.metrics.Inc(metrics.ReplicationDuplicatesTotal)
			c.options.logger.Debugf("skip duplicate of %v from %s", in.Key, in.Origin)
			return nil
		}

		opts := []ttlmemcache.WriteOption{ttlmemcache.Origin(in.Origin)}
		if in.Lifetime != nil {
			opts = append(opts, ttlmemcache.Lifetime(*in.Lifetime))
		}
		if !in.ExpiresAt.IsZero() {
			opts = append(opts, ttlmemcache.ExpiresAt(in.ExpiresAt))
		}
		if _, err := c.store.Set(in.Key, in.Value, opts...); err != nil {
			return c.fail(err)
		}

	case DeleteRecord[K]:
		c.store.Delete(in.Key, ttlmemcache.Origin(in.Origin))

	case Malformed:
		return c.fail(in.Err)
	}

	c.options.metrics.Inc(metrics.ReplicationAppliedTotal)
	return nil
}

func (c *Channel[K, V]) isDuplicate(in SetRecord[K, V]) bool {
	if in.ExpiresAt.IsZero() {
		return false
	}
	entry, ok := c.store.Peek(in.Key)
	return ok && entry.ExpiresAt().Equal(in.ExpiresAt) && entry.Origin() == in.Origin
}

// Write decodes newline delimited records and accepts each of them.
// An incomplete trailing record is kept until the rest of it is written.
// Records that cannot be decoded are reported as ErrMalformedRecord to the error handler.
// Write never fails.
func (c *Channel[K, V]) Write(p []byte) (int, error) {
	c.pending = append(c.pending, p...)
	for {
		i := bytes.IndexByte(c.pending, '\n')
		if i < 0 {
			break
		}
		line := c.pending[:i]
		c.pending = c.pending[i+1:]
		c.decode(line)
	}
	if len(c.pending) == 0 {
		c.pending = nil
	}
	return len(p), nil
}

// Flush accepts the incomplete trailing record kept by Write, if any.
func (c *Channel[K, V]) Flush() {
	line := c.pending
	c.pending = nil
	c.decode(line)
}

func (c *Channel[K, V]) decode(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var r ttlmemcache.Record[K, V]
	if err := c.options.codec.Unmarshal(line, &r); err != nil {
		c.options.metrics.Inc(metrics.ReplicationReceivedTotal)
		_ = c.fail(fmt.Errorf("%w: %w", ttlmemcache.ErrMalformedRecord, err))
		return
	}
	_ = c.Accept(r)
}

func (c *Channel[K, V]) fail(err error) error {
	c.options.metrics.Inc(metrics.ReplicationErrorsTotal)
	c.options.logger.Warnf("reject inbound record: %v", err)
	if c.options.onError != nil {
		c.options.onError(err)
	}
	return err
}

// Attach adds a sink for outbound records and returns the function that detaches it.
// Without any sink attached, outbound records are dropped.
func (c *Channel[K, V]) Attach(sink Sink[K, V]) (detach func()) {
	c.nextID++
	id := c.nextID
	c.sinks = append(c.sinks, attachedSink[K, V]{id: id, sink: sink})
	return func() {
		c.sinks = slices.DeleteFunc(slices.Clone(c.sinks), func(s attachedSink[K, V]) bool {
			return s.id == id
		})
	}
}

// AttachWriter attaches a sink writing encoded records to w, one per line.
func (c *Channel[K, V]) AttachWriter(w io.Writer) (detach func()) {
	return c.Attach(SinkFunc[K, V](func(r ttlmemcache.Record[K, V]) {
		b, err := c.Encode(r)
		if err != nil {
			c.options.logger.Errorf("encode outbound record: %v", err)
			return
		}
		if _, err := w.Write(b); err != nil {
			c.options.logger.Errorf("write outbound record: %v", err)
		}
	}))
}

// Encode encodes the record followed by a newline.
func (c *Channel[K, V]) Encode(r ttlmemcache.Record[K, V]) ([]byte, error) {
	b, err := c.options.codec.Marshal(r)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(b, '\n') >= 0 {
		return nil, fmt.Errorf("encoded record contains a newline")
	}
	return append(b, '\n'), nil
}

// emit turns a store mutation into one outbound record.
func (c *Channel[K, V]) emit(m ttlmemcache.Mutation[K, V]) {
	if len(c.sinks) == 0 {
		c.options.logger.Debugf("drop outbound %s of %v: no sink attached", m.Op, m.Key)
		return
	}

	r := m.Record()
	for _, s := range c.sinks {
		s.sink.Send(r)
	}
	c.options.metrics.Inc(metrics.ReplicationEmittedTotal)
}
