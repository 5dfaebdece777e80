// Package metrics counts store and replication activity and exposes it in the Prometheus text format.
package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys
const (
	// Store
	SetsTotal     MetricKey = "ttlmemcache_sets_total"
	DisposesTotal MetricKey = "ttlmemcache_disposes_total"
	ClearsTotal   MetricKey = "ttlmemcache_clears_total"
	Entries       MetricKey = "ttlmemcache_entries"

	// Replication
	ReplicationReceivedTotal   MetricKey = "ttlmemcache_replication_received_total"
	ReplicationAppliedTotal    MetricKey = "ttlmemcache_replication_applied_total"
	ReplicationEchoesTotal     MetricKey = "ttlmemcache_replication_echoes_total"
	ReplicationDuplicatesTotal MetricKey = "ttlmemcache_replication_duplicates_total"
	ReplicationErrorsTotal     MetricKey = "ttlmemcache_replication_errors_total"
	ReplicationEmittedTotal    MetricKey = "ttlmemcache_replication_emitted_total"
)

var help = map[MetricKey]string{
	SetsTotal:                  "Number of values stored.",
	DisposesTotal:              "Number of entries removed by delete or expiration.",
	ClearsTotal:                "Number of times the store was cleared.",
	Entries:                    "Number of entries in the store, including expired ones not removed yet.",
	ReplicationReceivedTotal:   "Number of inbound records.",
	ReplicationAppliedTotal:    "Number of inbound records applied to the store.",
	ReplicationEchoesTotal:     "Number of inbound records discarded as echoes of the store's own writes.",
	ReplicationDuplicatesTotal: "Number of inbound records skipped because the same entry is already stored.",
	ReplicationErrorsTotal:     "Number of inbound records rejected as malformed.",
	ReplicationEmittedTotal:    "Number of outbound records delivered to sinks.",
}

// Registry stores all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
	gauges   map[MetricKey]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
		gauges:   make(map[MetricKey]*int64),
	}
}

// Inc increments a counter by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a counter by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	atomic.AddInt64(r.slot(r.counters, key), delta)
}

// Set sets a gauge to value.
func (r *Registry) Set(key MetricKey, value int64) {
	atomic.StoreInt64(r.slot(r.gauges, key), value)
}

// Get returns the current value of a counter or a gauge.
func (r *Registry) Get(key MetricKey) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ptr, ok := r.counters[key]; ok {
		return atomic.LoadInt64(ptr)
	}
	if ptr, ok := r.gauges[key]; ok {
		return atomic.LoadInt64(ptr)
	}
	return 0
}

func (r *Registry) slot(m map[MetricKey]*int64, key MetricKey) *int64 {
	r.mu.RLock()
	ptr, ok := m[key]
	r.mu.RUnlock()
	if ok {
		return ptr
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = m[key]; ok {
		return ptr
	}
	ptr = new(int64)
	m[key] = ptr
	return ptr
}
