package metrics

import "github.com/karupanerura/ttlmemcache"

// StoreObserver counts the notifications of a store and tracks its entry count.
// Subscribe it with Store.Subscribe.
//
// Store.Load sends no notifications, so call Refresh after loading a snapshot.
type StoreObserver[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint] struct {
	registry *Registry
	store    *ttlmemcache.Store[K, V]
}

var _ ttlmemcache.Observer[uint8, struct{}] = (*StoreObserver[uint8, struct{}])(nil)

// NewStoreObserver creates an observer recording the activity of store into registry.
func NewStoreObserver[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](registry *Registry, store *ttlmemcache.Store[K, V]) *StoreObserver[K, V] {
	o := &StoreObserver[K, V]{registry: registry, store: store}
	o.Refresh()
	return o
}

// Refresh sets the entries gauge from the current length of the store.
func (o *StoreObserver[K, V]) Refresh() {
	o.registry.Set(Entries, int64(o.store.Len()))
}

// Instrument subscribes a new StoreObserver to the store and returns the function that unsubscribes it.
// Stores filled with Store.Load need NewStoreObserver instead, to call Refresh.
func Instrument[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](registry *Registry, store *ttlmemcache.Store[K, V]) (cancel func()) {
	return store.Subscribe(NewStoreObserver(registry, store))
}

// OnSet implements ttlmemcache.Observer.
func (o *StoreObserver[K, V]) OnSet(K, ttlmemcache.Change[V]) {
	o.registry.Inc(SetsTotal)
	o.Refresh()
}

// OnDispose implements ttlmemcache.Observer.
func (o *StoreObserver[K, V]) OnDispose(K, V) {
	o.registry.Inc(DisposesTotal)
	o.Refresh()
}

// OnClear implements ttlmemcache.Observer.
func (o *StoreObserver[K, V]) OnClear() {
	o.registry.Inc(ClearsTotal)
	o.registry.Set(Entries, 0)
}
