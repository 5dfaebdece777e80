package ttlmemcache

var _ Observer[uint8, struct{}] = ObserverFuncs[uint8, struct{}]{}

// ObserverFuncs is an Observer implementation that uses functions to receive the notifications.
// Nil functions are skipped.
type ObserverFuncs[K KeyConstraint, V ValueConstraint] struct {
	// SetFunc is called when a value is stored for the key.
	SetFunc func(key K, change Change[V])

	// DisposeFunc is called when an entry is removed.
	DisposeFunc func(key K, value V)

	// ClearFunc is called when all entries are removed.
	ClearFunc func()
}

// OnSet calls SetFunc.
func (o ObserverFuncs[K, V]) OnSet(key K, change Change[V]) {
	if o.SetFunc != nil {
		o.SetFunc(key, change)
	}
}

// OnDispose calls DisposeFunc.
func (o ObserverFuncs[K, V]) OnDispose(key K, value V) {
	if o.DisposeFunc != nil {
		o.DisposeFunc(key, value)
	}
}

// OnClear calls ClearFunc.
func (o ObserverFuncs[K, V]) OnClear() {
	if o.ClearFunc != nil {
		o.ClearFunc()
	}
}
