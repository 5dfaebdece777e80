package ttlmemcache

import (
	"container/list"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/karupanerura/ttlmemcache/internal/iterutil"
	"github.com/karupanerura/ttlmemcache/internal/panicutil"
	"github.com/karupanerura/ttlmemcache/internal/presence"
)

// Store is an in-memory key/value store where every entry expires after its lifetime.
//
// Entries are enumerated in insertion order. Replacing the value of a key keeps its position.
//
// A Store is owned by a single goroutine: it is not safe for concurrent use,
// and its notifications run synchronously inside the call that caused them.
type Store[K KeyConstraint, V ValueConstraint] struct {
	id      string
	options options[K, V]

	entries map[K]*list.Element
	order   *list.List

	observers subscribers[Observer[K, V]]
	watchers  subscribers[func(Mutation[K, V])]
}

// New creates a new store.
func New[K KeyConstraint, V ValueConstraint](opts ...Option[K, V]) *Store[K, V] {
	options := defaultOptions[K, V]()
	for _, opt := range opts {
		opt.apply(&options)
	}

	id := options.id
	if id == "" {
		if options.generateID == nil {
			options.generateID = RandomID
		}
		id = options.generateID()
	}

	return &Store[K, V]{
		id:      id,
		options: options,
		entries: map[K]*list.Element{},
		order:   list.New(),
	}
}

// ID returns the identity of the store.
func (s *Store[K, V]) ID() string {
	return s.id
}

// DefaultLifetime returns the lifetime of entries set without an explicit one.
func (s *Store[K, V]) DefaultLifetime() time.Duration {
	return s.options.defaultLifetime
}

// StaleAllowed reports whether expired values are returned once more.
func (s *Store[K, V]) StaleAllowed() bool {
	return s.options.stale
}

// ChangefeedEnabled reports whether set notifications carry the previous value.
func (s *Store[K, V]) ChangefeedEnabled() bool {
	return s.options.changefeed
}

// Set stores the value for the key, replacing any existing entry.
// The entry lives for the store default lifetime unless Lifetime or ExpiresAt is given,
// and its origin is the store id unless Origin is given.
// It returns ErrInvalidArgument when the key or the value is missing; the store is left unchanged.
func (s *Store[K, V]) Set(key K, value V, opts ...WriteOption) (V, error) {
	var zero V
	if presence.IsMissing(key) {
		return zero, fmt.Errorf("%w: key is required", ErrInvalidArgument)
	}
	if presence.IsMissing(value) {
		return zero, fmt.Errorf("%w: value is required", ErrInvalidArgument)
	}

	wo := writeOptions{lifetime: s.options.defaultLifetime, origin: s.id}
	for _, opt := range opts {
		opt.applyWrite(&wo)
	}
	if wo.lifetime < 0 {
		return zero, fmt.Errorf("%w: lifetime must not be negative", ErrInvalidArgument)
	}
	if wo.origin == "" {
		wo.origin = s.id
	}

	var change Change[V]
	if s.options.changefeed {
		change.Old, change.HasOld = s.Get(key)
	}

	var (
		entry *Entry[K, V]
		err   error
	)
	stored := s.options.cloner.CloneValue(value)
	if wo.expiresAt.IsZero() {
		entry, err = NewEntry(key, stored, wo.lifetime, wo.origin, s.options.clock.Now())
	} else {
		entry, err = RestoreEntry(key, stored, wo.lifetime, wo.origin, wo.expiresAt)
	}
	if err != nil {
		return zero, err
	}

	s.put(entry)
	s.options.logger.Debugf("set %s", entry)

	change.New = value
	s.notify(func(o Observer[K, V]) { o.OnSet(key, change) })
	s.emit(Mutation[K, V]{Op: OpSet, Key: key, Entry: s.export(entry), Origin: entry.origin})
	return value, nil
}

// Get returns the value for the key.
// An expired entry is removed, notifying OnDispose; when stale values are allowed
// the removed value is returned this one time.
// It returns the zero value and false when the key is not found.
func (s *Store[K, V]) Get(key K) (V, bool) {
	var zero V
	el, ok := s.entries[key]
	if !ok {
		return zero, false
	}

	entry := el.Value.(*Entry[K, V])
	if !s.options.policy.IsExpired(s.options.clock.Now(), entry.expiresAt) {
		return s.options.cloner.CloneValue(entry.value), true
	}

	s.dispose(el)
	if s.options.stale {
		return s.options.cloner.CloneValue(entry.value), true
	}
	return zero, false
}

// Peek returns a copy of the entry for the key without checking its expiration.
// It has no side effects.
func (s *Store[K, V]) Peek(key K) (*Entry[K, V], bool) {
	el, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return s.export(el.Value.(*Entry[K, V])), true
}

// Delete removes the entry for the key and reports whether it was present.
// OnDispose and the delete mutation only happen when an entry was removed.
// The origin of the mutation is the store id unless Origin is given.
func (s *Store[K, V]) Delete(key K, opts ...WriteOption) bool {
	el, ok := s.entries[key]
	if !ok {
		return false
	}

	wo := writeOptions{origin: s.id}
	for _, opt := range opts {
		opt.applyWrite(&wo)
	}
	if wo.origin == "" {
		wo.origin = s.id
	}

	s.dispose(el)
	s.options.logger.Debugf("delete %v (origin=%s)", key, wo.origin)
	s.emit(Mutation[K, V]{Op: OpDelete, Key: key, Origin: wo.origin})
	return true
}

// Entries returns the values of the store in insertion order.
// Expired entries are removed during the call, notifying OnDispose; when stale values are allowed
// their values are still included this one time.
// The mutator, if not nil, is applied to each value.
// The returned sequence can be ranged over only once.
func (s *Store[K, V]) Entries(mutator func(V) V) iter.Seq[V] {
	now := s.options.clock.Now()
	values := make([]V, 0, s.order.Len())
	for _, el := range s.elements() {
		entry, ok := s.current(el)
		if !ok {
			continue
		}
		if s.options.policy.IsExpired(now, entry.expiresAt) {
			s.dispose(el)
			if !s.options.stale {
				continue
			}
		}
		values = append(values, s.options.cloner.CloneValue(entry.value))
	}

	seq := slices.Values(values)
	if mutator != nil {
		seq = iterutil.Map(seq, mutator)
	}
	return iterutil.Once(seq)
}

// Keys returns the keys of the store in insertion order, including expired ones.
func (s *Store[K, V]) Keys() []K {
	keys := make([]K, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry[K, V]).key)
	}
	return keys
}

// Prune removes every expired entry, notifying OnDispose for each.
func (s *Store[K, V]) Prune() {
	now := s.options.clock.Now()
	pruned := 0
	for _, el := range s.elements() {
		entry, ok := s.current(el)
		if ok && s.options.policy.IsExpired(now, entry.expiresAt) {
			s.dispose(el)
			pruned++
		}
	}
	if pruned != 0 {
		s.options.logger.Debugf("pruned %d expired entries", pruned)
	}
}

// Clear removes all entries, notifying OnClear once and OnDispose never.
func (s *Store[K, V]) Clear() {
	s.entries = map[K]*list.Element{}
	s.order.Init()
	s.options.logger.Debug("cleared")
	s.notify(func(o Observer[K, V]) { o.OnClear() })
}

// Len returns the number of entries, including expired ones that are not removed yet.
func (s *Store[K, V]) Len() int {
	return len(s.entries)
}

// Subscribe registers the observer and returns a function that unregisters it.
func (s *Store[K, V]) Subscribe(observer Observer[K, V]) (cancel func()) {
	return s.observers.add(observer)
}

// Watch registers a function receiving every local Set and Delete as a Mutation,
// and returns a function that unregisters it.
// Removals caused by expiration and Clear are not mutations.
func (s *Store[K, V]) Watch(f func(Mutation[K, V])) (cancel func()) {
	return s.watchers.add(f)
}

// put inserts the entry, keeping the position of an existing key.
func (s *Store[K, V]) put(entry *Entry[K, V]) {
	if el, ok := s.entries[entry.key]; ok {
		el.Value = entry
		return
	}
	s.entries[entry.key] = s.order.PushBack(entry)
}

// dispose removes the element and notifies OnDispose.
func (s *Store[K, V]) dispose(el *list.Element) {
	entry := s.order.Remove(el).(*Entry[K, V])
	delete(s.entries, entry.key)
	s.notify(func(o Observer[K, V]) { o.OnDispose(entry.key, entry.value) })
}

// export copies the entry with a cloned value, so nothing outside the store holds its value.
func (s *Store[K, V]) export(entry *Entry[K, V]) *Entry[K, V] {
	exported := *entry
	exported.value = s.options.cloner.CloneValue(entry.value)
	return &exported
}

// elements returns a snapshot of the list, so observers may mutate the store while it is walked.
func (s *Store[K, V]) elements() []*list.Element {
	elements := make([]*list.Element, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		elements = append(elements, el)
	}
	return elements
}

// current returns the entry of the element if the element is still in the store.
func (s *Store[K, V]) current(el *list.Element) (*Entry[K, V], bool) {
	entry, ok := el.Value.(*Entry[K, V])
	if !ok || s.entries[entry.key] != el {
		return nil, false
	}
	return entry, true
}

func (s *Store[K, V]) notify(f func(Observer[K, V])) {
	panicutil.Each(s.observers.list(), f, func(err error) {
		s.options.logger.Errorf("observer panicked: %v", err)
	})
}

func (s *Store[K, V]) emit(m Mutation[K, V]) {
	panicutil.Each(s.watchers.list(), func(watch func(Mutation[K, V])) { watch(m) }, func(err error) {
		s.options.logger.Errorf("watcher panicked: %v", err)
	})
}

type subscription[T any] struct {
	id uint64
	v  T
}

// subscribers is a registration list that tolerates cancellation during notification.
type subscribers[T any] struct {
	nextID uint64
	subs   []subscription[T]
}

func (s *subscribers[T]) add(v T) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[T]{id: id, v: v})
	return func() {
		s.subs = slices.DeleteFunc(slices.Clone(s.subs), func(sub subscription[T]) bool {
			return sub.id == id
		})
	}
}

func (s *subscribers[T]) list() []T {
	values := make([]T, len(s.subs))
	for i, sub := range s.subs {
		values[i] = sub.v
	}
	return values
}
