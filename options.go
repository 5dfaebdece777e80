package ttlmemcache

import (
	"time"

	"github.com/karupanerura/ttlmemcache/expiration"
	"github.com/karupanerura/ttlmemcache/logging"
)

// DefaultLifetime is the lifetime of entries set without an explicit one.
var DefaultLifetime = 5 * time.Minute

// Option is the interface for the options of a Store.
type Option[K KeyConstraint, V ValueConstraint] interface {
	apply(*options[K, V])
}

type optionFunc[K KeyConstraint, V ValueConstraint] func(*options[K, V])

func (f optionFunc[K, V]) apply(o *options[K, V]) {
	f(o)
}

// WithID sets the identity of the store.
// It is the origin of locally written entries and is used to recognize echoes of them.
func WithID[K KeyConstraint, V ValueConstraint](id string) Option[K, V] {
	if id == "" {
		panic("id must not be empty")
	}
	return optionFunc[K, V](func(o *options[K, V]) {
		o.id = id
		o.generateID = nil
	})
}

// WithIDGenerator sets the generator of the store id.
// It is only called when no id is given with WithID.
func WithIDGenerator[K KeyConstraint, V ValueConstraint](generate IDGenerator) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		if o.id == "" {
			o.generateID = generate
		}
	})
}

// WithDefaultLifetime sets the lifetime of entries set without an explicit one.
// The lifetime must not be negative; expiration.Infinite makes entries never expire.
func WithDefaultLifetime[K KeyConstraint, V ValueConstraint](lifetime time.Duration) Option[K, V] {
	if lifetime < 0 {
		panic("lifetime must not be negative")
	}
	return optionFunc[K, V](func(o *options[K, V]) {
		o.defaultLifetime = lifetime
	})
}

// WithStale makes Get and Entries return an expired value once more while removing it.
func WithStale[K KeyConstraint, V ValueConstraint](stale bool) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.stale = stale
	})
}

// WithChangefeed makes set notifications carry the previous value.
func WithChangefeed[K KeyConstraint, V ValueConstraint](changefeed bool) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.changefeed = changefeed
	})
}

// WithClock sets the clock to the store.
func WithClock[K KeyConstraint, V ValueConstraint](clock Clock) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.clock = clock
	})
}

// WithExpirationPolicy sets the expiration policy to the store.
func WithExpirationPolicy[K KeyConstraint, V ValueConstraint](policy expiration.ExpirationPolicy) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.policy = policy
	})
}

// WithCloner sets the value cloner to the store.
func WithCloner[K KeyConstraint, V ValueConstraint](cloner ValueCloner[V]) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.cloner = cloner
	})
}

// WithLogger sets the logger to the store.
func WithLogger[K KeyConstraint, V ValueConstraint](logger logging.Logger) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.logger = logger
	})
}

type options[K KeyConstraint, V ValueConstraint] struct {
	id              string
	generateID      IDGenerator
	defaultLifetime time.Duration
	stale           bool
	changefeed      bool
	clock           Clock
	policy          expiration.ExpirationPolicy
	cloner          ValueCloner[V]
	logger          logging.Logger
}

func defaultOptions[K KeyConstraint, V ValueConstraint]() options[K, V] {
	return options[K, V]{
		generateID:      RandomID,
		defaultLifetime: DefaultLifetime,
		clock:           SystemClock,
		policy:          expiration.GeneralExpirationPolicy{},
		cloner:          DefaultValueCloner[V](),
		logger:          logging.Nop(),
	}
}

// WriteOption is the interface for the options of a single Set or Delete.
type WriteOption interface {
	applyWrite(*writeOptions)
}

type writeOptionFunc func(*writeOptions)

func (f writeOptionFunc) applyWrite(o *writeOptions) {
	f(o)
}

// Lifetime sets the lifetime of the written entry instead of the store default.
func Lifetime(lifetime time.Duration) WriteOption {
	return writeOptionFunc(func(o *writeOptions) {
		o.lifetime = lifetime
	})
}

// Origin sets the origin of the write instead of the store id.
// Replicated writes keep the id of the store that authored them.
func Origin(origin string) WriteOption {
	return writeOptionFunc(func(o *writeOptions) {
		o.origin = origin
	})
}

// ExpiresAt keeps the given expiration time instead of computing it from the lifetime.
// The zero time is ignored.
func ExpiresAt(expiresAt time.Time) WriteOption {
	return writeOptionFunc(func(o *writeOptions) {
		o.expiresAt = expiresAt
	})
}

type writeOptions struct {
	lifetime  time.Duration
	origin    string
	expiresAt time.Time
}
