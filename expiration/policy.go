package expiration

import (
	"math/rand/v2"
	"time"
)

// ExpirationPolicy decides whether an entry expiring at expiresAt is expired at now.
type ExpirationPolicy interface {
	IsExpired(now, expiresAt time.Time) bool
}

// ExpirationPolicyFunc adapts a function to ExpirationPolicy.
type ExpirationPolicyFunc func(now, expiresAt time.Time) bool

var _ ExpirationPolicy = ExpirationPolicyFunc(nil)

// IsExpired calls f.
func (f ExpirationPolicyFunc) IsExpired(now, expiresAt time.Time) bool {
	return f(now, expiresAt)
}

// GeneralExpirationPolicy expires an entry once now reaches expiresAt. Never is never reached.
type GeneralExpirationPolicy struct{}

var _ ExpirationPolicy = GeneralExpirationPolicy{}

// IsExpired reports IsExpired(expiresAt, now).
func (GeneralExpirationPolicy) IsExpired(now, expiresAt time.Time) bool {
	return IsExpired(expiresAt, now)
}

// NeverExpirationPolicy keeps every entry.
// Lifetimes are still recorded and replicated, so peers with another policy expire them.
type NeverExpirationPolicy struct{}

var _ ExpirationPolicy = NeverExpirationPolicy{}

func (NeverExpirationPolicy) IsExpired(time.Time, time.Time) bool {
	return false
}

// SkewTolerantExpirationPolicy keeps an entry for Tolerance after its expiration.
// Replicated entries carry the expiration computed on the clock of their origin;
// a replica whose clock runs ahead would otherwise drop them early.
type SkewTolerantExpirationPolicy struct {
	Tolerance time.Duration
}

var _ ExpirationPolicy = SkewTolerantExpirationPolicy{}

func (p SkewTolerantExpirationPolicy) IsExpired(now, expiresAt time.Time) bool {
	return IsExpired(expiresAt, now.Add(-p.Tolerance))
}

// EarlyExpirationPolicy expires some entries up to Window before their expiration.
// Stores sharing expirations through replication then drop a key at different instants.
type EarlyExpirationPolicy struct {
	// Window is how much earlier an entry may expire.
	Window time.Duration

	// Probability in [0, 1] that a check looks Window ahead.
	Probability float64

	// Float64 returns a number in [0, 1). rand.Float64 is used when nil.
	Float64 func() float64
}

var _ ExpirationPolicy = (*EarlyExpirationPolicy)(nil)

// IsExpired checks against now+Window with probability Probability, and against now otherwise.
// Never is never expired early.
func (p *EarlyExpirationPolicy) IsExpired(now, expiresAt time.Time) bool {
	if IsNever(expiresAt) {
		return false
	}

	random := p.Float64
	if random == nil {
		random = rand.Float64
	}
	if random() < p.Probability {
		now = now.Add(p.Window)
	}
	return IsExpired(expiresAt, now)
}
