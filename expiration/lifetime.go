package expiration

import (
	"math"
	"time"
)

// Infinite is the lifetime of an entry that never expires.
const Infinite time.Duration = math.MaxInt64

// Never is the expiration time computed from the Infinite lifetime.
// Every time at or after Never is treated as never expiring.
var Never = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Compute returns the absolute expiration time of a value that lives for lifetime from now.
func Compute(lifetime time.Duration, now time.Time) time.Time {
	if lifetime == Infinite {
		return Never
	}
	return now.Add(lifetime)
}

// IsNever reports whether expiresAt is the Never sentinel (or lies beyond it).
func IsNever(expiresAt time.Time) bool {
	return !expiresAt.Before(Never)
}

// IsExpired reports whether expiresAt has passed at now.
// A value expires at the exact instant of its expiration time.
func IsExpired(expiresAt, now time.Time) bool {
	if IsNever(expiresAt) {
		return false
	}
	return !expiresAt.After(now)
}
