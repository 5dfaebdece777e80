package expiration

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"
)

// infiniteLiteral is the JSON form of an Infinite lifetime and of the Never expiration.
var infiniteLiteral = []byte(`"infinite"`)

// Lifetime is a time.Duration that is encoded as whole milliseconds, or as "infinite".
type Lifetime time.Duration

// Duration returns the lifetime as a time.Duration.
func (l Lifetime) Duration() time.Duration {
	return time.Duration(l)
}

// MarshalJSON implements json.Marshaler.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	if time.Duration(l) == Infinite {
		return infiniteLiteral, nil
	}
	return strconv.AppendInt(nil, time.Duration(l).Milliseconds(), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifetime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	ms, infinite, err := parseMillis(b)
	if err != nil {
		return fmt.Errorf("expiration: invalid lifetime %s: %w", b, err)
	}
	if infinite || ms >= Infinite.Milliseconds() {
		*l = Lifetime(Infinite)
		return nil
	}
	*l = Lifetime(time.Duration(ms) * time.Millisecond)
	return nil
}

// Timestamp is a time.Time that is encoded as milliseconds since the Unix epoch, or as "infinite"
// for Never.
type Timestamp time.Time

// Time returns the timestamp as a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if IsNever(time.Time(t)) {
		return infiniteLiteral, nil
	}
	return strconv.AppendInt(nil, time.Time(t).UnixMilli(), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	ms, infinite, err := parseMillis(b)
	if err != nil {
		return fmt.Errorf("expiration: invalid timestamp %s: %w", b, err)
	}
	if infinite || ms >= Never.UnixMilli() {
		*t = Timestamp(Never)
		return nil
	}
	*t = Timestamp(time.UnixMilli(ms))
	return nil
}

// parseMillis parses a JSON number of milliseconds or the "infinite" literal.
// Fractional milliseconds are truncated.
func parseMillis(b []byte) (ms int64, infinite bool, err error) {
	if bytes.Equal(b, infiniteLiteral) {
		return 0, true, nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsInf(f, 1) || f >= math.MaxInt64 {
		return 0, true, nil
	}
	if math.IsNaN(f) || f <= math.MinInt64 {
		return 0, false, fmt.Errorf("out of range")
	}
	return int64(f), false, nil
}
