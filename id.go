package ttlmemcache

import (
	"crypto/rand"
	"encoding/base64"
)

// IDGenerator generates store ids.
type IDGenerator func() string

// RandomID returns 12 cryptographically random bytes rendered in base64.
// It is the default IDGenerator.
func RandomID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return base64.StdEncoding.EncodeToString(b[:])
}
