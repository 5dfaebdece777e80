package ttlmemcache

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrMissingKeyOrValue = errors.New("record does not contain a key, or the value for the key is missing")
)
