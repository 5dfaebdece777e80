// Package presence detects missing keys and values.
// A value is missing when it is a nil pointer, map, slice, interface, func or chan.
// Zero values of other kinds, the empty string included, are present.
package presence

import (
	"sync"

	"github.com/goccy/go-reflect"
)

var (
	// checkersMutex is a mutex for the checkers.
	checkersMutex = sync.RWMutex{}

	// checkers stores the missing value checkers for different types.
	checkers = map[string]func(any) bool{}
)

// IsMissing reports whether v is missing.
func IsMissing[T any](v T) bool {
	return GetOrCreateChecker[T]()(v)
}

// GetOrCreateChecker returns a missing value checker for the type T.
// Checkers are cached per type.
func GetOrCreateChecker[T any]() func(any) bool {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	name := typ.String()

	checkersMutex.RLock()
	if f, ok := checkers[name]; ok {
		checkersMutex.RUnlock()
		return f
	}

	checkersMutex.RUnlock()
	checkersMutex.Lock()
	defer checkersMutex.Unlock()
	if f, ok := checkers[name]; ok {
		return f
	}

	f := createChecker(typ.Kind())
	checkers[name] = f
	return f
}

func createChecker(kind reflect.Kind) func(any) bool {
	switch kind {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return isNil
	case reflect.Interface:
		// the dynamic type decides
		return func(v any) bool {
			if v == nil {
				return true
			}
			switch reflect.TypeOf(v).Kind() {
			case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
				return isNil(v)
			default:
				return false
			}
		}
	default:
		return func(any) bool {
			return false
		}
	}
}

func isNil(v any) bool {
	return v == nil || reflect.ValueOf(v).IsNil()
}
