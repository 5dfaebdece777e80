package ttlmemcache

import (
	"bytes"
	"maps"
	"slices"

	"github.com/goccy/go-reflect"
)

// ValueCloner copies values at the boundary of a Store.
// Values are cloned when they are stored and when they are read,
// so the caller never aliases the copy held by the store.
type ValueCloner[V ValueConstraint] interface {
	CloneValue(V) V
}

// ValueClonerFunc is a function type that implements the ValueCloner interface.
type ValueClonerFunc[V ValueConstraint] func(v V) V

// CloneValue calls the function.
func (f ValueClonerFunc[V]) CloneValue(v V) V {
	return f(v)
}

// NopValueCloner shares values as is. Use it for immutable values.
type NopValueCloner[V ValueConstraint] struct{}

// CloneValue returns the input value.
func (NopValueCloner[V]) CloneValue(v V) V {
	return v
}

// DefaultValueCloner returns the cloner a Store uses unless WithCloner is given:
//   - types with a Clone() V or DeepCopy() V method are cloned with it, nil values excepted
//   - []byte, []string and map[string]string are copied
//   - anything else is shared with NopValueCloner
func DefaultValueCloner[V ValueConstraint]() ValueCloner[V] {
	var zero V
	switch any(zero).(type) {
	case interface{ Clone() V }:
		return methodCloner(func(v V) V { return any(v).(interface{ Clone() V }).Clone() })
	case interface{ DeepCopy() V }:
		return methodCloner(func(v V) V { return any(v).(interface{ DeepCopy() V }).DeepCopy() })
	case []byte:
		return ValueClonerFunc[V](func(v V) V { return any(bytes.Clone(any(v).([]byte))).(V) })
	case []string:
		return ValueClonerFunc[V](func(v V) V { return any(slices.Clone(any(v).([]string))).(V) })
	case map[string]string:
		return ValueClonerFunc[V](func(v V) V { return any(maps.Clone(any(v).(map[string]string))).(V) })
	default:
		return NopValueCloner[V]{}
	}
}

// methodCloner skips nil values, whose methods would run on a nil receiver.
func methodCloner[V ValueConstraint](clone func(V) V) ValueCloner[V] {
	return ValueClonerFunc[V](func(v V) V {
		if isNilValue(v) {
			return v
		}
		return clone(v)
	})
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return reflect.ValueOf(v).IsNil()
	default:
		return false
	}
}
