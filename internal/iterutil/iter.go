package iterutil

import (
	"iter"
)

// Map returns a new iterator that applies the function to each value from the input iterator.
// The output iterator yields the results of the function calls.
func Map[V, R any](seq iter.Seq[V], f func(V) R) iter.Seq[R] {
	return iter.Seq[R](func(yield func(R) bool) {
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	})
}

// Once returns an iterator that yields the values of seq on its first use only.
// Any later range over the returned iterator yields nothing, even if the first one stopped early.
func Once[V any](seq iter.Seq[V]) iter.Seq[V] {
	used := false
	return iter.Seq[V](func(yield func(V) bool) {
		if used {
			return
		}
		used = true
		for v := range seq {
			if !yield(v) {
				return
			}
		}
	})
}
