// Package panicutil isolates callbacks from each other, so that one panicking
// callback cannot stop the rest of a notification round.
package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Call runs f and returns the panic raised by it, if any, as *panics.ErrRecovered.
func Call(f func()) error {
	var pc panics.Catcher
	pc.Try(f)
	return pc.Recovered().AsError()
}

// Each calls f with every item in order.
// A panic raised for one item is passed to onPanic and the remaining items are still called.
// It returns the number of recovered panics.
func Each[T any](items []T, f func(T), onPanic func(error)) int {
	n := 0
	for _, item := range items {
		if err := Call(func() { f(item) }); err != nil {
			n++
			if onPanic != nil {
				onPanic(err)
			}
		}
	}
	return n
}
