package presence_test

import (
	"testing"

	"github.com/karupanerura/ttlmemcache/internal/presence"
)

type name string

type book struct {
	Title string
}

func TestIsMissing(t *testing.T) {
	t.Parallel()

	var (
		nilBook  *book
		nilMap   map[string]int
		nilSlice []int
		nilFunc  func()
		nilChan  chan int
		nilAny   any
		typedNil any = nilBook
	)

	for _, tt := range []struct {
		name string
		got  bool
		want bool
	}{
		{name: "empty string", got: presence.IsMissing(""), want: false},
		{name: "string", got: presence.IsMissing("a"), want: false},
		{name: "empty named string", got: presence.IsMissing(name("")), want: false},
		{name: "named string", got: presence.IsMissing(name("x")), want: false},
		{name: "zero int", got: presence.IsMissing(0), want: false},
		{name: "false", got: presence.IsMissing(false), want: false},
		{name: "zero struct", got: presence.IsMissing(book{}), want: false},
		{name: "nil pointer", got: presence.IsMissing(nilBook), want: true},
		{name: "pointer", got: presence.IsMissing(&book{}), want: false},
		{name: "nil map", got: presence.IsMissing(nilMap), want: true},
		{name: "empty map", got: presence.IsMissing(map[string]int{}), want: false},
		{name: "nil slice", got: presence.IsMissing(nilSlice), want: true},
		{name: "nil func", got: presence.IsMissing(nilFunc), want: true},
		{name: "nil chan", got: presence.IsMissing(nilChan), want: true},
		{name: "nil interface", got: presence.IsMissing(nilAny), want: true},
		{name: "interface holding typed nil", got: presence.IsMissing(typedNil), want: true},
		{name: "interface holding empty string", got: presence.IsMissing[any](""), want: false},
		{name: "interface holding nil slice", got: presence.IsMissing[any]([]int(nil)), want: true},
		{name: "interface holding number", got: presence.IsMissing[any](0.0), want: false},
		{name: "interface holding map", got: presence.IsMissing[any](map[string]any{"a": 1}), want: false},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.got != tt.want {
				t.Errorf("IsMissing = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestGetOrCreateChecker_Cached(t *testing.T) {
	t.Parallel()

	f1 := presence.GetOrCreateChecker[*book]()
	f2 := presence.GetOrCreateChecker[*book]()
	if f1(nil) != f2(nil) {
		t.Error("checkers for the same type disagree")
	}
	if !f1((*book)(nil)) {
		t.Error("expected nil *book to be missing")
	}
}
