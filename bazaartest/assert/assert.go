// Package assert provides a minimal set of test assertions, kept separate
// from testify to avoid pulling a heavy dependency into extension tests.
package assert

import (
	"reflect"
	"testing"
)

// Nil fails the test if given value is not nil.
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if the two values are not equal.
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant: %+v\n got: %+v", want, got)
	}
}

// IsErr fails the test if the wanted error kind is not found in the error
// chain of got.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	w, ok := want.(interface{ Is(error) bool })
	if !ok {
		t.Fatalf("cannot match error kind %T", want)
	}
	if !w.Is(got) {
		t.Fatalf("want %q, got %+v", want, got)
	}
}
