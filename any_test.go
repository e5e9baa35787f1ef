package threadpool

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

type point struct{ X, Y int }

func TestCast(t *testing.T) {
	if v, err := Cast[int](NewAny(42)); err != nil || v != 42 {
		t.Fatalf("1. Expected 42, nil. Got %v, %v", v, err)
	}
	if v, err := Cast[point](NewAny(point{1, 2})); err != nil || v != (point{1, 2}) {
		t.Fatalf("2. Expected {1 2}, nil. Got %v, %v", v, err)
	}
	if v, err := Cast[error](NewAny[error](nil)); err != nil || v != nil {
		t.Fatalf("3. Expected stored nil error to cast back. Got %v, %v", v, err)
	}

	_, err := Cast[string](NewAny(42))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("4. Expected ErrTypeMismatch. Got %v", err)
	}
	if _, err := Cast[int64](NewAny(42)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("5. Expected no numeric conversion. Got %v", err)
	}
	if _, err := Cast[interface{}](NewAny(42)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("6. Expected interface{} to differ from int. Got %v", err)
	}
	if _, err := Cast[int](&Any{}); errors.Cause(err) != ErrEmptyValue {
		t.Fatalf("7. Expected ErrEmptyValue. Got %v", err)
	}
	if _, err := Cast[int](nil); errors.Cause(err) != ErrEmptyValue {
		t.Fatalf("8. Expected ErrEmptyValue for nil. Got %v", err)
	}
}

func TestAny_Take(t *testing.T) {
	a := NewAny("payload")
	if a.IsEmpty() || a.Type() != reflect.TypeOf("") {
		t.Fatalf("1. Expected string payload. Got %v", a.Type())
	}

	moved := a.Take()
	if !a.IsEmpty() {
		t.Fatalf("2. Expected source empty after Take")
	}
	if v, err := Cast[string](moved); err != nil || v != "payload" {
		t.Fatalf("3. Expected moved payload. Got %v, %v", v, err)
	}
	if _, err := Cast[string](a); errors.Cause(err) != ErrEmptyValue {
		t.Fatalf("4. Expected ErrEmptyValue from moved-from Any. Got %v", err)
	}
}
