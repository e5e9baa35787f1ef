package threadpool

import (
	"reflect"

	"github.com/pkg/errors"
)

// noCopy may be embedded into structs which must not be copied
// after the first use. See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Any holds a single value of any type and remembers the static type it
// was created with. It is handled by pointer and moved with Take.
type Any struct {
	_ noCopy

	value interface{}
	typ   reflect.Type
}

// NewAny boxes v. The stored type is T, so NewAny[error](nil) can still be
// cast back to error.
func NewAny[T any](v T) *Any {
	return &Any{value: v, typ: reflect.TypeFor[T]()}
}

// IsEmpty reports whether a holds no value.
func (a *Any) IsEmpty() bool {
	return a == nil || a.typ == nil
}

// Type returns the stored type, or nil if a is empty.
func (a *Any) Type() reflect.Type {
	if a == nil {
		return nil
	}
	return a.typ
}

// Take moves the payload into a new Any and leaves a empty.
func (a *Any) Take() *Any {
	if a == nil {
		return &Any{}
	}
	moved := &Any{value: a.value, typ: a.typ}
	a.value, a.typ = nil, nil
	return moved
}

// Cast returns the value stored in a as T.
// The requested type must be exactly the stored type; no conversion or
// interface satisfaction is attempted.
func Cast[T any](a *Any) (T, error) {
	var zero T
	if a.IsEmpty() {
		return zero, ErrEmptyValue
	}

	want := reflect.TypeFor[T]()
	if a.typ != want {
		return zero, errors.Wrapf(ErrTypeMismatch, "stored %v, requested %v", a.typ, want)
	}
	if a.value == nil { // nil interface stored as an interface type
		return zero, nil
	}
	return a.value.(T), nil
}
