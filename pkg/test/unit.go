package test

import (
	"fmt"
	"reflect"
)

// Unit is a test object bound to one method and the shared session. It is
// the terminal artifact of discovery; discovery keeps no reference to it.
type Unit struct {
	ID       string
	Context  *Context
	Instance Runnable
	Method   string
}

// String implements fmt.Stringer.
func (u *Unit) String() string {
	return u.ID
}

// Func resolves the method to invoke on the instance. Methods may take no
// arguments and return either nothing or an error.
func (u *Unit) Func() (func() error, error) {
	method := reflect.ValueOf(u.Instance).MethodByName(u.Method)
	if !method.IsValid() {
		return nil, fmt.Errorf("%s: no exported method %q on %T", u.ID, u.Method, u.Instance)
	}

	switch fn := method.Interface().(type) {
	case func():
		return func() error {
			fn()
			return nil
		}, nil
	case func() error:
		return fn, nil
	default:
		return nil, fmt.Errorf("%s: method %q has unsupported signature %s", u.ID, u.Method, method.Type())
	}
}
