// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxy

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// An Object is a Handle onto a Go value.
//
// Call resolves names as follows:
//
// 	"get:F"  with no arguments returns exported field F;
// 	"set:F"  with one argument assigns exported field F (pointer to struct only);
// 	""       with no arguments returns the wrapped value;
// 	"()"     calls the wrapped value, which must be a func;
// 	M        calls exported method M, or returns exported field M
// 	         when called with no arguments.
//
// A lower-case M also finds the exported member of the same name,
// so "deref" reaches a Deref method.
//
// Any other name fails with a *CallError wrapping ErrNoAttribute.
type Object struct {
	v reflect.Value
}

var (
	_ Handle   = (*Object)(nil)
	_ Comparer = (*Object)(nil)
)

// Wrap returns a Handle onto x.
func Wrap(x interface{}) *Object {
	return &Object{reflect.ValueOf(x)}
}

// Value returns the wrapped Go value.
func (o *Object) Value() interface{} {
	if !o.v.IsValid() {
		return nil
	}
	return o.v.Interface()
}

func (o *Object) String() string {
	if !o.v.IsValid() {
		return "Object(nil)"
	}
	return fmt.Sprintf("Object(%v)", o.v.Interface())
}

func (o *Object) Call(name string, args ...interface{}) (interface{}, error) {
	if !o.v.IsValid() {
		return nil, &CallError{name, fmt.Errorf("cannot call on a nil object")}
	}

	if colon := strings.IndexByte(name, ':'); colon >= 0 {
		return o.access(name, name[:colon], name[colon+1:], args)
	}

	switch name {
	case "":
		if len(args) != 0 {
			return nil, &CallError{name, fmt.Errorf("got %d arguments, want 0", len(args))}
		}
		return o.v.Interface(), nil
	case "()":
		return callFunc(name, o.v, args)
	}

	exported := exportedName(name)
	if m := o.v.MethodByName(exported); m.IsValid() {
		return callFunc(name, m, args)
	}
	if f, ok := o.field(exported); ok {
		if len(args) != 0 {
			return nil, &CallError{name, fmt.Errorf("cannot call field %s of %s", name, o.v.Type())}
		}
		return f.Interface(), nil
	}
	return nil, &CallError{name, fmt.Errorf("%w on %s", ErrNoAttribute, o.v.Type())}
}

// access implements the "get:F" and "set:F" accessors.
func (o *Object) access(name, op, field string, args []interface{}) (interface{}, error) {
	switch {
	case op == "get" && len(args) == 0:
		f, ok := o.field(field)
		if !ok {
			return nil, &CallError{name, fmt.Errorf("%w %s on %s", ErrNoAttribute, field, o.v.Type())}
		}
		return f.Interface(), nil

	case op == "set" && len(args) == 1:
		if o.v.Kind() != reflect.Ptr {
			return nil, &CallError{name, fmt.Errorf("cannot set field of non-pointer %s", o.v.Type())}
		}
		f, ok := o.field(field)
		if !ok {
			return nil, &CallError{name, fmt.Errorf("%w %s on %s", ErrNoAttribute, field, o.v.Type())}
		}
		x, err := toGo(args[0], f.Type())
		if err != nil {
			return nil, &CallError{name, err}
		}
		f.Set(x)
		return nil, nil
	}
	return nil, &CallError{name, fmt.Errorf("unknown operation")}
}

// exportedName upper-cases the first letter of name.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if !unicode.IsLower(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// field returns the exported struct field of the (possibly
// pointer-indirected) wrapped value.
func (o *Object) field(name string) (reflect.Value, bool) {
	v := o.v
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	sf, ok := v.Type().FieldByName(name)
	if !ok || sf.PkgPath != "" {
		return reflect.Value{}, false
	}
	return v.FieldByIndex(sf.Index), true
}

// CompareTo orders o against other, which may be another *Object or a
// plain Go value. Numbers and strings are ordered. Other values of
// identical comparable type compare 0 when == and +1 otherwise; they
// are not ordered.
func (o *Object) CompareTo(other interface{}) (int, error) {
	y := reflect.ValueOf(other)
	if oo, ok := other.(*Object); ok {
		y = oo.v
	}
	return compareValues(o.v, y)
}

func compareValues(x, y reflect.Value) (int, error) {
	if !x.IsValid() || !y.IsValid() {
		if x.IsValid() == y.IsValid() {
			return 0, nil
		}
		return 0, ErrIncomparable
	}

	xk, yk := x.Kind(), y.Kind()
	switch {
	case isSigned(xk) && isSigned(yk):
		return threeway(x.Int() < y.Int(), x.Int() > y.Int()), nil
	case isUnsigned(xk) && isUnsigned(yk):
		return threeway(x.Uint() < y.Uint(), x.Uint() > y.Uint()), nil
	case isNumber(xk) && isNumber(yk):
		xf, yf := toFloat(x), toFloat(y)
		return threeway(xf < yf, xf > yf), nil
	case xk == reflect.String && yk == reflect.String:
		return strings.Compare(x.String(), y.String()), nil
	}

	if x.Type() == y.Type() && x.Type().Comparable() && x.CanInterface() && y.CanInterface() {
		if eq, ok := equalInterfaces(x.Interface(), y.Interface()); ok {
			if eq {
				return 0, nil
			}
			return +1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s and %s", ErrIncomparable, x.Type(), y.Type())
}

// equalInterfaces reports x == y. ok is false if the comparison
// panicked, as it does for comparable struct or array types whose
// interface fields hold uncomparable values.
func equalInterfaces(x, y interface{}) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return x == y, true
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isSigned(v.Kind()):
		return float64(v.Int())
	case isUnsigned(v.Kind()):
		return float64(v.Uint())
	}
	return v.Float()
}

func threeway(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return +1
	}
	return 0
}
