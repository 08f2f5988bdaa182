// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxy

// This file defines reflective calls of Go functions with dynamically
// typed arguments.

import (
	"fmt"
	"math"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// callFunc calls the Go function fn with args, converting each argument
// to the corresponding parameter type.
//
// A trailing result of type error becomes the error of the call.
// Of the remaining results, none yields nil, one yields its value,
// and more yield a []interface{}.
func callFunc(name string, fn reflect.Value, args []interface{}) (_ interface{}, err error) {
	if fn.Kind() != reflect.Func {
		return nil, &CallError{name, fmt.Errorf("%s is not a function", fn.Type())}
	}
	if fn.IsNil() {
		return nil, &CallError{name, fmt.Errorf("call of nil function")}
	}

	ft := fn.Type()
	arity := ft.NumIn()
	variadic := ft.IsVariadic()
	if variadic {
		if len(args) < arity-1 {
			return nil, &CallError{name, fmt.Errorf("got %d arguments, want at least %d", len(args), arity-1)}
		}
	} else if len(args) != arity {
		return nil, &CallError{name, fmt.Errorf("got %d arguments, want %d", len(args), arity)}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var t reflect.Type
		if variadic && i >= arity-1 {
			t = ft.In(arity - 1).Elem()
		} else {
			t = ft.In(i)
		}
		x, err := toGo(arg, t)
		if err != nil {
			return nil, &CallError{name, fmt.Errorf("in argument %d, %v", i+1, err)}
		}
		in[i] = x
	}

	var out []reflect.Value
	if err := protect(name, func() { out = fn.Call(in) }); err != nil {
		return nil, err
	}

	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		results := make([]interface{}, len(out))
		for i, v := range out {
			results[i] = v.Interface()
		}
		return results, nil
	}
}

// protect invokes f, converting a panic into a *CallError.
func protect(name string, f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = &CallError{name, fmt.Errorf("panic: %w", e)}
			} else {
				err = &CallError{name, fmt.Errorf("panic: %v", r)}
			}
		}
	}()
	f()
	return nil
}

// toGo converts x to a value of type t.
//
// Assignable values pass through. Numbers convert between numeric
// kinds when the value is representable in t, strings between string
// kinds. nil becomes the zero value of nillable types.
func toGo(x interface{}, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", t)
	}

	v := reflect.ValueOf(x)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	switch {
	case isNumber(v.Kind()) && isNumber(t.Kind()):
		return convertNumber(v, t)
	case v.Kind() == reflect.String && t.Kind() == reflect.String:
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), t)
}

// convertNumber converts the number v to numeric type t, rejecting
// values that t cannot represent exactly. Floats convert to integer
// kinds only when integral.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	z := reflect.Zero(t)
	overflow := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%v overflows %s", v, t)
	}
	negative := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("cannot use negative %s %v as %s", v.Type(), v, t)
	}

	switch vk, tk := v.Kind(), t.Kind(); {
	case isFloat(vk) && isFloat(tk):
		if f := v.Float(); !math.IsInf(f, 0) && !math.IsNaN(f) && z.OverflowFloat(f) {
			return overflow()
		}

	case isFloat(vk):
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return reflect.Value{}, fmt.Errorf("cannot use non-integral %s %v as %s", v.Type(), v, t)
		}
		if isUnsigned(tk) {
			if f < 0 {
				return negative()
			}
			if f >= 1<<64 || z.OverflowUint(uint64(f)) {
				return overflow()
			}
		} else if f < -(1<<63) || f >= 1<<63 || z.OverflowInt(int64(f)) {
			return overflow()
		}

	case isFloat(tk):
		// Every integer is within range of float32 and float64.

	case isSigned(vk) && isUnsigned(tk):
		if v.Int() < 0 {
			return negative()
		}
		if z.OverflowUint(uint64(v.Int())) {
			return overflow()
		}

	case isSigned(vk):
		if z.OverflowInt(v.Int()) {
			return overflow()
		}

	case isUnsigned(tk):
		if z.OverflowUint(v.Uint()) {
			return overflow()
		}

	default:
		if u := v.Uint(); u > math.MaxInt64 || z.OverflowInt(int64(u)) {
			return overflow()
		}
	}
	return v.Convert(t), nil
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k) || isFloat(k)
}
