// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package starlarklabel

// This file defines the Go/Starlark value conversions used at the
// boundary between scripts and the proxy environment.

import (
	"math"
	"reflect"

	"github.com/pothosware/pothos-starlark/label"
	"github.com/pothosware/pothos-starlark/proxy"
	"go.starlark.net/starlark"
)

// ToStarlark converts a Go value returned by the proxy environment
// into a Starlark value.
//
// Basic values map to their Starlark counterparts, slices and arrays
// to lists, maps to dicts, labels and ranges to their Starlark
// wrappers and handles to Proxy values. Any other Go value is wrapped
// as a Proxy onto a proxy.Object.
func ToStarlark(x interface{}) starlark.Value {
	switch x := x.(type) {
	case nil:
		return starlark.None
	case starlark.Value:
		return x
	case bool:
		return starlark.Bool(x)
	case string:
		return starlark.String(x)
	case []byte:
		return starlark.Bytes(x)
	case label.Label:
		return NewLabel(x)
	case *label.Range:
		return NewRange(x)
	case proxy.Handle:
		return NewHandle(x)
	case []interface{}:
		elems := make([]starlark.Value, len(x))
		for i, e := range x {
			elems[i] = ToStarlark(e)
		}
		return starlark.NewList(elems)
	}
	return toStarlark(reflect.ValueOf(x))
}

func toStarlark(v reflect.Value) starlark.Value {
	switch v.Kind() {
	case reflect.Bool:
		return starlark.Bool(v.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return starlark.MakeUint64(v.Uint())

	case reflect.Float32, reflect.Float64:
		return starlark.Float(v.Float())

	case reflect.String:
		return starlark.String(v.String())

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return starlark.None
		}
		elems := make([]starlark.Value, v.Len())
		for i := range elems {
			elems[i] = ToStarlark(v.Index(i).Interface())
		}
		return starlark.NewList(elems)

	case reflect.Map:
		if v.IsNil() {
			return starlark.None
		}
		dict := starlark.NewDict(v.Len())
		iter := v.MapRange()
		for iter.Next() {
			// Keys of Go maps are comparable, and their Starlark
			// conversions are hashable except for Proxy-wrapped keys.
			if err := dict.SetKey(ToStarlark(iter.Key().Interface()), ToStarlark(iter.Value().Interface())); err != nil {
				return NewHandle(proxy.Wrap(v.Interface()))
			}
		}
		return dict
	}
	return NewHandle(proxy.Wrap(v.Interface()))
}

// FromStarlark converts a Starlark value into a Go value suitable as an
// argument to the proxy environment. It is the inverse of ToStarlark
// for the types ToStarlark produces.
func FromStarlark(v starlark.Value) interface{} {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			if i >= math.MinInt && i <= math.MaxInt {
				return int(i)
			}
			return i
		}
		if u, ok := v.Uint64(); ok {
			return u
		}
		return v.BigInt()
	case starlark.Float:
		return float64(v)
	case starlark.String:
		return string(v)
	case starlark.Bytes:
		return []byte(v)
	case *Label:
		return v.l
	case *Range:
		return v.r
	case *Handle:
		if o, ok := v.h.(*proxy.Object); ok {
			return o.Value()
		}
		return v.h
	case *starlark.List:
		elems := make([]interface{}, v.Len())
		for i := range elems {
			elems[i] = FromStarlark(v.Index(i))
		}
		return elems
	case starlark.Tuple:
		elems := make([]interface{}, len(v))
		for i, e := range v {
			elems[i] = FromStarlark(e)
		}
		return elems
	case *starlark.Dict:
		m := make(map[string]interface{}, v.Len())
		for _, item := range v.Items() {
			k, ok := starlark.AsString(item[0])
			if !ok {
				k = item[0].String()
			}
			m[k] = FromStarlark(item[1])
		}
		return m
	}
	return v
}

func fromStarlarkArgs(args starlark.Tuple) []interface{} {
	xs := make([]interface{}, len(args))
	for i, a := range args {
		xs[i] = FromStarlark(a)
	}
	return xs
}
