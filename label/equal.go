// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package label

import (
	"fmt"
	"reflect"

	"github.com/pothosware/pothos-starlark/proxy"
)

// An IncomparableError reports an element whose type does not define
// equality.
type IncomparableError struct {
	X, Y interface{}
}

func (e *IncomparableError) Error() string {
	return fmt.Sprintf("cannot compare elements of type %T and %T", e.X, e.Y)
}

func (e *IncomparableError) Is(target error) bool { return target == proxy.ErrIncomparable }

// Equal reports whether element x denotes the same position as y,
// using the equality x defines:
//
//   - CompareTo(y) == 0, if x is a proxy.Comparer;
//   - x.Equal(y), if x has such a method;
//   - x == y otherwise, which is identity for pointers.
//
// Elements of an uncomparable type yield an *IncomparableError.
func Equal(x, y interface{}) (bool, error) {
	switch x := x.(type) {
	case proxy.Comparer:
		c, err := x.CompareTo(y)
		if err != nil {
			return false, err
		}
		return c == 0, nil
	case interface{ Equal(interface{}) bool }:
		return x.Equal(y), nil
	}
	return identical(x, y)
}

func identical(x, y interface{}) (eq bool, err error) {
	if x == nil || y == nil {
		return x == nil && y == nil, nil
	}
	tx, ty := reflect.TypeOf(x), reflect.TypeOf(y)
	if tx != ty {
		return false, nil
	}
	if !tx.Comparable() {
		return false, &IncomparableError{x, y}
	}
	// Comparable struct and array types may still hold
	// uncomparable values in interface fields.
	defer func() {
		if recover() != nil {
			eq, err = false, &IncomparableError{x, y}
		}
	}()
	return x == y, nil
}
