// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proxy defines the contracts of a proxy environment: a
// registry of named constructors producing handles onto objects that
// live in some other runtime, and the handles themselves, which accept
// calls by method name.
//
// The package also provides an in-process environment, Registry, whose
// constructors are ordinary Go functions invoked by reflection, and
// Object, a Handle onto an arbitrary Go value. Together they let code
// written against these contracts run without a remote runtime.
//
// An application typically registers its constructors once:
//
// 	env := proxy.NewRegistry()
// 	env.MustRegister("Pothos/Label", func(id string, data interface{}, index uint64) label.Label {
// 		return label.New(id, data, index)
// 	})
//
// and then resolves them by name:
//
// 	ctor, err := env.FindProxy("Pothos/Label")
// 	...
// 	obj, err := ctor.New("id0", 42, uint64(7))
//
package proxy // import "github.com/pothosware/pothos-starlark/proxy"

import (
	"errors"
	"fmt"
)

// An Environment resolves proxy constructors by name.
type Environment interface {
	// FindProxy returns the constructor registered under name.
	// Implementations report an unknown name with an error
	// satisfying errors.Is(err, ErrNotFound).
	FindProxy(name string) (Constructor, error)
}

// A Constructor creates a new proxy object from its arguments.
type Constructor interface {
	New(args ...interface{}) (interface{}, error)
}

// ConstructorFunc adapts an ordinary function to the Constructor interface.
type ConstructorFunc func(args ...interface{}) (interface{}, error)

func (f ConstructorFunc) New(args ...interface{}) (interface{}, error) { return f(args...) }

// A Handle is a reference to an object that accepts calls by name.
type Handle interface {
	Call(name string, args ...interface{}) (interface{}, error)
}

// A Comparer defines a three-way ordering against another value.
// CompareTo returns 0 when the receiver and other denote the same object.
type Comparer interface {
	CompareTo(other interface{}) (int, error)
}

var (
	ErrNotFound      = errors.New("proxy not found")
	ErrNoAttribute   = errors.New("no such attribute")
	ErrUnknownMethod = errors.New("unknown method")
	ErrIncomparable  = errors.New("values are not comparable")
)

// NotFoundError reports a FindProxy lookup of an unregistered name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("proxy %q not found", e.Name) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CallError reports a failed call through a Handle or Constructor.
type CallError struct {
	Name string // method or constructor name
	Err  error
}

func (e *CallError) Error() string { return fmt.Sprintf("call(%s): %v", e.Name, e.Err) }

func (e *CallError) Unwrap() error { return e.Err }
