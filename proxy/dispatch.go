// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxy

import (
	"fmt"
	"sort"
)

// A Method is an operation bound into a Dispatcher.
type Method func(args ...interface{}) (interface{}, error)

// A Dispatcher is a Handle backed by a table of named methods.
// Calls of names absent from the table fail with a *CallError
// wrapping ErrUnknownMethod.
type Dispatcher struct {
	methods map[string]Method
}

var _ Handle = (*Dispatcher)(nil)

func NewDispatcher() *Dispatcher {
	return &Dispatcher{methods: make(map[string]Method)}
}

// Bind adds or replaces the method called name and returns d.
func (d *Dispatcher) Bind(name string, m Method) *Dispatcher {
	d.methods[name] = m
	return d
}

func (d *Dispatcher) Call(name string, args ...interface{}) (interface{}, error) {
	m, ok := d.methods[name]
	if !ok {
		return nil, &CallError{name, fmt.Errorf("%w %q", ErrUnknownMethod, name)}
	}
	return m(args...)
}

// Names returns the sorted names of the bound methods.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
