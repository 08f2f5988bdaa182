// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package label defines Label, a position-tagged annotation on a
// sample stream, and Range, which presents a label iterator handle of
// a proxy environment as a restartable sequence of labels.
package label // import "github.com/pothosware/pothos-starlark/label"

import (
	"fmt"

	"github.com/pothosware/pothos-starlark/proxy"
)

// ProxyName is the environment key of the label proxy type.
const ProxyName = "Pothos/Label"

// A Label annotates the stream element at Index with an identifier and
// an arbitrary payload. Labels are values; callers should treat them as
// immutable once constructed.
type Label struct {
	ID    interface{}
	Data  interface{}
	Index uint64
}

// New returns a Label holding exactly the given values.
func New(id, data interface{}, index uint64) Label {
	return Label{ID: id, Data: data, Index: index}
}

// ToProxy converts l into the environment's label proxy by calling the
// constructor registered as ProxyName with (ID, Data, Index).
// Errors from the environment are returned unchanged.
func (l Label) ToProxy(env proxy.Environment) (interface{}, error) {
	ctor, err := env.FindProxy(ProxyName)
	if err != nil {
		return nil, err
	}
	return ctor.New(l.ID, l.Data, l.Index)
}

func (l Label) String() string {
	return fmt.Sprintf("Label(%v, %v, %d)", l.ID, l.Data, l.Index)
}
