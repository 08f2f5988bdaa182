// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package label

import (
	"github.com/pothosware/pothos-starlark/proxy"
)

// A Handle is a label iterator of a proxy environment.
//
// At returns the element at a position and End the sentinel element
// marking exhaustion; Deref yields the value an element refers to.
// Any other operation is reachable by name through Call.
//
// Elements are opaque. They are matched against the sentinel with
// Equal, so a handle controls termination through the elements it
// returns: by implementing proxy.Comparer or an Equal method, or else
// by plain Go equality (identity for pointers).
type Handle interface {
	proxy.Handle
	At(index int) (interface{}, error)
	End() (interface{}, error)
	Deref(elem interface{}) (interface{}, error)
}

// A Range presents a Handle as a sequence. It borrows the handle;
// the caller remains responsible for its lifetime.
//
// A Range is not safe for concurrent use unless its handle is.
type Range struct {
	h Handle
}

func NewRange(h Handle) *Range {
	return &Range{h: h}
}

// Handle returns the wrapped handle.
func (r *Range) Handle() Handle { return r.h }

// Call forwards the named operation to the wrapped handle and returns
// its results unchanged.
func (r *Range) Call(name string, args ...interface{}) (interface{}, error) {
	return r.h.Call(name, args...)
}

func (r *Range) At(index int) (interface{}, error)           { return r.h.At(index) }
func (r *Range) End() (interface{}, error)                   { return r.h.End() }
func (r *Range) Deref(elem interface{}) (interface{}, error) { return r.h.Deref(elem) }

// Iterate returns a new iterator positioned before the first element.
func (r *Range) Iterate() *Iterator {
	return &Iterator{h: r.h}
}

// All returns the dereferenced values of one complete pass.
func (r *Range) All() ([]interface{}, error) {
	var values []interface{}
	it := r.Iterate()
	for it.Next() {
		values = append(values, it.Value())
	}
	return values, it.Err()
}

// Each calls fn on each value in order, stopping at the first error
// from fn or from the handle.
func (r *Range) Each(fn func(value interface{}) error) error {
	it := r.Iterate()
	for it.Next() {
		if err := fn(it.Value()); err != nil {
			return err
		}
	}
	return it.Err()
}

// An Iterator is a forward-only cursor over a Range.
//
// 	it := r.Iterate()
// 	for it.Next() {
// 		v := it.Value()
// 		...
// 	}
// 	if err := it.Err(); err != nil {
// 		...
// 	}
//
// There is no bound other than the sentinel: a handle whose End
// element never matches iterates forever.
type Iterator struct {
	h     Handle
	index int
	value interface{}
	err   error
	done  bool
}

// Next advances to the next value, reporting whether there is one.
// It returns false at the sentinel or on the first error.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	elem, err := it.h.At(it.index)
	if err != nil {
		return it.fail(err)
	}
	end, err := it.h.End()
	if err != nil {
		return it.fail(err)
	}
	atEnd, err := Equal(elem, end)
	if err != nil {
		return it.fail(err)
	}
	if atEnd {
		it.done = true
		it.value = nil
		return false
	}
	v, err := it.h.Deref(elem)
	if err != nil {
		return it.fail(err)
	}
	it.value = v
	it.index++
	return true
}

func (it *Iterator) fail(err error) bool {
	it.err = err
	it.done = true
	it.value = nil
	return false
}

// Value returns the value produced by the last successful Next.
func (it *Iterator) Value() interface{} { return it.value }

// Index returns the number of values produced so far.
func (it *Iterator) Index() int { return it.index }

// Err returns the error, if any, that ended iteration.
func (it *Iterator) Err() error { return it.err }
