// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package starlarklabel

import (
	"fmt"

	"github.com/pothosware/pothos-starlark/internal/logger"
	"github.com/pothosware/pothos-starlark/label"
	"go.starlark.net/starlark"
)

// Range is the Starlark value of a label.Range.
//
// A for loop over a Range starts a fresh pass over the handle. Because
// a Starlark iterator cannot report failure, a handle error simply ends
// such a loop; it is logged and passed to the module's StopHandler.
// labels() returns the same values as a list and fails with the
// handle's error instead.
//
// Any attribute other than labels is forwarded to the handle by name.
type Range struct {
	r    *label.Range
	opts *options
}

var (
	_ starlark.Iterable = (*Range)(nil)
	_ starlark.HasAttrs = (*Range)(nil)
)

func NewRange(r *label.Range) *Range { return &Range{r, defaultOptions} }

// Range returns the underlying label range.
func (r *Range) Range() *label.Range { return r.r }

func (r *Range) String() string        { return "<LabelIteratorRange>" }
func (r *Range) Type() string          { return "LabelIteratorRange" }
func (r *Range) Freeze()               {}
func (r *Range) Truth() starlark.Bool  { return starlark.True }
func (r *Range) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", r.Type()) }

func (r *Range) Iterate() starlark.Iterator {
	return &rangeIterator{it: r.r.Iterate(), opts: r.opts}
}

func (r *Range) Attr(name string) (starlark.Value, error) {
	if name == "labels" {
		return starlark.NewBuiltin("labels", rangeLabels).BindReceiver(r), nil
	}
	return forwarder(name, r.r), nil
}

func (r *Range) AttrNames() []string { return []string{"labels"} }

type rangeIterator struct {
	it      *label.Iterator
	opts    *options
	n       int
	stopped bool
}

func (it *rangeIterator) Next(p *starlark.Value) bool {
	if it.stopped {
		return false
	}
	if !it.it.Next() {
		it.stopped = true
		if err := it.it.Err(); err != nil {
			it.opts.log.Warn("loop over LabelIteratorRange ended by handle error", err, logger.Count(it.n))
			if it.opts.onStop != nil {
				it.opts.onStop(err, it.n)
			}
		}
		return false
	}
	it.n++
	*p = ToStarlark(it.it.Value())
	return true
}

func (it *rangeIterator) Done() {}

// labels() returns the values of one complete pass as a list.
func rangeLabels(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	var elems []starlark.Value
	err := b.Receiver().(*Range).r.Each(func(v interface{}) error {
		elems = append(elems, ToStarlark(v))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.NewList(elems), nil
}

// makeRange implements LabelIteratorRange(handle).
func (o *options) makeRange(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var h *Handle
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &h); err != nil {
		return nil, err
	}
	return &Range{label.NewRange(label.ProxyHandle(h.h)), o}, nil
}
