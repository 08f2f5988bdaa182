// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package starlarklabel

import (
	"github.com/pothosware/pothos-starlark/internal/logger"
	"github.com/pothosware/pothos-starlark/proxy"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// A StopHandler is told of a handle error that ended a for loop over a
// LabelIteratorRange after n values. The loop itself cannot fail.
type StopHandler func(err error, n int)

type options struct {
	log    *logger.Logger
	onStop StopHandler
}

var defaultOptions = &options{log: logger.NewNop()}

// An Option configures the labels module.
type Option func(*options)

// WithLogger logs loops ended by handle errors at warn level.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l.Named("labels")
	}
}

// WithStopHandler calls fn for each loop ended by a handle error.
func WithStopHandler(fn StopHandler) Option {
	return func(o *options) {
		o.onStop = fn
	}
}

// NewModule returns the labels module bound to env:
//
// 	labels.Label(id, data, index)        a new label
// 	labels.LabelIteratorRange(handle)    a range over a label iterator handle
// 	labels.env                           the proxy environment
func NewModule(env proxy.Environment, opts ...Option) *starlarkstruct.Module {
	o := &options{log: logger.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return &starlarkstruct.Module{
		Name: "labels",
		Members: starlark.StringDict{
			"Label":              starlark.NewBuiltin("Label", makeLabel),
			"LabelIteratorRange": starlark.NewBuiltin("LabelIteratorRange", o.makeRange),
			"env":                NewEnvironment(env),
		},
	}
}
