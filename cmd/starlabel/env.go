// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pothosware/pothos-starlark/internal/logger"
	"github.com/pothosware/pothos-starlark/label"
	"github.com/pothosware/pothos-starlark/proxy"
)

// LabelBufferName is the proxy name of the in-memory label iterator.
const LabelBufferName = "Pothos/LabelBuffer"

// newEnvironment returns the proxy environment scripts run against.
func newEnvironment(log *logger.Logger) *proxy.Registry {
	env := proxy.NewRegistry(proxy.WithLogger(log))
	env.MustRegister(label.ProxyName, func(id, data interface{}, index uint64) label.Label {
		return label.New(id, data, index)
	})
	env.MustRegister(LabelBufferName, newLabelBuffer)
	return env
}

// A labelBuffer is an in-memory label iterator. Positions are
// elements; the sentinel is the number of labels.
type labelBuffer struct {
	labels []label.Label
}

// newLabelBuffer accepts a list of labels.
func newLabelBuffer(items []interface{}) (*labelBuffer, error) {
	b := new(labelBuffer)
	for _, x := range items {
		if err := b.Push(x); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *labelBuffer) At(i int) int {
	if i < 0 || i > len(b.labels) {
		return len(b.labels)
	}
	return i
}

func (b *labelBuffer) End() int                { return len(b.labels) }
func (b *labelBuffer) Deref(i int) label.Label { return b.labels[i] }
func (b *labelBuffer) Size() int               { return len(b.labels) }
func (b *labelBuffer) Clear()                  { b.labels = b.labels[:0] }

func (b *labelBuffer) Push(x interface{}) error {
	l, ok := x.(label.Label)
	if !ok {
		return fmt.Errorf("push: got %T, want Label", x)
	}
	b.labels = append(b.labels, l)
	return nil
}

func (b *labelBuffer) String() string { return fmt.Sprintf("LabelBuffer(%d labels)", len(b.labels)) }
