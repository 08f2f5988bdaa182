// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package label_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pothosware/pothos-starlark/label"
	"github.com/pothosware/pothos-starlark/proxy"
)

// store is a Go label buffer reached through proxy.Wrap.
type store struct {
	labels []label.Label
}

func (s *store) At(i int) int {
	if i > len(s.labels) {
		return len(s.labels)
	}
	return i
}

func (s *store) End() int                { return len(s.labels) }
func (s *store) Deref(i int) label.Label { return s.labels[i] }
func (s *store) Size() int               { return len(s.labels) }

func TestProxyHandleOverObject(t *testing.T) {
	s := &store{labels: []label.Label{
		label.New("sob", nil, 0),
		label.New("rxRate", 1e6, 128),
	}}
	r := label.NewRange(label.ProxyHandle(proxy.Wrap(s)))

	got, err := r.All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{s.labels[0], s.labels[1]}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	n, err := r.Call("size")
	if err != nil || n != 2 {
		t.Errorf(`Call("size") = %v, %v, want 2`, n, err)
	}
}

func TestProxyHandleElementHandles(t *testing.T) {
	// Elements are handles with their own deref; the sentinel is
	// recognized by identity.
	end := proxy.NewDispatcher()
	var elems []*proxy.Dispatcher
	for _, v := range []string{"x", "y"} {
		v := v
		elems = append(elems, proxy.NewDispatcher().Bind("deref", func(...interface{}) (interface{}, error) {
			return v, nil
		}))
	}
	iter := proxy.NewDispatcher().
		Bind("at", func(args ...interface{}) (interface{}, error) {
			if i := args[0].(int); i < len(elems) {
				return elems[i], nil
			}
			return end, nil
		}).
		Bind("end", func(...interface{}) (interface{}, error) { return end, nil })

	got, err := label.NewRange(label.ProxyHandle(iter)).All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{"x", "y"}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestProxyHandleKeepsTypedHandle(t *testing.T) {
	h := newSliceHandle("a")
	if label.ProxyHandle(h) != label.Handle(h) {
		t.Error("ProxyHandle wrapped a handle that already implements Handle")
	}
}
