// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package label_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pothosware/pothos-starlark/label"
	"github.com/pothosware/pothos-starlark/proxy"
)

// sliceHandle is a label iterator over a slice. Elements are
// positions; the sentinel is the slice length.
type sliceHandle struct {
	values []interface{}
	ops    *proxy.Dispatcher

	failAt    int // At fails at this position when > 0
	failEnd   bool
	failDeref int // Deref fails at this position when > 0
}

var errHandle = errors.New("handle failure")

func newSliceHandle(values ...interface{}) *sliceHandle {
	h := &sliceHandle{values: values}
	h.ops = proxy.NewDispatcher().
		Bind("size", func(...interface{}) (interface{}, error) { return len(h.values), nil }).
		Bind("get", func(args ...interface{}) (interface{}, error) { return h.values[args[0].(int)], nil })
	return h
}

func (h *sliceHandle) Call(name string, args ...interface{}) (interface{}, error) {
	return h.ops.Call(name, args...)
}

func (h *sliceHandle) At(i int) (interface{}, error) {
	if h.failAt > 0 && i == h.failAt {
		return nil, errHandle
	}
	if i > len(h.values) {
		i = len(h.values)
	}
	return i, nil
}

func (h *sliceHandle) End() (interface{}, error) {
	if h.failEnd {
		return nil, errHandle
	}
	return len(h.values), nil
}

func (h *sliceHandle) Deref(elem interface{}) (interface{}, error) {
	i := elem.(int)
	if h.failDeref > 0 && i == h.failDeref {
		return nil, errHandle
	}
	return h.values[i], nil
}

func labels(n int) []interface{} {
	var values []interface{}
	for i := 0; i < n; i++ {
		values = append(values, label.New("L", i*i, uint64(i)))
	}
	return values
}

func TestRangeYieldsValuesInOrder(t *testing.T) {
	for n := 0; n < 5; n++ {
		want := labels(n)
		got, err := label.NewRange(newSliceHandle(want...)).All()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("n=%d: values mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestRangeEmpty(t *testing.T) {
	it := label.NewRange(newSliceHandle()).Iterate()
	if it.Next() {
		t.Fatalf("empty range yielded %v", it.Value())
	}
	if it.Err() != nil || it.Next() {
		t.Errorf("empty range: Err=%v, Next after end succeeded", it.Err())
	}
}

func TestRangeRestarts(t *testing.T) {
	r := label.NewRange(newSliceHandle(labels(3)...))
	first, err := r.All()
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}

	// Iterators own their cursors.
	a, b := r.Iterate(), r.Iterate()
	a.Next()
	a.Next()
	b.Next()
	if a.Index() != 2 || b.Index() != 1 {
		t.Errorf("interleaved cursors at %d and %d, want 2 and 1", a.Index(), b.Index())
	}
	if diff := cmp.Diff(first[0], b.Value()); diff != "" {
		t.Errorf("second iterator did not start at the beginning:\n%s", diff)
	}
}

func TestRangeForwarding(t *testing.T) {
	h := newSliceHandle("a", "b", "c")
	r := label.NewRange(h)
	for _, test := range []struct {
		name string
		args []interface{}
	}{
		{"size", nil},
		{"get", []interface{}{1}},
		{"missing", nil},
	} {
		got, gotErr := r.Call(test.name, test.args...)
		want, wantErr := h.Call(test.name, test.args...)
		if got != want || (gotErr == nil) != (wantErr == nil) {
			t.Errorf("Call(%q) = %v, %v; handle returned %v, %v", test.name, got, gotErr, want, wantErr)
		}
	}
	if _, err := r.Call("missing"); !errors.Is(err, proxy.ErrUnknownMethod) {
		t.Errorf("Call(missing) error %v does not wrap ErrUnknownMethod", err)
	}
	if r.Handle() != label.Handle(h) {
		t.Error("Handle() does not return the wrapped handle")
	}
}

func TestRangeErrorsAbortIteration(t *testing.T) {
	values := labels(4)
	for _, test := range []struct {
		desc  string
		setup func(*sliceHandle)
		want  int // values produced before the error
	}{
		{"at", func(h *sliceHandle) { h.failAt = 2 }, 2},
		{"end", func(h *sliceHandle) { h.failEnd = true }, 0},
		{"deref", func(h *sliceHandle) { h.failDeref = 3 }, 3},
	} {
		h := newSliceHandle(values...)
		test.setup(h)
		got, err := label.NewRange(h).All()
		if err != errHandle {
			t.Errorf("%s: error = %v, want handle error unchanged", test.desc, err)
		}
		if diff := cmp.Diff(values[:test.want], got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: values before error mismatch (-want +got):\n%s", test.desc, diff)
		}
	}
}

func TestRangeEach(t *testing.T) {
	r := label.NewRange(newSliceHandle(1, 2, 3, 4))
	stop := errors.New("stop")
	var seen []interface{}
	err := r.Each(func(v interface{}) error {
		seen = append(seen, v)
		if v == 2 {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("Each error = %v, want stop", err)
	}
	if diff := cmp.Diff([]interface{}{1, 2}, seen); diff != "" {
		t.Errorf("Each visited (-want +got):\n%s", diff)
	}
}

// cell is an element compared by identity.
type cell struct{ v string }

type cellHandle struct {
	cells []*cell
	end   *cell
}

func (h *cellHandle) Call(name string, args ...interface{}) (interface{}, error) {
	return nil, errors.New("no operations")
}

func (h *cellHandle) At(i int) (interface{}, error) {
	if i < len(h.cells) {
		return h.cells[i], nil
	}
	return h.end, nil
}

func (h *cellHandle) End() (interface{}, error)                   { return h.end, nil }
func (h *cellHandle) Deref(elem interface{}) (interface{}, error) { return elem.(*cell).v, nil }

func TestRangeIdentitySentinel(t *testing.T) {
	// A cell equal in value to the sentinel must not end iteration.
	h := &cellHandle{
		cells: []*cell{{"a"}, {""}, {"c"}},
		end:   &cell{""},
	}
	got, err := label.NewRange(h).All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{"a", "", "c"}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

// objectHandle yields proxy.Object elements wrapping *cell, as a
// foreign iterator whose positions are themselves proxies.
type objectHandle struct {
	cells []*cell
	end   *cell
}

func (h *objectHandle) Call(name string, args ...interface{}) (interface{}, error) {
	return nil, errors.New("no operations")
}

func (h *objectHandle) At(i int) (interface{}, error) {
	if i < len(h.cells) {
		return proxy.Wrap(h.cells[i]), nil
	}
	return proxy.Wrap(h.end), nil
}

func (h *objectHandle) End() (interface{}, error) { return proxy.Wrap(h.end), nil }

func (h *objectHandle) Deref(elem interface{}) (interface{}, error) {
	return elem.(*proxy.Object).Value().(*cell).v, nil
}

func TestRangeObjectElements(t *testing.T) {
	h := &objectHandle{
		cells: []*cell{{"a"}, {"b"}},
		end:   &cell{"a"},
	}
	got, err := label.NewRange(h).All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{"a", "b"}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

type caseless string

func (c caseless) Equal(other interface{}) bool {
	o, ok := other.(caseless)
	return ok && strings.EqualFold(string(c), string(o))
}

func TestEqual(t *testing.T) {
	shared := &cell{"x"}
	for _, test := range []struct {
		desc string
		x, y interface{}
		want bool
		err  error
	}{
		{"comparer equal", proxy.Wrap(3), proxy.Wrap(3), true, nil},
		{"comparer unequal", proxy.Wrap(3), proxy.Wrap(4), false, nil},
		{"comparer error", proxy.Wrap(3), proxy.Wrap("end"), false, proxy.ErrIncomparable},
		{"comparer bools", proxy.Wrap(true), proxy.Wrap(false), false, nil},
		{"comparer same pointer", proxy.Wrap(shared), proxy.Wrap(shared), true, nil},
		{"comparer distinct pointers", proxy.Wrap(shared), proxy.Wrap(&cell{"x"}), false, nil},
		{"comparer struct holding slice", proxy.Wrap(struct{ v interface{} }{[]int{1}}), proxy.Wrap(struct{ v interface{} }{[]int{1}}), false, proxy.ErrIncomparable},
		{"equal method", caseless("END"), caseless("end"), true, nil},
		{"same pointer", shared, shared, true, nil},
		{"distinct pointers", shared, &cell{"x"}, false, nil},
		{"ints", 5, 5, true, nil},
		{"different types", 5, "5", false, nil},
		{"nil", nil, nil, true, nil},
		{"nil and value", nil, 0, false, nil},
		{"slices", []int{1}, []int{1}, false, proxy.ErrIncomparable},
		{"struct holding slice", struct{ v interface{} }{[]int{1}}, struct{ v interface{} }{[]int{1}}, false, proxy.ErrIncomparable},
	} {
		got, err := label.Equal(test.x, test.y)
		if !errors.Is(err, test.err) || (test.err == nil) != (err == nil) {
			t.Errorf("%s: error = %v, want %v", test.desc, err, test.err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: Equal = %t, want %t", test.desc, got, test.want)
		}
	}
}
