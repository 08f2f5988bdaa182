// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package label

import (
	"github.com/pothosware/pothos-starlark/proxy"
)

// ProxyHandle adapts a dynamic handle into a Handle by calling its
// "at", "end" and "deref" operations by name.
//
// Elements that are themselves handles are dereferenced by calling
// their own "deref" operation; other elements are passed back to
// h's "deref".
func ProxyHandle(h proxy.Handle) Handle {
	if lh, ok := h.(Handle); ok {
		return lh
	}
	return dynamicHandle{h}
}

type dynamicHandle struct {
	proxy.Handle
}

func (h dynamicHandle) At(index int) (interface{}, error) {
	return h.Call("at", index)
}

func (h dynamicHandle) End() (interface{}, error) {
	return h.Call("end")
}

func (h dynamicHandle) Deref(elem interface{}) (interface{}, error) {
	if eh, ok := elem.(proxy.Handle); ok {
		return eh.Call("deref")
	}
	return h.Call("deref", elem)
}
