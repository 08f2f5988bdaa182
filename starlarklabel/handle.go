// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package starlarklabel

import (
	"fmt"

	"github.com/pothosware/pothos-starlark/label"
	"github.com/pothosware/pothos-starlark/proxy"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// A Handle is the Starlark value of a proxy.Handle.
//
// Every attribute is a method forwarded to the handle by name, and
// calling the value itself forwards to its "()" operation. Two handles
// compare equal when their elements are equal in the sense of
// label.Equal.
type Handle struct {
	h proxy.Handle
}

var (
	_ starlark.HasAttrs   = (*Handle)(nil)
	_ starlark.Callable   = (*Handle)(nil)
	_ starlark.Comparable = (*Handle)(nil)
)

func NewHandle(h proxy.Handle) *Handle { return &Handle{h} }

// Handle returns the underlying proxy handle.
func (h *Handle) Handle() proxy.Handle { return h.h }

func (h *Handle) String() string {
	if s, ok := h.h.(fmt.Stringer); ok {
		return fmt.Sprintf("<Proxy %s>", s)
	}
	return fmt.Sprintf("<Proxy %T>", h.h)
}

func (h *Handle) Type() string          { return "Proxy" }
func (h *Handle) Freeze()               {} // the referent is not ours to freeze
func (h *Handle) Truth() starlark.Bool  { return starlark.True }
func (h *Handle) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", h.Type()) }
func (h *Handle) Name() string          { return "Proxy" }

func (h *Handle) Attr(name string) (starlark.Value, error) {
	return forwarder(name, h.h), nil
}

// AttrNames is empty: the set of operations of a handle is open.
func (h *Handle) AttrNames() []string { return nil }

func (h *Handle) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", h.Name())
	}
	v, err := h.h.Call("()", fromStarlarkArgs(args)...)
	if err != nil {
		return nil, err
	}
	return ToStarlark(v), nil
}

func (x *Handle) CompareSameType(op syntax.Token, y_ starlark.Value, depth int) (bool, error) {
	y := y_.(*Handle)
	switch op {
	case syntax.EQL, syntax.NEQ:
		eq, err := label.Equal(x.h, y.h)
		if err != nil {
			return false, err
		}
		return eq == (op == syntax.EQL), nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", x.Type(), op, y.Type())
	}
}

// forwarder returns a builtin that calls the named operation of h.
func forwarder(name string, h proxy.Handle) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		v, err := h.Call(name, fromStarlarkArgs(args)...)
		if err != nil {
			return nil, err
		}
		return ToStarlark(v), nil
	})
}

// An Environment is the Starlark value of a proxy.Environment.
// Its find_proxy(name) method returns a callable constructor.
type Environment struct {
	env proxy.Environment
}

var _ starlark.HasAttrs = (*Environment)(nil)

func NewEnvironment(env proxy.Environment) *Environment { return &Environment{env} }

func (e *Environment) String() string        { return "<ProxyEnvironment>" }
func (e *Environment) Type() string          { return "ProxyEnvironment" }
func (e *Environment) Freeze()               {}
func (e *Environment) Truth() starlark.Bool  { return starlark.True }
func (e *Environment) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", e.Type()) }

func (e *Environment) Attr(name string) (starlark.Value, error) {
	if name == "find_proxy" {
		return starlark.NewBuiltin("find_proxy", findProxy).BindReceiver(e), nil
	}
	return nil, nil
}

func (e *Environment) AttrNames() []string { return []string{"find_proxy"} }

func findProxy(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	ctor, err := b.Receiver().(*Environment).env.FindProxy(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return &Constructor{name: name, ctor: ctor}, nil
}

// A Constructor is the callable Starlark value of a proxy.Constructor.
type Constructor struct {
	name string
	ctor proxy.Constructor
}

var _ starlark.Callable = (*Constructor)(nil)

func (c *Constructor) String() string        { return fmt.Sprintf("<ProxyConstructor %s>", c.name) }
func (c *Constructor) Type() string          { return "ProxyConstructor" }
func (c *Constructor) Freeze()               {}
func (c *Constructor) Truth() starlark.Bool  { return starlark.True }
func (c *Constructor) Hash() (uint32, error) { return starlark.String(c.name).Hash() }
func (c *Constructor) Name() string          { return c.name }

func (c *Constructor) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", c.name)
	}
	v, err := c.ctor.New(fromStarlarkArgs(args)...)
	if err != nil {
		return nil, err
	}
	return ToStarlark(v), nil
}
