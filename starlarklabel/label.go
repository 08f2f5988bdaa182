// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package starlarklabel exposes labels, label iterator ranges and proxy
// environments to Starlark programs.
//
// An application can add the labels module to the Starlark environment
// like so:
//
// 	globals := starlark.StringDict{
// 		"labels": starlarklabel.NewModule(env),
// 	}
//
// after which a script may write:
//
// 	l = labels.Label("sob", None, 0)
// 	p = l.to_proxy(labels.env)
// 	for x in labels.LabelIteratorRange(handle):
// 		print(x.index, x.data)
//
package starlarklabel // import "github.com/pothosware/pothos-starlark/starlarklabel"

import (
	"fmt"

	"github.com/pothosware/pothos-starlark/label"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Label is the Starlark value of a label.Label.
// Its attributes are read-only.
type Label struct {
	l label.Label
}

var (
	_ starlark.HasAttrs   = (*Label)(nil)
	_ starlark.Comparable = (*Label)(nil)
)

func NewLabel(l label.Label) *Label { return &Label{l} }

// Label returns the underlying label.
func (l *Label) Label() label.Label { return l.l }

func (l *Label) String() string {
	return fmt.Sprintf("Label(%s, %s, %d)", ToStarlark(l.l.ID), ToStarlark(l.l.Data), l.l.Index)
}

func (l *Label) Type() string         { return "Label" }
func (l *Label) Freeze()              {} // immutable
func (l *Label) Truth() starlark.Bool { return starlark.True }

func (l *Label) Hash() (uint32, error) {
	// Same scheme as starlarkstruct.Struct, over the three fields.
	var x, m uint32 = 8731, 9839
	for _, v := range []starlark.Value{ToStarlark(l.l.ID), ToStarlark(l.l.Data), starlark.MakeUint64(l.l.Index)} {
		y, err := v.Hash()
		if err != nil {
			return 0, err
		}
		x = x ^ y*m
		m += 7349
	}
	return x, nil
}

func (l *Label) Attr(name string) (starlark.Value, error) {
	switch name {
	case "id":
		return ToStarlark(l.l.ID), nil
	case "data":
		return ToStarlark(l.l.Data), nil
	case "index":
		return starlark.MakeUint64(l.l.Index), nil
	case "to_proxy":
		return starlark.NewBuiltin("to_proxy", labelToProxy).BindReceiver(l), nil
	}
	return nil, nil // no such method
}

var labelAttrNames = []string{"data", "id", "index", "to_proxy"}

func (l *Label) AttrNames() []string { return append([]string(nil), labelAttrNames...) }

func (x *Label) CompareSameType(op syntax.Token, y_ starlark.Value, depth int) (bool, error) {
	y := y_.(*Label)
	switch op {
	case syntax.EQL:
		return labelsEqual(x, y, depth)
	case syntax.NEQ:
		eq, err := labelsEqual(x, y, depth)
		return !eq, err
	default:
		return false, fmt.Errorf("%s %s %s not implemented", x.Type(), op, y.Type())
	}
}

func labelsEqual(x, y *Label, depth int) (bool, error) {
	if x.l.Index != y.l.Index {
		return false, nil
	}
	if eq, err := starlark.EqualDepth(ToStarlark(x.l.ID), ToStarlark(y.l.ID), depth-1); err != nil || !eq {
		return false, err
	}
	return starlark.EqualDepth(ToStarlark(x.l.Data), ToStarlark(y.l.Data), depth-1)
}

// to_proxy(env) converts the label using the proxy environment env.
func labelToProxy(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var env *Environment
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &env); err != nil {
		return nil, err
	}
	p, err := b.Receiver().(*Label).l.ToProxy(env.env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return ToStarlark(p), nil
}

// makeLabel implements Label(id, data, index).
func makeLabel(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		id, data starlark.Value
		index    starlark.Int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id, "data", &data, "index", &index); err != nil {
		return nil, err
	}
	i, ok := index.Uint64()
	if !ok {
		return nil, fmt.Errorf("%s: index %s out of range, want non-negative 64-bit integer", b.Name(), index)
	}
	return NewLabel(label.New(FromStarlark(id), FromStarlark(data), i)), nil
}
