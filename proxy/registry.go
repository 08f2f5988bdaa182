// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxy

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/pothosware/pothos-starlark/internal/logger"
)

// A Registry is an in-process Environment whose constructors are Go
// functions. It is safe for concurrent use.
type Registry struct {
	log *logger.Logger

	mu    sync.RWMutex
	ctors map[string]reflect.Value // kind=Func
}

var _ Environment = (*Registry)(nil)

// An Option configures a Registry.
type Option func(*Registry)

// WithLogger directs the registry's debug output to l.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		r.log = l.Named("proxy")
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:   logger.NewNop(),
		ctors: make(map[string]reflect.Value),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds fn as the constructor for name.
// fn must be a non-nil func; its parameters receive the constructor
// arguments after conversion, and a trailing error result, if any,
// reports construction failure.
func (r *Registry) Register(name string, fn interface{}) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("register %q: constructor must be a non-nil func, got %T", name, fn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ctors[name]; dup {
		return fmt.Errorf("register %q: already registered", name)
	}
	r.ctors[name] = v
	r.log.Debug("registered constructor", logger.String("name", name), logger.String("type", v.Type().String()))
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn interface{}) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// FindProxy returns the constructor registered under name,
// or a *NotFoundError.
func (r *Registry) FindProxy(name string) (Constructor, error) {
	r.mu.RLock()
	fn, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		r.log.Debug("proxy not found", logger.String("name", name))
		return nil, &NotFoundError{Name: name}
	}
	r.log.Debug("resolved proxy", logger.String("name", name))
	return funcConstructor{name, fn}, nil
}

// Names returns the sorted list of registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type funcConstructor struct {
	name string
	fn   reflect.Value
}

func (c funcConstructor) New(args ...interface{}) (interface{}, error) {
	return callFunc(c.name, c.fn, args)
}

func (c funcConstructor) String() string { return c.name }
