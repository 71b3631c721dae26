package schema

import (
	"sync"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

type transformSchema struct {
	name   string
	inner  Schema
	input  func(Value) (Value, error)
	output func(Value) (Value, error)
}

// Transform wraps inner with value conversions: input maps a user value to
// what inner encodes and output maps a decoded value back. Either function
// can be nil. The wire format is the one of inner.
func Transform(name string, inner Schema, input, output func(Value) (Value, error)) Schema {
	if name == "" {
		name = inner.Name()
	}
	return &transformSchema{name: name, inner: inner, input: input, output: output}
}

func (s *transformSchema) Name() string { return s.name }

func (s *transformSchema) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	if s.input != nil {
		var err error
		if v, err = s.input(v); err != nil {
			w.SetError(err)
			return
		}
	}
	s.inner.Encode(w, v)
}

func (s *transformSchema) Decode(r *bcs.BinReader) Value {
	v := s.inner.Decode(r)
	if r.Err != nil {
		return nil
	}
	if s.output != nil {
		var err error
		if v, err = s.output(v); err != nil {
			r.SetError(err)
			return nil
		}
	}
	return v
}

type lazySchema struct {
	name    string
	once    sync.Once
	resolve func() Schema
	s       Schema
}

// Lazy defers building a schema until first use, which allows recursive
// layouts (a type tag containing vectors of type tags, for example). Every
// lazy schema is one nesting level, at most bcs.MaxDepth of them can be
// open at once.
func Lazy(name string, resolve func() Schema) Schema {
	return &lazySchema{name: name, resolve: resolve}
}

func (s *lazySchema) get() Schema {
	s.once.Do(func() { s.s = s.resolve() })
	return s.s
}

func (s *lazySchema) Name() string { return s.name }

func (s *lazySchema) Encode(w *bcs.BinWriter, v Value) {
	if !w.Enter() {
		return
	}
	s.get().Encode(w, v)
	w.Leave()
}

func (s *lazySchema) Decode(r *bcs.BinReader) Value {
	if !r.Enter() {
		return nil
	}
	v := s.get().Decode(r)
	r.Leave()
	return v
}
