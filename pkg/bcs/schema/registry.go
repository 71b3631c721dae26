package schema

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

// Registry is a named collection of schemas and generics. It is safe for
// concurrent use.
type Registry struct {
	lock     sync.RWMutex
	schemas  map[string]Schema
	generics map[string]*Generic
}

// NewRegistry returns a registry with primitives and the vector and Option
// generics preloaded.
func NewRegistry() *Registry {
	r := &Registry{
		schemas:  make(map[string]Schema),
		generics: make(map[string]*Generic),
	}
	for _, s := range []Schema{Bool, U8, U16, U32, U64, U128, U256, ULEB128, String, Unit} {
		r.schemas[s.Name()] = s
	}
	r.generics["vector"] = NewGeneric("vector", 1, func(p []Schema) (Schema, error) {
		return Vector(p[0]), nil
	})
	r.generics["Option"] = NewGeneric("Option", 1, func(p []Schema) (Schema, error) {
		return Option(p[0]), nil
	})
	return r
}

// Register adds s under its name.
func (r *Registry) Register(s Schema) error {
	return r.RegisterAs(s.Name(), s)
}

// RegisterAs adds s under the given name.
func (r *Registry) RegisterAs(name string, s Schema) error {
	if name == "" {
		return ErrEmptyName
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.schemas[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, name)
	}
	if _, ok := r.generics[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, name)
	}
	r.schemas[name] = s
	return nil
}

// registerAll adds all schemas at once, leaving the registry untouched if any
// name is taken.
func (r *Registry) registerAll(names []string, schemas []Schema) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, name := range names {
		if name == "" {
			return ErrEmptyName
		}
		if _, ok := r.schemas[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSchema, name)
		}
		if _, ok := r.generics[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSchema, name)
		}
	}
	for i, name := range names {
		r.schemas[name] = schemas[i]
	}
	return nil
}

// RegisterGeneric adds a parametric schema.
func (r *Registry) RegisterGeneric(g *Generic) error {
	if g.Name() == "" {
		return ErrEmptyName
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.schemas[g.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, g.Name())
	}
	if _, ok := r.generics[g.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, g.Name())
	}
	r.generics[g.Name()] = g
	return nil
}

// Lookup returns the schema for a name or a type expression such as
// "vector<Option<u64>>" or "[u8; 32]".
func (r *Registry) Lookup(name string) (Schema, error) {
	r.lock.RLock()
	s, ok := r.schemas[name]
	r.lock.RUnlock()
	if ok {
		return s, nil
	}
	return r.Resolve(name)
}

// MustLookup is like Lookup, but panics on error.
func (r *Registry) MustLookup(name string) Schema {
	s, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Ref returns a reference resolved on first use, so schemas can refer to
// names registered later (or to themselves).
func (r *Registry) Ref(name string) Schema {
	return Lazy(name, func() Schema {
		s, err := r.Lookup(name)
		if err != nil {
			return &brokenSchema{name: name, err: err}
		}
		return s
	})
}

// Encode serializes v with the named schema.
func (r *Registry) Encode(name string, v Value) ([]byte, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Encode(s, v)
}

// Decode deserializes data with the named schema.
func (r *Registry) Decode(name string, data []byte) (Value, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Decode(s, data)
}

// Names returns sorted names of registered schemas and generics.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	res := make([]string, 0, len(r.schemas)+len(r.generics))
	for n := range r.schemas {
		res = append(res, n)
	}
	for n := range r.generics {
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}

// Resolve parses a type expression and builds the schema it names.
func (r *Registry) Resolve(expr string) (Schema, error) {
	p := &exprParser{reg: r, src: expr}
	s, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("type expression %q: unexpected %q", expr, p.src[p.pos:])
	}
	return s, nil
}

func (r *Registry) named(name string) (Schema, *Generic) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.schemas[name], r.generics[name]
}

type exprParser struct {
	reg *Registry
	src string
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("type expression %q: expected %q at %d", p.src, c, p.pos)
	}
	p.pos++
	return nil
}

func (p *exprParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' || c == '>' || c == ',' || c == ';' || c == '[' || c == ']' || c == ' ' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *exprParser) parse() (Schema, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '[' {
		return p.parseArray()
	}
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("type expression %q: expected a name at %d", p.src, p.pos)
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		s, _ := p.reg.named(name)
		if s == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
		}
		return s, nil
	}
	p.pos++
	var params []Schema
	for {
		s, err := p.parse()
		if err != nil {
			return nil, err
		}
		params = append(params, s)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		break
	}
	_, g := p.reg.named(name)
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return g.Instantiate(params...)
}

func (p *exprParser) parseArray() (Schema, error) {
	p.pos++
	elem, err := p.parse()
	if err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return nil, fmt.Errorf("type expression %q: bad array size: %w", p.src, err)
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	arr, err := NewFixedArray(elem, n)
	if err != nil {
		return nil, fmt.Errorf("type expression %q: %w", p.src, err)
	}
	return arr, nil
}

// brokenSchema reports a resolution failure on use.
type brokenSchema struct {
	name string
	err  error
}

func (s *brokenSchema) Name() string { return s.name }

func (s *brokenSchema) Encode(w *bcs.BinWriter, _ Value) { w.SetError(s.err) }

func (s *brokenSchema) Decode(r *bcs.BinReader) Value {
	r.SetError(s.err)
	return nil
}
