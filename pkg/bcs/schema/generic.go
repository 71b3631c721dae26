package schema

import (
	"fmt"
	"reflect"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// instanceCacheSize bounds the number of instantiations kept per generic.
const instanceCacheSize = 256

// Generic is a schema constructor taking a fixed number of type parameters,
// like vector<T> or Option<T>.
type Generic struct {
	name  string
	arity int
	build func(params []Schema) (Schema, error)
	cache *lru.Cache
}

// NewGeneric creates a parametric schema. build is called once per distinct
// parameter list, instantiations are cached by parameter identity (see
// Instantiate).
func NewGeneric(name string, arity int, build func(params []Schema) (Schema, error)) *Generic {
	c, err := lru.New(instanceCacheSize)
	if err != nil {
		panic(err) // only fails for non-positive size
	}
	return &Generic{name: name, arity: arity, build: build, cache: c}
}

// Name returns the generic name without parameters.
func (g *Generic) Name() string { return g.name }

// Arity returns the number of type parameters.
func (g *Generic) Arity() int { return g.arity }

// Instantiate applies the type parameters. Instances are cached when every
// parameter is a pointer-backed schema (all the schemas of this package are),
// other parameters make build run on every call.
func (g *Generic) Instantiate(params ...Schema) (Schema, error) {
	if len(params) != g.arity {
		return nil, &TypeArityError{Schema: g.name, Expected: g.arity, Actual: len(params)}
	}
	key, cacheable := g.key(params)
	if cacheable {
		if c, ok := g.cache.Get(key); ok {
			inst := c.(*instance)
			if inst.matches(params) {
				return inst.s, nil
			}
		}
	}
	s, err := g.build(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.name, err)
	}
	if cacheable {
		g.cache.Add(key, &instance{params: append([]Schema(nil), params...), s: s})
	}
	return s, nil
}

// instance keeps the parameters alive, so their addresses can't be reused
// by other schemas while the entry is cached.
type instance struct {
	params []Schema
	s      Schema
}

func (i *instance) matches(params []Schema) bool {
	for j := range params {
		if i.params[j] != params[j] {
			return false
		}
	}
	return true
}

func (g *Generic) key(params []Schema) (string, bool) {
	var sb strings.Builder
	for i, p := range params {
		if p == nil {
			return "", false
		}
		v := reflect.ValueOf(p)
		if v.Kind() != reflect.Pointer {
			return "", false
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s@%x", v.Type(), v.Pointer())
	}
	return sb.String(), true
}

// InstanceName formats a generic instantiation name, like "Coin<u64>".
func InstanceName(name string, params ...Schema) string {
	names := make([]string, len(params))
	for i := range params {
		names[i] = params[i].Name()
	}
	return name + "<" + strings.Join(names, ", ") + ">"
}
