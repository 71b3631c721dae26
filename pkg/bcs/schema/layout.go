package schema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadLayout registers the containers of a serde-reflection style YAML
// layout file. Every top-level key names a container: STRUCT, ENUM (with
// contiguous numeric variant keys), NEWTYPESTRUCT, TUPLESTRUCT or
// UNITSTRUCT. Formats referenced by TYPENAME must be resolvable once the
// whole file is loaded. The file is registered as a whole or not at all.
// The names of the new schemas are returned in file order.
func (r *Registry) LoadLayout(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("layout: top level must be a mapping")
	}
	l := &layoutLoader{reg: r}
	var (
		names   []string
		schemas []Schema
		pending = make(map[string]bool)
	)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if pending[name] {
			return nil, fmt.Errorf("layout: %w: %s", ErrDuplicateSchema, name)
		}
		s, err := l.container(name, root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("layout: %s: %w", name, err)
		}
		pending[name] = true
		names = append(names, name)
		schemas = append(schemas, s)
	}
	for _, ref := range l.refs {
		if pending[ref] {
			continue
		}
		if _, err := r.Lookup(ref); err != nil {
			return nil, fmt.Errorf("layout: unresolved TYPENAME: %w", err)
		}
	}
	if err := r.registerAll(names, schemas); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return names, nil
}

type layoutLoader struct {
	reg  *Registry
	refs []string
}

// single returns the only key and value of a one-entry mapping node.
func single(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: expected a single-key mapping", n.Line)
	}
	return n.Content[0].Value, n.Content[1], nil
}

func (l *layoutLoader) container(name string, n *yaml.Node) (Schema, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Value == "UNITSTRUCT" {
			return Transform(name, Unit, nil, nil), nil
		}
		return nil, fmt.Errorf("line %d: unknown container %q", n.Line, n.Value)
	}
	kind, body, err := single(n)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "STRUCT":
		fields, err := l.fields(body)
		if err != nil {
			return nil, err
		}
		return NewStruct(name, fields...)
	case "NEWTYPESTRUCT":
		inner, err := l.format(body)
		if err != nil {
			return nil, err
		}
		return Transform(name, inner, nil, nil), nil
	case "TUPLESTRUCT":
		t, err := l.tuple(body)
		if err != nil {
			return nil, err
		}
		return Transform(name, t, nil, nil), nil
	case "ENUM":
		return l.enum(name, body)
	}
	return nil, fmt.Errorf("line %d: unknown container %q", n.Line, kind)
}

func (l *layoutLoader) fields(n *yaml.Node) ([]Field, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a field list", n.Line)
	}
	res := make([]Field, 0, len(n.Content))
	for _, fn := range n.Content {
		fname, fbody, err := single(fn)
		if err != nil {
			return nil, err
		}
		s, err := l.format(fbody)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fname, err)
		}
		res = append(res, Field{Name: fname, Schema: s})
	}
	return res, nil
}

func (l *layoutLoader) tuple(n *yaml.Node) (Schema, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a format list", n.Line)
	}
	elems := make([]Schema, len(n.Content))
	for i, en := range n.Content {
		s, err := l.format(en)
		if err != nil {
			return nil, err
		}
		elems[i] = s
	}
	return Tuple(elems...), nil
}

func (l *layoutLoader) enum(name string, n *yaml.Node) (Schema, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a variant mapping", n.Line)
	}
	type indexed struct {
		idx int
		v   Variant
	}
	vs := make([]indexed, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		idx, err := strconv.Atoi(n.Content[i].Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad variant index %q", n.Content[i].Line, n.Content[i].Value)
		}
		v, err := l.variant(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		vs = append(vs, indexed{idx: idx, v: v})
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].idx < vs[j].idx })
	variants := make([]Variant, len(vs))
	for i := range vs {
		if vs[i].idx != i {
			return nil, fmt.Errorf("variant indices are not contiguous, missing %d", i)
		}
		variants[i] = vs[i].v
	}
	return NewEnum(name, variants...)
}

func (l *layoutLoader) variant(n *yaml.Node) (Variant, error) {
	vname, body, err := single(n)
	if err != nil {
		return Variant{}, err
	}
	if body.Kind == yaml.ScalarNode && body.Value == "UNIT" {
		return Variant{Name: vname}, nil
	}
	kind, inner, err := single(body)
	if err != nil {
		return Variant{}, err
	}
	var s Schema
	switch kind {
	case "NEWTYPE":
		s, err = l.format(inner)
	case "TUPLE":
		s, err = l.tuple(inner)
	case "STRUCT":
		var fields []Field
		if fields, err = l.fields(inner); err == nil {
			s, err = NewStruct(vname, fields...)
		}
	default:
		err = fmt.Errorf("line %d: unknown variant format %q", body.Line, kind)
	}
	if err != nil {
		return Variant{}, fmt.Errorf("variant %s: %w", vname, err)
	}
	return Variant{Name: vname, Schema: s}, nil
}

var layoutScalars = map[string]Schema{
	"BOOL":  Bool,
	"U8":    U8,
	"U16":   U16,
	"U32":   U32,
	"U64":   U64,
	"U128":  U128,
	"U256":  U256,
	"STR":   String,
	"BYTES": Bytes,
	"UNIT":  Unit,
}

func (l *layoutLoader) format(n *yaml.Node) (Schema, error) {
	if n.Kind == yaml.ScalarNode {
		if s, ok := layoutScalars[n.Value]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("line %d: unsupported format %q", n.Line, n.Value)
	}
	kind, body, err := single(n)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "TYPENAME":
		l.refs = append(l.refs, body.Value)
		return l.reg.Ref(body.Value), nil
	case "SEQ":
		elem, err := l.format(body)
		if err != nil {
			return nil, err
		}
		return Vector(elem), nil
	case "OPTION":
		elem, err := l.format(body)
		if err != nil {
			return nil, err
		}
		return Option(elem), nil
	case "TUPLE":
		return l.tuple(body)
	case "TUPLEARRAY":
		var arr struct {
			Size int `yaml:"SIZE"`
		}
		if err := body.Decode(&arr); err != nil {
			return nil, err
		}
		var content *yaml.Node
		for i := 0; i+1 < len(body.Content); i += 2 {
			if body.Content[i].Value == "CONTENT" {
				content = body.Content[i+1]
			}
		}
		if content == nil {
			return nil, fmt.Errorf("line %d: TUPLEARRAY without CONTENT", body.Line)
		}
		elem, err := l.format(content)
		if err != nil {
			return nil, err
		}
		fixed, err := NewFixedArray(elem, arr.Size)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", body.Line, err)
		}
		return fixed, nil
	case "MAP":
		var key, value *yaml.Node
		for i := 0; i+1 < len(body.Content); i += 2 {
			switch body.Content[i].Value {
			case "KEY":
				key = body.Content[i+1]
			case "VALUE":
				value = body.Content[i+1]
			}
		}
		if key == nil || value == nil {
			return nil, fmt.Errorf("line %d: MAP needs KEY and VALUE", body.Line)
		}
		ks, err := l.format(key)
		if err != nil {
			return nil, err
		}
		vs, err := l.format(value)
		if err != nil {
			return nil, err
		}
		return Vector(Tuple(ks, vs)), nil
	}
	return nil, fmt.Errorf("line %d: unknown format %q", n.Line, kind)
}
