package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

// TypeTagKind is a TypeTag variant, values are wire tags.
type TypeTagKind uint8

// Type tag variants in wire order.
const (
	TypeBool TypeTagKind = iota
	TypeU8
	TypeU64
	TypeU128
	TypeAddress
	TypeSigner
	TypeVector
	TypeStruct
	TypeU16
	TypeU32
	TypeU256
)

// maxTypeTagDepth bounds vector/struct nesting on decode.
const maxTypeTagDepth = 64

var (
	// ErrInvalidTypeTag is returned for malformed type tag strings.
	ErrInvalidTypeTag = errors.New("invalid type tag")
	// ErrInvalidIdentifier is returned for invalid Move identifiers.
	ErrInvalidIdentifier = errors.New("invalid Move identifier")
	// ErrTypeTagTooDeep is returned when type tag nesting is too deep.
	ErrTypeTagTooDeep = errors.New("type tag is nested too deep")
)

var primitiveTags = map[string]TypeTagKind{
	"bool":    TypeBool,
	"u8":      TypeU8,
	"u16":     TypeU16,
	"u32":     TypeU32,
	"u64":     TypeU64,
	"u128":    TypeU128,
	"u256":    TypeU256,
	"address": TypeAddress,
	"signer":  TypeSigner,
}

// String returns the Move name of a primitive kind.
func (k TypeTagKind) String() string {
	for n, v := range primitiveTags {
		if v == k {
			return n
		}
	}
	switch k {
	case TypeVector:
		return "vector"
	case TypeStruct:
		return "struct"
	}
	return fmt.Sprintf("TypeTagKind(%d)", uint8(k))
}

// TypeTag is a Move type. Elem is set for vectors and Struct for structs.
type TypeTag struct {
	Kind   TypeTagKind
	Elem   *TypeTag
	Struct *StructTag
}

// StructTag is a fully qualified Move struct type.
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

// PrimitiveTag returns a tag for a non-generic kind.
func PrimitiveTag(k TypeTagKind) TypeTag {
	return TypeTag{Kind: k}
}

// VectorTag returns vector<elem>.
func VectorTag(elem TypeTag) TypeTag {
	return TypeTag{Kind: TypeVector, Elem: &elem}
}

// StructTypeTag wraps s into a TypeTag.
func StructTypeTag(s StructTag) TypeTag {
	return TypeTag{Kind: TypeStruct, Struct: &s}
}

// IsValidIdentifier checks Move identifier syntax.
func IsValidIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ParseTypeTag parses type strings like "u64", "vector<u8>" or
// "0x2::coin::Coin<0x2::sui::SUI>".
func ParseTypeTag(s string) (TypeTag, error) {
	p := &tagParser{src: s}
	t, err := p.parse(0)
	if err != nil {
		return TypeTag{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeTag{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidTypeTag, p.src[p.pos:], s)
	}
	return t, nil
}

// MustParseTypeTag is like ParseTypeTag, but panics on error.
func MustParseTypeTag(s string) TypeTag {
	t, err := ParseTypeTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseStructTag parses a struct type string.
func ParseStructTag(s string) (StructTag, error) {
	t, err := ParseTypeTag(s)
	if err != nil {
		return StructTag{}, err
	}
	if t.Kind != TypeStruct {
		return StructTag{}, fmt.Errorf("%w: %q is not a struct", ErrInvalidTypeTag, s)
	}
	return *t.Struct, nil
}

type tagParser struct {
	src string
	pos int
}

func (p *tagParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// token reads up to the next delimiter.
func (p *tagParser) token() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' || c == '>' || c == ',' || c == ' ' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *tagParser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *tagParser) params(depth int) ([]TypeTag, error) {
	if !p.peek('<') {
		return nil, nil
	}
	p.pos++
	var res []TypeTag
	for {
		t, err := p.parse(depth + 1)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
		if p.peek(',') {
			p.pos++
			continue
		}
		if !p.peek('>') {
			return nil, fmt.Errorf("%w: expected '>' at %d in %q", ErrInvalidTypeTag, p.pos, p.src)
		}
		p.pos++
		return res, nil
	}
}

func (p *tagParser) parse(depth int) (TypeTag, error) {
	if depth > maxTypeTagDepth {
		return TypeTag{}, ErrTypeTagTooDeep
	}
	tok := p.token()
	if k, ok := primitiveTags[tok]; ok {
		return PrimitiveTag(k), nil
	}
	if tok == "vector" {
		params, err := p.params(depth)
		if err != nil {
			return TypeTag{}, err
		}
		if len(params) != 1 {
			return TypeTag{}, fmt.Errorf("%w: vector takes one type parameter, got %d", ErrInvalidTypeTag, len(params))
		}
		return VectorTag(params[0]), nil
	}
	parts := strings.Split(tok, "::")
	if len(parts) != 3 {
		return TypeTag{}, fmt.Errorf("%w: %q", ErrInvalidTypeTag, tok)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return TypeTag{}, fmt.Errorf("%w: %w", ErrInvalidTypeTag, err)
	}
	for _, id := range parts[1:] {
		if !IsValidIdentifier(id) {
			return TypeTag{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
		}
	}
	params, err := p.params(depth)
	if err != nil {
		return TypeTag{}, err
	}
	return StructTypeTag(StructTag{Address: addr, Module: parts[1], Name: parts[2], TypeParams: params}), nil
}

// String returns the canonical form with full-length addresses.
func (t TypeTag) String() string {
	switch t.Kind {
	case TypeVector:
		if t.Elem == nil {
			return "vector<?>"
		}
		return "vector<" + t.Elem.String() + ">"
	case TypeStruct:
		if t.Struct == nil {
			return "?"
		}
		return t.Struct.String()
	}
	return t.Kind.String()
}

// String returns "address::module::Name<params>".
func (s StructTag) String() string {
	var sb strings.Builder
	sb.WriteString(s.Address.String())
	sb.WriteString("::")
	sb.WriteString(s.Module)
	sb.WriteString("::")
	sb.WriteString(s.Name)
	if len(s.TypeParams) > 0 {
		sb.WriteByte('<')
		for i := range s.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.TypeParams[i].String())
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

// MarshalJSON implements json.Marshaler.
func (t TypeTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TypeTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p, err := ParseTypeTag(s)
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// EncodeBCS implements bcs.Serializable.
func (t *TypeTag) EncodeBCS(w *bcs.BinWriter) {
	w.WriteULEB128(uint64(t.Kind))
	switch t.Kind {
	case TypeVector:
		if t.Elem == nil {
			w.SetError(fmt.Errorf("%w: vector without element type", ErrInvalidTypeTag))
			return
		}
		t.Elem.EncodeBCS(w)
	case TypeStruct:
		if t.Struct == nil {
			w.SetError(fmt.Errorf("%w: struct without tag", ErrInvalidTypeTag))
			return
		}
		t.Struct.EncodeBCS(w)
	default:
		if t.Kind > TypeU256 {
			w.SetError(fmt.Errorf("%w: unknown kind %d", ErrInvalidTypeTag, t.Kind))
		}
	}
}

// DecodeBCS implements bcs.Serializable.
func (t *TypeTag) DecodeBCS(r *bcs.BinReader) {
	t.decode(r, 0)
}

func (t *TypeTag) decode(r *bcs.BinReader, depth int) {
	if depth > maxTypeTagDepth {
		r.SetError(ErrTypeTagTooDeep)
		return
	}
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx > uint32(TypeU256) {
		r.SetError(fmt.Errorf("%w: unknown variant %d", ErrInvalidTypeTag, idx))
		return
	}
	*t = TypeTag{Kind: TypeTagKind(idx)}
	switch t.Kind {
	case TypeVector:
		t.Elem = new(TypeTag)
		t.Elem.decode(r, depth+1)
	case TypeStruct:
		t.Struct = new(StructTag)
		t.Struct.decode(r, depth+1)
	}
}

// EncodeBCS implements bcs.Serializable.
func (s *StructTag) EncodeBCS(w *bcs.BinWriter) {
	s.Address.EncodeBCS(w)
	w.WriteString(s.Module)
	w.WriteString(s.Name)
	bcs.WriteArray(w, s.TypeParams)
}

// DecodeBCS implements bcs.Serializable.
func (s *StructTag) DecodeBCS(r *bcs.BinReader) {
	s.decode(r, 0)
}

func (s *StructTag) decode(r *bcs.BinReader, depth int) {
	s.Address.DecodeBCS(r)
	s.Module = r.ReadString()
	s.Name = r.ReadString()
	n := r.ReadLength()
	if r.Err != nil {
		return
	}
	s.TypeParams = nil
	for i := 0; i < n; i++ {
		var t TypeTag
		t.decode(r, depth+1)
		if r.Err != nil {
			return
		}
		s.TypeParams = append(s.TypeParams, t)
	}
}
