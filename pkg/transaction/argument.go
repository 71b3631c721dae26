package transaction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
)

// ArgumentKind is an Argument variant, values are wire tags.
type ArgumentKind uint8

// Argument variants.
const (
	ArgGasCoin ArgumentKind = iota
	ArgInput
	ArgResult
	ArgNestedResult
)

var argumentNames = [...]string{"GasCoin", "Input", "Result", "NestedResult"}

// String implements fmt.Stringer.
func (k ArgumentKind) String() string {
	if int(k) < len(argumentNames) {
		return argumentNames[k]
	}
	return fmt.Sprintf("ArgumentKind(%d)", uint8(k))
}

// Argument references a value available to a command: the gas coin, an
// input or a (nested) result of an earlier command.
type Argument struct {
	Kind ArgumentKind
	// Index is the input or command index.
	Index uint16
	// Nested is the position inside a multi-value command result.
	Nested uint16
}

// GasCoin refers to the gas payment coin.
func GasCoin() Argument { return Argument{Kind: ArgGasCoin} }

// Input refers to the i-th transaction input.
func Input(i uint16) Argument { return Argument{Kind: ArgInput, Index: i} }

// Result refers to the whole result of the i-th command.
func Result(i uint16) Argument { return Argument{Kind: ArgResult, Index: i} }

// NestedResult refers to value r of the c-th command result.
func NestedResult(c, r uint16) Argument {
	return Argument{Kind: ArgNestedResult, Index: c, Nested: r}
}

// String implements fmt.Stringer.
func (a Argument) String() string {
	switch a.Kind {
	case ArgGasCoin:
		return "GasCoin"
	case ArgNestedResult:
		return fmt.Sprintf("NestedResult(%d, %d)", a.Index, a.Nested)
	}
	return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
}

// ParseArgument parses the String form of an Argument, like "GasCoin",
// "Input(0)" or "NestedResult(2, 1)".
func ParseArgument(s string) (Argument, error) {
	s = strings.TrimSpace(s)
	if s == "GasCoin" {
		return GasCoin(), nil
	}
	name, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return Argument{}, fmt.Errorf("invalid argument %q", s)
	}
	parts := strings.Split(strings.TrimSuffix(rest, ")"), ",")
	idx := make([]uint16, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return Argument{}, fmt.Errorf("invalid argument %q: %w", s, err)
		}
		idx[i] = uint16(n)
	}
	switch {
	case name == "Input" && len(idx) == 1:
		return Input(idx[0]), nil
	case name == "Result" && len(idx) == 1:
		return Result(idx[0]), nil
	case name == "NestedResult" && len(idx) == 2:
		return NestedResult(idx[0], idx[1]), nil
	}
	return Argument{}, fmt.Errorf("invalid argument %q", s)
}

// EncodeBCS implements bcs.Serializable.
func (a *Argument) EncodeBCS(w *bcs.BinWriter) {
	if a.Kind > ArgNestedResult {
		w.SetError(&schema.UnknownVariantError{Enum: "Argument", Index: uint32(a.Kind)})
		return
	}
	w.WriteULEB128(uint64(a.Kind))
	switch a.Kind {
	case ArgInput, ArgResult:
		w.WriteU16(a.Index)
	case ArgNestedResult:
		w.WriteU16(a.Index)
		w.WriteU16(a.Nested)
	}
}

// DecodeBCS implements bcs.Serializable.
func (a *Argument) DecodeBCS(r *bcs.BinReader) {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx > uint32(ArgNestedResult) {
		r.SetError(&schema.UnknownVariantError{Enum: "Argument", Index: idx})
		return
	}
	*a = Argument{Kind: ArgumentKind(idx)}
	switch a.Kind {
	case ArgGasCoin:
	case ArgInput, ArgResult:
		a.Index = r.ReadU16()
	case ArgNestedResult:
		a.Index = r.ReadU16()
		a.Nested = r.ReadU16()
	}
}

// MarshalJSON implements json.Marshaler producing the {"$kind": ...} form.
func (a Argument) MarshalJSON() ([]byte, error) {
	var payload any
	switch a.Kind {
	case ArgGasCoin:
		payload = true
	case ArgInput, ArgResult:
		payload = a.Index
	case ArgNestedResult:
		payload = []uint16{a.Index, a.Nested}
	default:
		return nil, fmt.Errorf("unknown argument kind %d", a.Kind)
	}
	return json.Marshal(kindObject(a.Kind.String(), payload))
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Argument) UnmarshalJSON(data []byte) error {
	kind, payload, err := splitKind(data)
	if err != nil {
		return err
	}
	switch kind {
	case "GasCoin":
		*a = GasCoin()
		return nil
	case "Input", "Result":
		var i uint16
		if err := json.Unmarshal(payload, &i); err != nil {
			return err
		}
		if kind == "Input" {
			*a = Input(i)
		} else {
			*a = Result(i)
		}
		return nil
	case "NestedResult":
		var pair []uint16
		if err := json.Unmarshal(payload, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return errors.New("NestedResult needs two indices")
		}
		*a = NestedResult(pair[0], pair[1])
		return nil
	}
	return fmt.Errorf("unknown argument kind %q", kind)
}

// kindObject builds the {"$kind": name, name: payload} form.
func kindObject(name string, payload any) json.OrderedObject {
	return json.OrderedObject{
		{Key: schema.KindKey, Value: name},
		{Key: name, Value: payload},
	}
}

// splitKind parses the {"$kind": name, name: payload} form. Objects with a
// single variant key and no "$kind" are accepted too.
func splitKind(data []byte) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, err
	}
	var kind string
	if raw, ok := m[schema.KindKey]; ok {
		if err := json.Unmarshal(raw, &kind); err != nil {
			return "", nil, err
		}
		delete(m, schema.KindKey)
	}
	if kind == "" {
		if len(m) != 1 {
			return "", nil, errors.New("enum object must have exactly one variant")
		}
		for k := range m {
			kind = k
		}
	}
	return kind, m[kind], nil
}
