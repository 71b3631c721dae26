package transaction

import (
	"bytes"
	"fmt"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/types"
)

// CallArgKind is a CallArg variant, values are wire tags.
type CallArgKind uint8

// CallArg variants.
const (
	CallArgPure CallArgKind = iota
	CallArgObject
)

// ObjectArgKind is an ObjectArg variant, values are wire tags.
type ObjectArgKind uint8

// ObjectArg variants.
const (
	ObjectImmOrOwned ObjectArgKind = iota
	ObjectShared
	ObjectReceiving
)

var objectArgNames = [...]string{"ImmOrOwnedObject", "SharedObject", "Receiving"}

// String implements fmt.Stringer.
func (k ObjectArgKind) String() string {
	if int(k) < len(objectArgNames) {
		return objectArgNames[k]
	}
	return fmt.Sprintf("ObjectArgKind(%d)", uint8(k))
}

// CallArg is a transaction input: either BCS-encoded pure bytes or an
// object reference.
type CallArg struct {
	Kind   CallArgKind
	Pure   []byte
	Object ObjectArg
}

// SharedObjectRef refers to a shared object.
type SharedObjectRef struct {
	ObjectID             types.ObjectID `json:"objectId"`
	InitialSharedVersion uint64         `json:"initialSharedVersion,string"`
	Mutable              bool           `json:"mutable"`
}

// ObjectArg is an object input. Ref is used by owned and receiving objects,
// Shared by shared ones.
type ObjectArg struct {
	Kind   ObjectArgKind
	Ref    types.ObjectRef
	Shared SharedObjectRef
}

// PureArg returns a pure input with already encoded bytes.
func PureArg(b []byte) CallArg {
	return CallArg{Kind: CallArgPure, Pure: b}
}

// ObjectCallArg returns an object input.
func ObjectCallArg(o ObjectArg) CallArg {
	return CallArg{Kind: CallArgObject, Object: o}
}

// ImmOrOwnedObject returns an owned or immutable object argument.
func ImmOrOwnedObject(ref types.ObjectRef) ObjectArg {
	return ObjectArg{Kind: ObjectImmOrOwned, Ref: ref}
}

// SharedObject returns a shared object argument.
func SharedObject(id types.ObjectID, initialSharedVersion uint64, mutable bool) ObjectArg {
	return ObjectArg{Kind: ObjectShared, Shared: SharedObjectRef{
		ObjectID:             id,
		InitialSharedVersion: initialSharedVersion,
		Mutable:              mutable,
	}}
}

// ReceivingObject returns a receiving object argument.
func ReceivingObject(ref types.ObjectRef) ObjectArg {
	return ObjectArg{Kind: ObjectReceiving, Ref: ref}
}

// ID returns the referenced object ID.
func (o *ObjectArg) ID() types.ObjectID {
	if o.Kind == ObjectShared {
		return o.Shared.ObjectID
	}
	return o.Ref.ObjectID
}

// Equal checks whether two inputs are identical.
func (c *CallArg) Equal(other *CallArg) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == CallArgPure {
		return bytes.Equal(c.Pure, other.Pure)
	}
	return c.Object == other.Object
}

// EncodeBCS implements bcs.Serializable.
func (c *CallArg) EncodeBCS(w *bcs.BinWriter) {
	switch c.Kind {
	case CallArgPure:
		w.WriteULEB128(uint64(c.Kind))
		w.WriteVarBytes(c.Pure)
	case CallArgObject:
		w.WriteULEB128(uint64(c.Kind))
		c.Object.EncodeBCS(w)
	default:
		w.SetError(&schema.UnknownVariantError{Enum: "CallArg", Index: uint32(c.Kind)})
	}
}

// DecodeBCS implements bcs.Serializable.
func (c *CallArg) DecodeBCS(r *bcs.BinReader) {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx > uint32(CallArgObject) {
		r.SetError(&schema.UnknownVariantError{Enum: "CallArg", Index: idx})
		return
	}
	*c = CallArg{Kind: CallArgKind(idx)}
	switch c.Kind {
	case CallArgPure:
		c.Pure = r.ReadVarBytes()
	case CallArgObject:
		c.Object.DecodeBCS(r)
	}
}

// EncodeBCS implements bcs.Serializable.
func (o *ObjectArg) EncodeBCS(w *bcs.BinWriter) {
	switch o.Kind {
	case ObjectImmOrOwned, ObjectReceiving:
		w.WriteULEB128(uint64(o.Kind))
		o.Ref.EncodeBCS(w)
	case ObjectShared:
		w.WriteULEB128(uint64(o.Kind))
		o.Shared.ObjectID.EncodeBCS(w)
		w.WriteU64(o.Shared.InitialSharedVersion)
		w.WriteBool(o.Shared.Mutable)
	default:
		w.SetError(&schema.UnknownVariantError{Enum: "ObjectArg", Index: uint32(o.Kind)})
	}
}

// DecodeBCS implements bcs.Serializable.
func (o *ObjectArg) DecodeBCS(r *bcs.BinReader) {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx > uint32(ObjectReceiving) {
		r.SetError(&schema.UnknownVariantError{Enum: "ObjectArg", Index: idx})
		return
	}
	*o = ObjectArg{Kind: ObjectArgKind(idx)}
	switch o.Kind {
	case ObjectImmOrOwned, ObjectReceiving:
		o.Ref.DecodeBCS(r)
	case ObjectShared:
		o.Shared.ObjectID.DecodeBCS(r)
		o.Shared.InitialSharedVersion = r.ReadU64()
		o.Shared.Mutable = r.ReadBool()
	}
}

// MarshalJSON implements json.Marshaler. Pure bytes are rendered as a list
// of numbers.
func (c CallArg) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CallArgPure:
		nums := make([]int, len(c.Pure))
		for i, b := range c.Pure {
			nums[i] = int(b)
		}
		return json.Marshal(kindObject("Pure", json.OrderedObject{{Key: "bytes", Value: nums}}))
	case CallArgObject:
		return json.Marshal(kindObject("Object", c.Object))
	}
	return nil, fmt.Errorf("unknown call arg kind %d", c.Kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CallArg) UnmarshalJSON(data []byte) error {
	kind, payload, err := splitKind(data)
	if err != nil {
		return err
	}
	switch kind {
	case "Pure":
		var p struct {
			Bytes []int `json:"bytes"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		b := make([]byte, len(p.Bytes))
		for i, n := range p.Bytes {
			if n < 0 || n > 255 {
				return fmt.Errorf("pure byte %d is out of range", n)
			}
			b[i] = byte(n)
		}
		*c = PureArg(b)
		return nil
	case "Object":
		var o ObjectArg
		if err := json.Unmarshal(payload, &o); err != nil {
			return err
		}
		*c = ObjectCallArg(o)
		return nil
	}
	return fmt.Errorf("unknown call arg kind %q", kind)
}

// MarshalJSON implements json.Marshaler.
func (o ObjectArg) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case ObjectImmOrOwned, ObjectReceiving:
		return json.Marshal(kindObject(o.Kind.String(), o.Ref))
	case ObjectShared:
		return json.Marshal(kindObject(o.Kind.String(), o.Shared))
	}
	return nil, fmt.Errorf("unknown object arg kind %d", o.Kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *ObjectArg) UnmarshalJSON(data []byte) error {
	kind, payload, err := splitKind(data)
	if err != nil {
		return err
	}
	switch kind {
	case "ImmOrOwnedObject", "Receiving":
		var ref types.ObjectRef
		if err := json.Unmarshal(payload, &ref); err != nil {
			return err
		}
		if kind == "Receiving" {
			*o = ReceivingObject(ref)
		} else {
			*o = ImmOrOwnedObject(ref)
		}
		return nil
	case "SharedObject":
		var s SharedObjectRef
		if err := json.Unmarshal(payload, &s); err != nil {
			return err
		}
		*o = ObjectArg{Kind: ObjectShared, Shared: s}
		return nil
	}
	return fmt.Errorf("unknown object arg kind %q", kind)
}
