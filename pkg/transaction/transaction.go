package transaction

import (
	"errors"
	"fmt"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/types"
)

// ProgrammableTransaction is a list of inputs and the commands using them.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

// EncodeBCS implements bcs.Serializable.
func (pt *ProgrammableTransaction) EncodeBCS(w *bcs.BinWriter) {
	bcs.WriteArray(w, pt.Inputs)
	bcs.WriteVector(w, pt.Commands, EncodeCommand)
}

// DecodeBCS implements bcs.Serializable.
func (pt *ProgrammableTransaction) DecodeBCS(r *bcs.BinReader) {
	pt.Inputs = bcs.ReadArray[CallArg](r)
	pt.Commands = bcs.ReadVector(r, DecodeCommand)
}

type ptJSON struct {
	Inputs   []CallArg         `json:"inputs"`
	Commands []json.RawMessage `json:"commands"`
}

// MarshalJSON implements json.Marshaler.
func (pt ProgrammableTransaction) MarshalJSON() ([]byte, error) {
	res := ptJSON{Inputs: pt.Inputs, Commands: make([]json.RawMessage, len(pt.Commands))}
	if res.Inputs == nil {
		res.Inputs = []CallArg{}
	}
	for i, c := range pt.Commands {
		data, err := MarshalCommandJSON(c)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		res.Commands[i] = data
	}
	return json.Marshal(res)
}

// UnmarshalJSON implements json.Unmarshaler.
func (pt *ProgrammableTransaction) UnmarshalJSON(data []byte) error {
	var res ptJSON
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	pt.Inputs = res.Inputs
	pt.Commands = make([]Command, len(res.Commands))
	for i := range res.Commands {
		c, err := UnmarshalCommandJSON(res.Commands[i])
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		pt.Commands[i] = c
	}
	return nil
}

// KindTag is a TransactionKind variant.
type KindTag uint8

// Transaction kinds. Only programmable transactions are supported, system
// kinds are recognized to report them properly.
const (
	KindProgrammableTransaction KindTag = iota
	KindChangeEpoch
	KindGenesis
	KindConsensusCommitPrologue
)

var kindNames = [...]string{"ProgrammableTransaction", "ChangeEpoch", "Genesis", "ConsensusCommitPrologue"}

// String implements fmt.Stringer.
func (k KindTag) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("KindTag(%d)", uint8(k))
}

// TransactionKind is the payload of a transaction.
type TransactionKind struct {
	Programmable *ProgrammableTransaction
}

// EncodeBCS implements bcs.Serializable.
func (k *TransactionKind) EncodeBCS(w *bcs.BinWriter) {
	if k.Programmable == nil {
		w.SetError(fmt.Errorf("transaction kind: %w", ErrMissingPayload))
		return
	}
	w.WriteULEB128(uint64(KindProgrammableTransaction))
	k.Programmable.EncodeBCS(w)
}

// DecodeBCS implements bcs.Serializable.
func (k *TransactionKind) DecodeBCS(r *bcs.BinReader) {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx >= uint32(len(kindNames)) {
		r.SetError(&schema.UnknownVariantError{Enum: "TransactionKind", Index: idx})
		return
	}
	switch tag := KindTag(idx); tag {
	case KindProgrammableTransaction:
		k.Programmable = new(ProgrammableTransaction)
		k.Programmable.DecodeBCS(r)
	default:
		r.SetError(fmt.Errorf("%w: %s", ErrUnsupportedKind, tag))
	}
}

// MarshalJSON implements json.Marshaler.
func (k TransactionKind) MarshalJSON() ([]byte, error) {
	if k.Programmable == nil {
		return nil, fmt.Errorf("transaction kind: %w", ErrMissingPayload)
	}
	return json.Marshal(kindObject(KindProgrammableTransaction.String(), k.Programmable))
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *TransactionKind) UnmarshalJSON(data []byte) error {
	kind, payload, err := splitKind(data)
	if err != nil {
		return err
	}
	if kind != KindProgrammableTransaction.String() {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	k.Programmable = new(ProgrammableTransaction)
	return json.Unmarshal(payload, k.Programmable)
}

// TransactionDataV1 is the first transaction data layout.
type TransactionDataV1 struct {
	Kind       TransactionKind `json:"kind"`
	Sender     types.Address   `json:"sender"`
	GasData    GasData         `json:"gasData"`
	Expiration Expiration      `json:"expiration"`
}

// EncodeBCS implements bcs.Serializable.
func (d *TransactionDataV1) EncodeBCS(w *bcs.BinWriter) {
	d.Kind.EncodeBCS(w)
	d.Sender.EncodeBCS(w)
	d.GasData.EncodeBCS(w)
	d.Expiration.EncodeBCS(w)
}

// DecodeBCS implements bcs.Serializable.
func (d *TransactionDataV1) DecodeBCS(r *bcs.BinReader) {
	d.Kind.DecodeBCS(r)
	d.Sender.DecodeBCS(r)
	d.GasData.DecodeBCS(r)
	d.Expiration.DecodeBCS(r)
}

// TransactionData is the versioned envelope that gets signed.
type TransactionData struct {
	V1 *TransactionDataV1
}

// NewV1 wraps a V1 payload.
func NewV1(d *TransactionDataV1) *TransactionData {
	return &TransactionData{V1: d}
}

// Version returns the layout version, 1 for V1.
func (t *TransactionData) Version() int {
	if t.V1 != nil {
		return 1
	}
	return 0
}

// EncodeBCS implements bcs.Serializable.
func (t *TransactionData) EncodeBCS(w *bcs.BinWriter) {
	if t.V1 == nil {
		w.SetError(fmt.Errorf("transaction data: %w", ErrMissingPayload))
		return
	}
	w.WriteULEB128(0)
	t.V1.EncodeBCS(w)
}

// DecodeBCS implements bcs.Serializable.
func (t *TransactionData) DecodeBCS(r *bcs.BinReader) {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx != 0 {
		r.SetError(&schema.UnknownVariantError{Enum: "TransactionData", Index: idx})
		return
	}
	t.V1 = new(TransactionDataV1)
	t.V1.DecodeBCS(r)
}

// MarshalJSON implements json.Marshaler.
func (t TransactionData) MarshalJSON() ([]byte, error) {
	if t.V1 == nil {
		return nil, fmt.Errorf("transaction data: %w", ErrMissingPayload)
	}
	return json.Marshal(kindObject("V1", t.V1))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TransactionData) UnmarshalJSON(data []byte) error {
	kind, payload, err := splitKind(data)
	if err != nil {
		return err
	}
	if kind != "V1" {
		return fmt.Errorf("unknown transaction data version %q", kind)
	}
	t.V1 = new(TransactionDataV1)
	return json.Unmarshal(payload, t.V1)
}

// Serialize encodes transaction data.
func Serialize(t *TransactionData) ([]byte, error) {
	return bcs.Marshal(t)
}

// Deserialize decodes transaction data, every failure is reported as
// *DeserializationError and no partial value is returned.
func Deserialize(data []byte) (*TransactionData, error) {
	t := new(TransactionData)
	if err := bcs.Unmarshal(data, t); err != nil {
		return nil, &DeserializationError{What: "TransactionData", Err: err}
	}
	return t, nil
}

// SerializeKind encodes a transaction kind alone.
func SerializeKind(k *TransactionKind) ([]byte, error) {
	return bcs.Marshal(k)
}

// DeserializeKind decodes a transaction kind, failing with
// *DeserializationError.
func DeserializeKind(data []byte) (*TransactionKind, error) {
	k := new(TransactionKind)
	if err := bcs.Unmarshal(data, k); err != nil {
		return nil, &DeserializationError{What: "TransactionKind", Err: err}
	}
	return k, nil
}

// IsDeserializationError checks whether err came from decoding.
func IsDeserializationError(err error) bool {
	var de *DeserializationError
	return errors.As(err, &de)
}
