package transaction

import (
	"fmt"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/types"
)

// GasData describes how a transaction pays for gas.
type GasData struct {
	Payment []types.ObjectRef `json:"payment"`
	Owner   types.Address     `json:"owner"`
	Price   uint64            `json:"price,string"`
	Budget  uint64            `json:"budget,string"`
}

// EncodeBCS implements bcs.Serializable.
func (g *GasData) EncodeBCS(w *bcs.BinWriter) {
	bcs.WriteArray(w, g.Payment)
	g.Owner.EncodeBCS(w)
	w.WriteU64(g.Price)
	w.WriteU64(g.Budget)
}

// DecodeBCS implements bcs.Serializable.
func (g *GasData) DecodeBCS(r *bcs.BinReader) {
	g.Payment = bcs.ReadArray[types.ObjectRef](r)
	g.Owner.DecodeBCS(r)
	g.Price = r.ReadU64()
	g.Budget = r.ReadU64()
}

// ExpirationKind is a TransactionExpiration variant.
type ExpirationKind uint8

// Expiration variants.
const (
	ExpirationNone ExpirationKind = iota
	ExpirationEpoch
)

// Expiration limits the epoch a transaction can be executed in.
type Expiration struct {
	Kind  ExpirationKind
	Epoch uint64
}

// NoExpiration returns an expiration that never fires.
func NoExpiration() Expiration { return Expiration{} }

// EpochExpiration makes a transaction invalid after the given epoch.
func EpochExpiration(epoch uint64) Expiration {
	return Expiration{Kind: ExpirationEpoch, Epoch: epoch}
}

// EncodeBCS implements bcs.Serializable.
func (e *Expiration) EncodeBCS(w *bcs.BinWriter) {
	switch e.Kind {
	case ExpirationNone:
		w.WriteULEB128(uint64(e.Kind))
	case ExpirationEpoch:
		w.WriteULEB128(uint64(e.Kind))
		w.WriteU64(e.Epoch)
	default:
		w.SetError(&schema.UnknownVariantError{Enum: "TransactionExpiration", Index: uint32(e.Kind)})
	}
}

// DecodeBCS implements bcs.Serializable.
func (e *Expiration) DecodeBCS(r *bcs.BinReader) {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return
	}
	if idx > uint32(ExpirationEpoch) {
		r.SetError(&schema.UnknownVariantError{Enum: "TransactionExpiration", Index: idx})
		return
	}
	*e = Expiration{Kind: ExpirationKind(idx)}
	switch e.Kind {
	case ExpirationNone:
	case ExpirationEpoch:
		e.Epoch = r.ReadU64()
	}
}

// MarshalJSON implements json.Marshaler.
func (e Expiration) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case ExpirationNone:
		return json.Marshal(kindObject("None", true))
	case ExpirationEpoch:
		return json.Marshal(kindObject("Epoch", fmt.Sprint(e.Epoch)))
	}
	return nil, fmt.Errorf("unknown expiration kind %d", e.Kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expiration) UnmarshalJSON(data []byte) error {
	kind, payload, err := splitKind(data)
	if err != nil {
		return err
	}
	switch kind {
	case "None":
		*e = NoExpiration()
		return nil
	case "Epoch":
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return err
		}
		epoch, err := bcs.U64FromString(s)
		if err != nil {
			return err
		}
		*e = EpochExpiration(epoch)
		return nil
	}
	return fmt.Errorf("unknown expiration kind %q", kind)
}
