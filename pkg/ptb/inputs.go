package ptb

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
)

// pure encodes a value with enc and adds it as a pure input.
func (b *Builder) pure(enc func(w *bcs.BinWriter)) (transaction.Argument, error) {
	if b.built {
		return transaction.Argument{}, ErrAlreadyBuilt
	}
	w := bcs.NewBufBinWriter()
	enc(w.BinWriter)
	if w.Err != nil {
		return transaction.Argument{}, w.Err
	}
	return b.addPure(w.Bytes())
}

func (b *Builder) addPure(data []byte) (transaction.Argument, error) {
	arg := transaction.PureArg(data)
	if b.dedup {
		for i := range b.inputs {
			if b.inputs[i].Equal(&arg) {
				return transaction.Input(uint16(i)), nil
			}
		}
	}
	return b.AddInput(arg)
}

// PureRaw adds already serialized bytes as a pure input.
func (b *Builder) PureRaw(data []byte) (transaction.Argument, error) {
	return b.addPure(bytes.Clone(data))
}

// Pure adds any serializable value as a pure input.
func (b *Builder) Pure(v bcs.Serializable) (transaction.Argument, error) {
	return b.pure(v.EncodeBCS)
}

// PureBool adds a bool input.
func (b *Builder) PureBool(v bool) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteBool(v) })
}

// PureU8 adds a u8 input.
func (b *Builder) PureU8(v uint8) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteU8(v) })
}

// PureU16 adds a u16 input.
func (b *Builder) PureU16(v uint16) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteU16(v) })
}

// PureU32 adds a u32 input.
func (b *Builder) PureU32(v uint32) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteU32(v) })
}

// PureU64 adds a u64 input.
func (b *Builder) PureU64(v uint64) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteU64(v) })
}

// PureU128 adds a u128 input, values out of range are rejected with
// *bcs.RangeError.
func (b *Builder) PureU128(v *big.Int) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteU128(v) })
}

// PureU256 adds a u256 input.
func (b *Builder) PureU256(v *uint256.Int) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteU256(v) })
}

// PureAddress adds an address input.
func (b *Builder) PureAddress(a types.Address) (transaction.Argument, error) {
	return b.pure(a.EncodeBCS)
}

// PureString adds a UTF-8 string input.
func (b *Builder) PureString(s string) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteString(s) })
}

// PureBytes adds a vector<u8> input.
func (b *Builder) PureBytes(data []byte) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { w.WriteVarBytes(data) })
}

// PureOptionU64 adds an Option<u64> input.
func (b *Builder) PureOptionU64(v bcs.Option[uint64]) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { bcs.WriteOption(w, v, (*bcs.BinWriter).WriteU64) })
}

// PureVectorU64 adds a vector<u64> input.
func (b *Builder) PureVectorU64(v []uint64) (transaction.Argument, error) {
	return b.pure(func(w *bcs.BinWriter) { bcs.WriteVector(w, v, (*bcs.BinWriter).WriteU64) })
}

// addObject adds an object input. With deduplication enabled an existing
// input for the same object is returned, shared objects become mutable if
// any use is mutable.
func (b *Builder) addObject(o transaction.ObjectArg) (transaction.Argument, error) {
	if b.built {
		return transaction.Argument{}, ErrAlreadyBuilt
	}
	if b.dedup {
		id := o.ID()
		for i := range b.inputs {
			in := &b.inputs[i]
			if in.Kind != transaction.CallArgObject || in.Object.ID() != id {
				continue
			}
			if in.Object.Kind != o.Kind {
				return transaction.Argument{}, invalid(fmt.Sprintf("object %s is used both as %s and %s", id, in.Object.Kind, o.Kind), nil)
			}
			if o.Kind == transaction.ObjectShared {
				in.Object.Shared.Mutable = in.Object.Shared.Mutable || o.Shared.Mutable
			}
			return transaction.Input(uint16(i)), nil
		}
	}
	return b.AddInput(transaction.ObjectCallArg(o))
}

// ImmOrOwnedObject adds an owned or immutable object input.
func (b *Builder) ImmOrOwnedObject(ref types.ObjectRef) (transaction.Argument, error) {
	return b.addObject(transaction.ImmOrOwnedObject(ref))
}

// SharedObject adds a shared object input.
func (b *Builder) SharedObject(id types.ObjectID, initialSharedVersion uint64, mutable bool) (transaction.Argument, error) {
	return b.addObject(transaction.SharedObject(id, initialSharedVersion, mutable))
}

// ReceivingObject adds an object to be received by the transaction.
func (b *Builder) ReceivingObject(ref types.ObjectRef) (transaction.Argument, error) {
	return b.addObject(transaction.ReceivingObject(ref))
}
