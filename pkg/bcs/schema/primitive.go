package schema

import (
	"encoding/json"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/suigo-dev/suigo/pkg/bcs"
)

type primitive struct {
	name string
	enc  func(w *bcs.BinWriter, s Schema, v Value)
	dec  func(r *bcs.BinReader) Value
}

func (p *primitive) Name() string { return p.name }

func (p *primitive) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	p.enc(w, p, v)
}

func (p *primitive) Decode(r *bcs.BinReader) Value {
	if r.Err != nil {
		return nil
	}
	v := p.dec(r)
	if r.Err != nil {
		return nil
	}
	return v
}

// Primitive schemas.
var (
	Bool Schema = &primitive{
		name: "bool",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			b, ok := v.(bool)
			if !ok {
				mismatch(w, s, v)
				return
			}
			w.WriteBool(b)
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadBool() },
	}
	U8 Schema = &primitive{
		name: "u8",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 8); ok {
				w.WriteU8(uint8(n.Uint64()))
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadU8() },
	}
	U16 Schema = &primitive{
		name: "u16",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 16); ok {
				w.WriteU16(uint16(n.Uint64()))
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadU16() },
	}
	U32 Schema = &primitive{
		name: "u32",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 32); ok {
				w.WriteU32(uint32(n.Uint64()))
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadU32() },
	}
	U64 Schema = &primitive{
		name: "u64",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 64); ok {
				w.WriteU64(n.Uint64())
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadU64() },
	}
	U128 Schema = &primitive{
		name: "u128",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 128); ok {
				w.WriteU128(n)
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadU128() },
	}
	U256 Schema = &primitive{
		name: "u256",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 256); ok {
				w.WriteU256Big(n)
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadU256() },
	}
	// ULEB128 is a variable-length unsigned integer, decoded as uint64.
	ULEB128 Schema = &primitive{
		name: "uleb128",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			if n, ok := uintValue(w, s, v, 64); ok {
				w.WriteULEB128(n.Uint64())
			}
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadULEB128() },
	}
	String Schema = &primitive{
		name: "string",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			str, ok := v.(string)
			if !ok {
				mismatch(w, s, v)
				return
			}
			w.WriteString(str)
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadString() },
	}
	// Bytes is vector<u8> decoded as []byte.
	Bytes Schema = &primitive{
		name: "vector<u8>",
		enc: func(w *bcs.BinWriter, s Schema, v Value) {
			b, ok := v.([]byte)
			if !ok {
				mismatch(w, s, v)
				return
			}
			w.WriteVarBytes(b)
		},
		dec: func(r *bcs.BinReader) Value { return r.ReadVarBytes() },
	}
	// Unit occupies no bytes, any value encodes to nothing and decodes to nil.
	Unit Schema = &primitive{
		name: "unit",
		enc:  func(*bcs.BinWriter, Schema, Value) {},
		dec:  func(*bcs.BinReader) Value { return nil },
	}
)

// uintValue converts v to a big integer checking that it fits into bits bits.
// The writer error is set on failure.
func uintValue(w *bcs.BinWriter, s Schema, v Value, bits uint) (*big.Int, bool) {
	n, ok := toBig(v)
	if !ok {
		mismatch(w, s, v)
		return nil, false
	}
	if err := bcs.CheckUint(n, bits); err != nil {
		w.SetError(err)
		return nil, false
	}
	return n, true
}

// toBig accepts any Go integer type, big and 256-bit integers and decimal
// (or 0x-prefixed) strings.
func toBig(v Value) (*big.Int, bool) {
	switch n := v.(type) {
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return n, true
	case *uint256.Int:
		if n == nil {
			return nil, false
		}
		return n.ToBig(), true
	case string:
		return new(big.Int).SetString(n, 0)
	case json.Number:
		return new(big.Int).SetString(string(n), 10)
	}
	return nil, false
}
