package bcs

import (
	"encoding/binary"
	"math/big"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// BinReader decodes values from an in-memory buffer. It keeps the current
// position so nested decoders share a single cursor, and an error that
// makes every subsequent read a no-op.
type BinReader struct {
	Data []byte
	Pos  int
	Err  error

	depth int
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return &BinReader{Data: b}
}

// Len returns the number of unread bytes.
func (r *BinReader) Len() int {
	return len(r.Data) - r.Pos
}

// SetError sets the reader error unless one is already recorded.
func (r *BinReader) SetError(err error) {
	if r.Err == nil {
		r.Err = err
	}
}

// Enter marks the start of a nested value. It returns false and sets
// ErrTooDeep once more than MaxDepth values are open. Every successful
// Enter must be paired with Leave.
func (r *BinReader) Enter() bool {
	if r.Err != nil {
		return false
	}
	if r.depth >= MaxDepth {
		r.Err = ErrTooDeep
		return false
	}
	r.depth++
	return true
}

// Leave closes a nested value opened with Enter.
func (r *BinReader) Leave() {
	r.depth--
}

// next returns the next n bytes advancing the cursor or nil on failure.
func (r *BinReader) next(n int) []byte {
	if r.Err != nil {
		return nil
	}
	if n < 0 || r.Pos+n > len(r.Data) {
		r.Err = ErrUnexpectedEnd
		return nil
	}
	b := r.Data[r.Pos : r.Pos+n]
	r.Pos += n
	return b
}

// ReadU8 reads a single byte.
func (r *BinReader) ReadU8() uint8 {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

// ReadBool reads a boolean, accepting only 0 and 1.
func (r *BinReader) ReadBool() bool {
	b := r.ReadU8()
	if b > 1 {
		r.SetError(ErrInvalidBool)
		return false
	}
	return b == 1
}

// ReadU16 reads a little-endian uint16.
func (r *BinReader) ReadU16() uint16 {
	if b := r.next(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

// ReadU32 reads a little-endian uint32.
func (r *BinReader) ReadU32() uint32 {
	if b := r.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// ReadU64 reads a little-endian uint64.
func (r *BinReader) ReadU64() uint64 {
	if b := r.next(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// ReadU128 reads a 16-byte little-endian integer.
func (r *BinReader) ReadU128() *big.Int {
	b := r.next(16)
	if b == nil {
		return nil
	}
	var be [16]byte
	copy(be[:], b)
	reverse(be[:])
	return new(big.Int).SetBytes(be[:])
}

// ReadU256 reads a 32-byte little-endian integer.
func (r *BinReader) ReadU256() *uint256.Int {
	b := r.next(32)
	if b == nil {
		return nil
	}
	var be [32]byte
	copy(be[:], b)
	reverse(be[:])
	return new(uint256.Int).SetBytes(be[:])
}

// ReadULEB128 reads an unsigned LEB128 value. Encodings with redundant zero
// groups and values above 64 bits are rejected.
func (r *BinReader) ReadULEB128() uint64 {
	if r.Err != nil {
		return 0
	}
	v, n, err := ULEB128(r.Data[r.Pos:])
	if err != nil {
		r.Err = err
		return 0
	}
	r.Pos += n
	return v
}

// ReadLength reads a sequence length prefix and checks it against max (or
// MaxSequenceLength if max is not given).
func (r *BinReader) ReadLength(max ...int) int {
	n := r.ReadULEB128()
	if r.Err != nil {
		return 0
	}
	var ms uint64 = MaxSequenceLength
	if len(max) != 0 && max[0] >= 0 {
		ms = uint64(max[0])
	}
	if n > ms {
		r.Err = &LengthError{Length: n, Max: ms}
		return 0
	}
	return int(n)
}

// ReadVariantIndex reads an enum tag, which must fit into 32 bits.
func (r *BinReader) ReadVariantIndex() uint32 {
	n := r.ReadULEB128()
	if r.Err != nil {
		return 0
	}
	if n > maxUint32 {
		r.Err = ErrULEB128Overflow
		return 0
	}
	return uint32(n)
}

// ReadBytes fills b from the input.
func (r *BinReader) ReadBytes(b []byte) {
	if src := r.next(len(b)); src != nil {
		copy(b, src)
	}
}

// ReadFixedBytes reads exactly n bytes into a new slice.
func (r *BinReader) ReadFixedBytes(n int) []byte {
	src := r.next(n)
	if src == nil {
		return nil
	}
	b := make([]byte, n)
	copy(b, src)
	return b
}

// ReadVarBytes reads a length-prefixed byte vector.
func (r *BinReader) ReadVarBytes(max ...int) []byte {
	n := r.ReadLength(max...)
	if r.Err != nil {
		return nil
	}
	// Checked before allocating so a huge prefix can't exhaust memory.
	if n > r.Len() {
		r.Err = ErrUnexpectedEnd
		return nil
	}
	return r.ReadFixedBytes(n)
}

// ReadString reads a length-prefixed string and validates it as UTF-8.
func (r *BinReader) ReadString(max ...int) string {
	b := r.ReadVarBytes(max...)
	if r.Err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.Err = ErrInvalidUTF8
		return ""
	}
	return string(b)
}
