package bcs

import (
	"encoding/hex"
	"errors"
	"io"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestIntegersLittleEndian(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteU8(0x01)
	w.WriteU16(0x0203)
	w.WriteU32(0x04050607)
	w.WriteU64(0x08090a0b0c0d0e0f)
	w.WriteBool(true)
	w.WriteBool(false)
	require.NoError(t, w.Err)
	require.Equal(t, "01"+"0302"+"07060504"+"0f0e0d0c0b0a0908"+"01"+"00", hex.EncodeToString(w.Bytes()))
}

func TestIntegersRoundTrip(t *testing.T) {
	u128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	u256 := uint256.NewInt(0).Lsh(uint256.NewInt(1), 255)

	w := NewBufBinWriter()
	w.WriteU8(math.MaxUint8)
	w.WriteU16(math.MaxUint16)
	w.WriteU32(math.MaxUint32)
	w.WriteU64(math.MaxUint64)
	w.WriteU128(u128)
	w.WriteU256(u256)
	require.NoError(t, w.Err)
	data := w.Bytes()
	require.Len(t, data, 1+2+4+8+16+32)

	r := NewBinReaderFromBuf(data)
	require.Equal(t, uint8(math.MaxUint8), r.ReadU8())
	require.Equal(t, uint16(math.MaxUint16), r.ReadU16())
	require.Equal(t, uint32(math.MaxUint32), r.ReadU32())
	require.Equal(t, uint64(math.MaxUint64), r.ReadU64())
	require.Equal(t, 0, u128.Cmp(r.ReadU128()))
	require.True(t, u256.Eq(r.ReadU256()))
	require.NoError(t, r.Finish())
}

func TestU128LittleEndian(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteU128(big.NewInt(1))
	require.NoError(t, w.Err)
	require.Equal(t, "01"+strings.Repeat("00", 15), hex.EncodeToString(w.Bytes()))
}

func TestU64Boundary(t *testing.T) {
	v, err := U64FromString("18446744073709551615")
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)

	w := NewBufBinWriter()
	w.WriteU64(v)
	r := NewBinReaderFromBuf(w.Bytes())
	require.Equal(t, v, r.ReadU64())
	require.NoError(t, r.Finish())

	for _, s := range []string{"18446744073709551616", "-1"} {
		_, err := U64FromString(s)
		var rerr *RangeError
		require.ErrorAs(t, err, &rerr, s)
		require.Equal(t, "u64", rerr.Type)
		require.Equal(t, s, rerr.Value)
	}

	_, err = U64FromString("ten")
	require.Error(t, err)
}

func TestWriteU128OutOfRange(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	for _, v := range []*big.Int{tooBig, big.NewInt(-1)} {
		w := NewBufBinWriter()
		w.WriteU128(v)
		var rerr *RangeError
		require.ErrorAs(t, w.Err, &rerr)
		require.Nil(t, w.Bytes())
	}

	w := NewBufBinWriter()
	w.WriteU256Big(new(big.Int).Lsh(big.NewInt(1), 256))
	var rerr *RangeError
	require.ErrorAs(t, w.Err, &rerr)
}

func TestReadBool(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{0, 1, 2})
	require.False(t, r.ReadBool())
	require.True(t, r.ReadBool())
	require.False(t, r.ReadBool())
	require.ErrorIs(t, r.Err, ErrInvalidBool)
}

func TestTruncatedInput(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{1, 2, 3})
	require.Equal(t, uint64(0), r.ReadU64())
	require.ErrorIs(t, r.Err, ErrUnexpectedEnd)
	require.True(t, errors.Is(r.Err, io.ErrUnexpectedEOF))

	// Sticky: later reads don't clear or replace the error.
	require.Equal(t, uint8(0), r.ReadU8())
	require.ErrorIs(t, r.Err, ErrUnexpectedEnd)
}

func TestVarBytesAndStrings(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteVarBytes([]byte{0xaa, 0xbb})
	w.WriteString("Sui")
	w.WriteString("")
	require.NoError(t, w.Err)
	data := w.Bytes()
	require.Equal(t, "02aabb"+"03537569"+"00", hex.EncodeToString(data))

	r := NewBinReaderFromBuf(data)
	require.Equal(t, []byte{0xaa, 0xbb}, r.ReadVarBytes())
	require.Equal(t, "Sui", r.ReadString())
	require.Equal(t, "", r.ReadString())
	require.NoError(t, r.Finish())
}

func TestVarBytesPrealloc(t *testing.T) {
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}
	w := NewBufBinWriter()
	w.WriteVarBytes(payload)
	require.NoError(t, w.Err)
	require.GreaterOrEqual(t, w.buf.Cap(), ULEB128Size(300)+300)
	data := w.Bytes()
	require.Len(t, data, 2+300)
	require.Equal(t, []byte{0xac, 0x02}, data[:2])
	require.Equal(t, payload, data[2:])

	w = NewBufBinWriter()
	w.WriteString(strings.Repeat("x", 128))
	require.NoError(t, w.Err)
	require.Len(t, w.Bytes(), ULEB128Size(128)+128)
}

func TestInvalidUTF8(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{0x02, 0xff, 0xfe})
	require.Equal(t, "", r.ReadString())
	require.ErrorIs(t, r.Err, ErrInvalidUTF8)

	w := NewBufBinWriter()
	w.WriteString(string([]byte{0xc3, 0x28}))
	require.ErrorIs(t, w.Err, ErrInvalidUTF8)
}

func TestVarBytesLengthBeyondInput(t *testing.T) {
	r := NewBinReaderFromBuf(AppendULEB128(nil, 1<<30))
	require.Nil(t, r.ReadVarBytes())
	require.ErrorIs(t, r.Err, ErrUnexpectedEnd)

	r = NewBinReaderFromBuf(AppendULEB128(nil, MaxSequenceLength+1))
	r.ReadVarBytes()
	var lerr *LengthError
	require.ErrorAs(t, r.Err, &lerr)

	r = NewBinReaderFromBuf([]byte{0x03, 1, 2, 3})
	r.ReadVarBytes(2)
	require.ErrorAs(t, r.Err, &lerr)
	require.Equal(t, uint64(2), lerr.Max)
}

func TestFixedBytes(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteFixedBytes([]byte{1, 2, 3}, 4)
	var aerr *ArityError
	require.ErrorAs(t, w.Err, &aerr)
	require.Equal(t, 4, aerr.Expected)
	require.Equal(t, 3, aerr.Actual)

	w = NewBufBinWriter()
	w.WriteFixedBytes([]byte{1, 2, 3, 4}, 4)
	data := w.Bytes()
	require.Equal(t, []byte{1, 2, 3, 4}, data)

	r := NewBinReaderFromBuf(data)
	require.Equal(t, []byte{1, 2}, r.ReadFixedBytes(2))
	require.Equal(t, []byte{3, 4}, r.ReadFixedBytes(2))
	require.NoError(t, r.Finish())
}

func TestBufBinWriterDrain(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteU8(1)
	require.Equal(t, 1, w.Len())
	require.Equal(t, []byte{1}, w.Bytes())
	w.WriteU8(2)
	require.Error(t, w.Err)

	w.Reset()
	require.NoError(t, w.Err)
	require.Equal(t, 0, w.Len())
}
