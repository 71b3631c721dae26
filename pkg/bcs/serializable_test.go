package bcs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	X uint32
	Y uint32
}

func (p *point) EncodeBCS(w *BinWriter) {
	w.WriteU32(p.X)
	w.WriteU32(p.Y)
}

func (p *point) DecodeBCS(r *BinReader) {
	p.X = r.ReadU32()
	p.Y = r.ReadU32()
}

type polygon struct {
	Name   string
	Points []point
}

func (p *polygon) EncodeBCS(w *BinWriter) {
	w.WriteString(p.Name)
	WriteArray(w, p.Points)
}

func (p *polygon) DecodeBCS(r *BinReader) {
	p.Name = r.ReadString()
	p.Points = ReadArray[point](r)
}

func TestMarshalUnmarshal(t *testing.T) {
	expected := &polygon{
		Name:   "tri",
		Points: []point{{1, 2}, {3, 4}, {5, 6}},
	}
	data, err := Marshal(expected)
	require.NoError(t, err)
	require.Equal(t, 1+3+1+3*8, len(data))

	again, err := Marshal(expected)
	require.NoError(t, err)
	require.Equal(t, data, again)

	actual := new(polygon)
	require.NoError(t, Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	data, err := Marshal(&point{1, 2})
	require.NoError(t, err)

	err = Unmarshal(append(data, 0), new(point))
	var terr *TrailingBytesError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 1, terr.Remaining)

	err = Unmarshal(data[:7], new(point))
	require.ErrorIs(t, err, ErrUnexpectedEnd)
}

func TestLengthPrefixConsistency(t *testing.T) {
	for _, n := range []int{0, 1, 127, 128, 300} {
		items := make([]uint64, n)
		for i := range items {
			items[i] = uint64(i)
		}
		w := NewBufBinWriter()
		WriteVector(w.BinWriter, items, writeU64)
		data := w.Bytes()

		prefix, size, err := ULEB128(data)
		require.NoError(t, err)
		require.Equal(t, uint64(n), prefix)
		require.Equal(t, size+8*n, len(data))

		r := NewBinReaderFromBuf(data)
		decoded := ReadVector(r, readU64)
		require.NoError(t, r.Finish())
		require.Len(t, decoded, n)
		require.Equal(t, items, decoded)
	}
}

func TestFixedArray(t *testing.T) {
	w := NewBufBinWriter()
	WriteFixedArray(w.BinWriter, []uint64{1, 2}, 3, writeU64)
	var aerr *ArityError
	require.ErrorAs(t, w.Err, &aerr)

	w = NewBufBinWriter()
	WriteFixedArray(w.BinWriter, []uint64{1, 2, 3}, 3, writeU64)
	data := w.Bytes()
	require.Len(t, data, 24)

	r := NewBinReaderFromBuf(data)
	require.Equal(t, []uint64{1, 2, 3}, ReadFixedArray(r, 3, readU64))
	require.NoError(t, r.Finish())
}

func TestReadFixedArrayBadSize(t *testing.T) {
	for _, n := range []int{-1, math.MinInt32, MaxSequenceLength + 1} {
		r := NewBinReaderFromBuf([]byte{1, 2, 3})
		require.Nil(t, ReadFixedArray(r, n, readU64))
		var lerr *LengthError
		require.ErrorAs(t, r.Err, &lerr)
	}

	// Large but legal counts fail on input, not on allocation.
	r := NewBinReaderFromBuf([]byte{1, 2, 3})
	require.Nil(t, ReadFixedArray(r, 1<<30, readU64))
	require.ErrorIs(t, r.Err, ErrUnexpectedEnd)
}
