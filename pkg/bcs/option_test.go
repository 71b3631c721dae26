package bcs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeU64(w *BinWriter, v uint64) { w.WriteU64(v) }

func readU64(r *BinReader) uint64 { return r.ReadU64() }

func TestOptionEncoding(t *testing.T) {
	w := NewBufBinWriter()
	WriteOption(w.BinWriter, Some(uint64(5)), writeU64)
	WriteOption(w.BinWriter, None[uint64](), writeU64)
	require.NoError(t, w.Err)
	data := w.Bytes()
	require.Equal(t, []byte{1, 5, 0, 0, 0, 0, 0, 0, 0, 0}, data)

	r := NewBinReaderFromBuf(data)
	some := ReadOption(r, readU64)
	none := ReadOption(r, readU64)
	require.NoError(t, r.Finish())

	v, ok := some.Get()
	require.True(t, ok)
	require.Equal(t, uint64(5), v)
	require.False(t, none.IsSet())
	require.Equal(t, uint64(7), none.GetOr(7))
}

func TestOptionInvalidTag(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{2, 5, 0, 0, 0, 0, 0, 0, 0})
	o := ReadOption(r, readU64)
	require.False(t, o.IsSet())
	require.ErrorIs(t, r.Err, ErrInvalidOption)
}

func TestOptionVec(t *testing.T) {
	require.Equal(t, []uint64{}, None[uint64]().Vec())
	require.Equal(t, []uint64{3}, Some(uint64(3)).Vec())

	o, err := OptionFromVec([]uint64{3})
	require.NoError(t, err)
	require.Equal(t, Some(uint64(3)), o)

	o, err = OptionFromVec([]uint64{})
	require.NoError(t, err)
	require.False(t, o.IsSet())

	_, err = OptionFromVec([]uint64{1, 2})
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestOptionJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Option[uint32] `json:"a"`
		B Option[uint32] `json:"b"`
	}{A: Some(uint32(1))})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1,"b":null}`, string(data))

	var o Option[string]
	require.NoError(t, json.Unmarshal([]byte(`"x"`), &o))
	require.Equal(t, Some("x"), o)
	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	require.False(t, o.IsSet())
}
