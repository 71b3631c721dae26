package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/internal/testserdes"
	"github.com/suigo-dev/suigo/pkg/bcs"
)

func TestNormalizeAddress(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"0x2", "0x" + strings.Repeat("0", 63) + "2"},
		{"2", "0x" + strings.Repeat("0", 63) + "2"},
		{"0xABCDEF", "0x" + strings.Repeat("0", 58) + "abcdef"},
		{"0x" + strings.Repeat("f", 64), "0x" + strings.Repeat("f", 64)},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			actual, err := NormalizeAddress(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}

	for _, bad := range []string{"", "0x", "0xzz", strings.Repeat("1", 65)} {
		_, err := NormalizeAddress(bad)
		require.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestAddress(t *testing.T) {
	a := MustParseAddress("0x2")
	require.Equal(t, byte(2), a[31])
	require.Equal(t, "0x2", a.ShortString())
	require.Equal(t, "0x0", Address{}.ShortString())
	require.True(t, Address{}.IsZero())

	data, err := bcs.Marshal(&a)
	require.NoError(t, err)
	require.Len(t, data, AddressLength)
	var b Address
	require.NoError(t, bcs.Unmarshal(data, &b))
	require.Equal(t, a, b)

	js, err := json.Marshal(a)
	require.NoError(t, err)
	require.Equal(t, `"`+a.String()+`"`, string(js))
	var c Address
	require.NoError(t, json.Unmarshal([]byte(`"0x2"`), &c))
	require.Equal(t, a, c)
	require.Error(t, json.Unmarshal([]byte(`"0xq"`), &c))

	_, err = AddressFromBytes([]byte{1})
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDigest(t *testing.T) {
	var d Digest
	for i := range d {
		d[i] = byte(i)
	}
	p, err := ParseDigest(d.String())
	require.NoError(t, err)
	require.Equal(t, d, p)

	data, err := bcs.Marshal(&d)
	require.NoError(t, err)
	require.Equal(t, byte(32), data[0])
	require.Len(t, data, 33)

	var e Digest
	require.NoError(t, bcs.Unmarshal(data, &e))
	require.Equal(t, d, e)

	short := append([]byte{31}, d[:31]...)
	require.ErrorIs(t, bcs.Unmarshal(short, &e), ErrInvalidDigest)

	_, err = ParseDigest("0OIl")
	require.ErrorIs(t, err, ErrInvalidDigest)
	_, err = ParseDigest("1111")
	require.ErrorIs(t, err, ErrInvalidDigest)
}

func TestObjectRef(t *testing.T) {
	ref := ObjectRef{ObjectID: MustParseAddress("0x5"), Version: 7}
	ref.Digest[0] = 1
	data, err := bcs.Marshal(&ref)
	require.NoError(t, err)
	require.Len(t, data, 32+8+33)

	testserdes.EncodeDecodeBinary(t, &ref, new(ObjectRef))
	testserdes.MarshalUnmarshalJSON(t, &ref, new(ObjectRef))
}
