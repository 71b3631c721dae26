package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/pkg/bcs"
)

func TestParseTypeTag(t *testing.T) {
	sui := "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"
	testCases := []struct {
		in       string
		expected string
	}{
		{"u8", "u8"},
		{"address", "address"},
		{"vector<u256>", "vector<u256>"},
		{"vector < vector<bool> >", "vector<vector<bool>>"},
		{"0x2::sui::SUI", sui},
		{"0x2::coin::Coin<0x2::sui::SUI>", "0x0000000000000000000000000000000000000000000000000000000000000002::coin::Coin<" + sui + ">"},
		{"0x3::m::Pair<u8, vector<u64>>", "0x0000000000000000000000000000000000000000000000000000000000000003::m::Pair<u8, vector<u64>>"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			tag, err := ParseTypeTag(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.expected, tag.String())

			data, err := bcs.Marshal(&tag)
			require.NoError(t, err)
			var decoded TypeTag
			require.NoError(t, bcs.Unmarshal(data, &decoded))
			require.Equal(t, tag, decoded)
		})
	}

	for _, bad := range []string{"", "u7", "vector<u8, u8>", "vector<u8", "0x2::coin", "0x2::1coin::Coin", "0x2::coin::Coin<u8> x"} {
		_, err := ParseTypeTag(bad)
		require.Error(t, err, bad)
	}
}

func TestTypeTagWire(t *testing.T) {
	tag := MustParseTypeTag("vector<u16>")
	data, err := bcs.Marshal(&tag)
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TypeVector), byte(TypeU16)}, data)

	st, err := ParseStructTag("0x2::sui::SUI")
	require.NoError(t, err)
	data, err = bcs.Marshal(&st)
	require.NoError(t, err)
	require.Equal(t, 32+4+4+1, len(data))

	var decoded TypeTag
	require.ErrorIs(t, bcs.Unmarshal([]byte{11}, &decoded), ErrInvalidTypeTag)

	deep := make([]byte, maxTypeTagDepth+2)
	for i := range deep {
		deep[i] = byte(TypeVector)
	}
	require.ErrorIs(t, bcs.Unmarshal(deep, &decoded), ErrTypeTagTooDeep)

	_, err = ParseStructTag("u8")
	require.ErrorIs(t, err, ErrInvalidTypeTag)
}

func TestIsValidIdentifier(t *testing.T) {
	require.True(t, IsValidIdentifier("coin"))
	require.True(t, IsValidIdentifier("_x1"))
	require.False(t, IsValidIdentifier("_"))
	require.False(t, IsValidIdentifier("1a"))
	require.False(t, IsValidIdentifier("a-b"))
}
