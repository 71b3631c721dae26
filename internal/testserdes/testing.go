package testserdes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
)

// MarshalUnmarshalJSON checks if expected stays the same after
// marshal/unmarshal via JSON.
func MarshalUnmarshalJSON(t *testing.T, expected, actual any) {
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

// EncodeDecodeBinary checks if expected stays the same after
// serializing/deserializing via bcs.Serializable methods.
func EncodeDecodeBinary(t *testing.T, expected, actual bcs.Serializable) {
	data, err := bcs.Marshal(expected)
	require.NoError(t, err)
	require.NoError(t, bcs.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

// EncodeDecodeSchema checks that data decoded with s encodes back into
// the same bytes, the decoded value is returned.
func EncodeDecodeSchema(t *testing.T, s schema.Schema, data []byte) schema.Value {
	v, err := schema.Decode(s, data)
	require.NoError(t, err)
	actual, err := schema.Encode(s, v)
	require.NoError(t, err)
	require.Equal(t, data, actual)
	return v
}

// SchemaMatchesBinary checks that v serialized via bcs.Serializable
// methods is the same as its schema encoding and survives a schema round
// trip.
func SchemaMatchesBinary(t *testing.T, s schema.Schema, v bcs.Serializable) {
	data, err := bcs.Marshal(v)
	require.NoError(t, err)
	EncodeDecodeSchema(t, s, data)
}
