package transaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/pkg/types"
)

func TestArgumentJSON(t *testing.T) {
	testCases := []struct {
		arg      Argument
		expected string
	}{
		{GasCoin(), `{"$kind":"GasCoin","GasCoin":true}`},
		{Input(3), `{"$kind":"Input","Input":3}`},
		{Result(1), `{"$kind":"Result","Result":1}`},
		{NestedResult(2, 1), `{"$kind":"NestedResult","NestedResult":[2,1]}`},
	}
	for _, tc := range testCases {
		data, err := json.Marshal(tc.arg)
		require.NoError(t, err)
		require.Equal(t, tc.expected, string(data))

		var actual Argument
		require.NoError(t, json.Unmarshal(data, &actual))
		require.Equal(t, tc.arg, actual)
	}

	var a Argument
	require.NoError(t, json.Unmarshal([]byte(`{"Input":7}`), &a))
	require.Equal(t, Input(7), a)
	require.Error(t, json.Unmarshal([]byte(`{"$kind":"Other","Other":1}`), &a))
	require.Error(t, json.Unmarshal([]byte(`{"NestedResult":[1]}`), &a))
}

func TestTransactionDataJSON(t *testing.T) {
	tx := testTransaction()
	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var actual TransactionData
	require.NoError(t, json.Unmarshal(data, &actual))

	expected, err := Serialize(tx)
	require.NoError(t, err)
	again, err := Serialize(&actual)
	require.NoError(t, err)
	require.Equal(t, expected, again)
}

func TestCallArgJSON(t *testing.T) {
	ref := types.ObjectRef{ObjectID: types.MustParseAddress("0x5"), Version: 2}
	for _, arg := range []CallArg{
		PureArg([]byte{1, 255}),
		ObjectCallArg(ImmOrOwnedObject(ref)),
		ObjectCallArg(ReceivingObject(ref)),
		ObjectCallArg(SharedObject(ref.ObjectID, 9, true)),
	} {
		data, err := json.Marshal(arg)
		require.NoError(t, err)
		var actual CallArg
		require.NoError(t, json.Unmarshal(data, &actual))
		require.True(t, arg.Equal(&actual), string(data))
	}

	var c CallArg
	require.Error(t, json.Unmarshal([]byte(`{"Pure":{"bytes":[256]}}`), &c))
}

func TestParseArgument(t *testing.T) {
	for _, a := range []Argument{GasCoin(), Input(0), Result(12), NestedResult(2, 1)} {
		actual, err := ParseArgument(a.String())
		require.NoError(t, err)
		require.Equal(t, a, actual)
	}
	a, err := ParseArgument(" NestedResult(3,4) ")
	require.NoError(t, err)
	require.Equal(t, NestedResult(3, 4), a)

	for _, s := range []string{"", "Gas", "Input", "Input(x)", "Input(70000)", "Result(1, 2)", "NestedResult(1)", "Input(1"} {
		_, err := ParseArgument(s)
		require.Error(t, err, s)
	}
}
