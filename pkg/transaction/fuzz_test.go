package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzDeserialize(f *testing.F) {
	data, err := Serialize(testTransaction())
	require.NoError(f, err)
	f.Add(data)
	f.Add([]byte{0x00, 0x80, 0x02, 0x00, 0x00})
	f.Add([]byte{0x00, 0x00, 0x01, 0x00, 0x81, 0x02})
	f.Add([]byte{0x01})
	f.Add([]byte{})

	reg := Schemas()
	f.Fuzz(func(t *testing.T, data []byte) {
		var (
			tx  *TransactionData
			err error
		)
		require.NotPanics(t, func() {
			tx, err = Deserialize(data)
		})
		if err == nil {
			again, err := Serialize(tx)
			require.NoError(t, err)
			require.Equal(t, data, again)
		}

		var v any
		require.NotPanics(t, func() {
			v, err = reg.Decode("TransactionData", data)
		})
		if err == nil {
			again, err := reg.Encode("TransactionData", v)
			require.NoError(t, err)
			require.Equal(t, data, again)
		}
	})
}

func FuzzDeserializeKind(f *testing.F) {
	data, err := SerializeKind(&testTransaction().V1.Kind)
	require.NoError(f, err)
	f.Add(data)
	f.Add([]byte{0x00, 0x00, 0x01, 0x06, 0x06, 0x06})
	f.Add([]byte{0x07})

	f.Fuzz(func(t *testing.T, data []byte) {
		var k *TransactionKind
		var err error
		require.NotPanics(t, func() {
			k, err = DeserializeKind(data)
		})
		if err == nil {
			again, err := SerializeKind(k)
			require.NoError(t, err)
			require.Equal(t, data, again)
		}
	})
}
