package main

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/crypto/keys"
	"github.com/suigo-dev/suigo/pkg/ptb"
	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
)

const testKey = "0102030405060708091011121314151617181920212223242526272829303132"

// expectedTransfer builds testdata/split_transfer.yml with the library.
func expectedTransfer(t *testing.T) []byte {
	b := ptb.New()
	amount, err := b.PureU64(100)
	require.NoError(t, err)
	recipient, err := b.PureAddress(types.MustParseAddress("0xb0"))
	require.NoError(t, err)
	coins, err := b.SplitCoins(transaction.GasCoin(), amount)
	require.NoError(t, err)
	_, err = b.TransferObjects([]transaction.Argument{coins.Nested(0)}, recipient)
	require.NoError(t, err)

	require.NoError(t, b.SetSender(types.MustParseAddress("0xa11ce")))
	require.NoError(t, b.SetGasPrice(1000))
	require.NoError(t, b.SetGasBudget(20000000))
	require.NoError(t, b.SetGasPayment(types.ObjectRef{
		ObjectID: types.MustParseAddress("0x9a5"),
		Version:  7,
	}))
	data, err := b.Build()
	require.NoError(t, err)
	return data
}

func TestTxBuild(t *testing.T) {
	e := newExecutor(t)
	expected := expectedTransfer(t)

	e.Run(t, "suigo", "tx", "build", "--in", "testdata/split_transfer.yml")
	require.Equal(t, base64.StdEncoding.EncodeToString(expected), e.getNextLine(t))
	require.Equal(t, transaction.DigestOf(expected).String(), e.getNextLine(t))
	e.checkEOF(t)

	t.Run("overrides", func(t *testing.T) {
		e.Run(t, "suigo", "tx", "build", "--in", "testdata/split_transfer.yml",
			"--gas-budget", "5000", "--sender", "0x42")
		data, err := base64.StdEncoding.DecodeString(e.getNextLine(t))
		require.NoError(t, err)
		tx, err := transaction.Deserialize(data)
		require.NoError(t, err)
		require.Equal(t, uint64(5000), tx.V1.GasData.Budget)
		require.Equal(t, uint64(1000), tx.V1.GasData.Price)
		require.Equal(t, types.MustParseAddress("0x42"), tx.V1.Sender)
	})

	t.Run("kind", func(t *testing.T) {
		e.Run(t, "suigo", "tx", "build", "--kind", "--in", "testdata/split_transfer.yml")
		data, err := base64.StdEncoding.DecodeString(e.getNextLine(t))
		require.NoError(t, err)
		kind, err := transaction.DeserializeKind(data)
		require.NoError(t, err)
		require.Len(t, kind.Programmable.Commands, 2)
		e.checkEOF(t)
	})

	t.Run("errors", func(t *testing.T) {
		e.RunWithError(t, "suigo", "tx", "build")
		e.RunWithError(t, "suigo", "tx", "build", "--in", "testdata/missing.yml")
		e.RunWithError(t, "suigo", "tx", "build", "--kind", "--in", "testdata/dangling.yml")
		// No sender.
		e.RunWithError(t, "suigo", "tx", "build", "--in", "testdata/dangling.yml")
		e.RunWithError(t, "suigo", "tx", "build", "--in", "testdata/coin_layout.yml")
	})
}

func TestTxDecode(t *testing.T) {
	e := newExecutor(t)
	data := expectedTransfer(t)
	b64 := base64.StdEncoding.EncodeToString(data)

	e.Run(t, "suigo", "tx", "decode", b64)
	out := e.Out.String()
	require.Contains(t, out, `"$kind": "V1"`)
	require.Contains(t, out, `"$kind": "SplitCoins"`)
	require.Contains(t, out, `"budget": "20000000"`)

	e.Run(t, "suigo", "tx", "decode", "--typed", "0x"+hex.EncodeToString(data))
	require.Contains(t, e.Out.String(), `"$kind": "TransferObjects"`)

	kind, err := transaction.SerializeKind(&transaction.TransactionKind{Programmable: &transaction.ProgrammableTransaction{}})
	require.NoError(t, err)
	e.Run(t, "suigo", "tx", "decode", "--kind", base64.StdEncoding.EncodeToString(kind))
	require.Contains(t, e.Out.String(), `"$kind": "ProgrammableTransaction"`)

	e.RunWithError(t, "suigo", "tx", "decode")
	e.RunWithError(t, "suigo", "tx", "decode", "0x0001")
	e.RunWithError(t, "suigo", "tx", "decode", "--typed", b64+"AA==")
}

func TestTxDigest(t *testing.T) {
	e := newExecutor(t)
	data := expectedTransfer(t)

	e.Run(t, "suigo", "tx", "digest", base64.StdEncoding.EncodeToString(data))
	e.checkNextLine(t, "^"+transaction.DigestOf(data).String()+"$")
	e.checkEOF(t)

	e.RunWithError(t, "suigo", "tx", "digest", "0x01")
}

func TestTxSignVerify(t *testing.T) {
	e := newExecutor(t)
	data := expectedTransfer(t)
	b64 := base64.StdEncoding.EncodeToString(data)

	for _, scheme := range []keys.SignatureScheme{keys.SchemeEd25519, keys.SchemeSecp256k1} {
		t.Run(scheme.String(), func(t *testing.T) {
			priv, err := hex.DecodeString(testKey)
			require.NoError(t, err)
			signer, err := keys.NewSigner(scheme, priv)
			require.NoError(t, err)

			e.Run(t, "suigo", "tx", "sign", "--key", testKey, "--scheme", scheme.String(), b64)
			sig := e.getNextLine(t)
			e.checkEOF(t)

			e.Run(t, "suigo", "tx", "verify", "--signature", sig, b64)
			e.checkNextLine(t, "^"+signer.Address().String()+"$")

			e.RunWithError(t, "suigo", "tx", "verify", "--signature", sig, base64.StdEncoding.EncodeToString(expectedOther(t)))

			encoded, err := keys.EncodePrivateKey(scheme, priv)
			require.NoError(t, err)
			e.Run(t, "suigo", "tx", "sign", "--key", encoded, b64)
			require.Equal(t, sig, e.getNextLine(t))
		})
	}

	e.RunWithError(t, "suigo", "tx", "sign", "--key", testKey, "--scheme", "rsa", b64)
	e.RunWithError(t, "suigo", "tx", "sign", "--key", "zz", b64)
	e.RunWithError(t, "suigo", "tx", "sign", "--key", "0102", b64)
	e.RunWithError(t, "suigo", "tx", "sign", "--key", testKey, "AAAA")
	e.RunWithError(t, "suigo", "tx", "verify", "--signature", "!", b64)
}

func expectedOther(t *testing.T) []byte {
	b := ptb.New()
	require.NoError(t, b.TransferSui(types.MustParseAddress("0xb0"), bcs.None[uint64]()))
	require.NoError(t, b.SetSender(types.MustParseAddress("0xa11ce")))
	require.NoError(t, b.SetGasPrice(1000))
	require.NoError(t, b.SetGasBudget(1000))
	require.NoError(t, b.SetGasPayment(types.ObjectRef{ObjectID: types.MustParseAddress("0x9a5")}))
	data, err := b.Build()
	require.NoError(t, err)
	return data
}
