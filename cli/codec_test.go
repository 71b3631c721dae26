package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const coinHex = "0x0000000000000000000000000000000000000000000000000000000000000005" + "0a00000000000000"

func TestBCSEncodeDecode(t *testing.T) {
	e := newExecutor(t)

	e.Run(t, "suigo", "bcs", "encode", "--layout", "testdata/coin_layout.yml", "--type", "Coin", "--hex",
		`{id: "0x5", balance: {value: 10}}`)
	e.checkNextLine(t, "^"+coinHex+"$")
	e.checkEOF(t)

	e.Run(t, "suigo", "bcs", "decode", "--layout", "testdata/coin_layout.yml", "--type", "Coin", coinHex)
	out := e.Out.String()
	require.Contains(t, out, `"id": "0x0000000000000000000000000000000000000000000000000000000000000005"`)
	require.Contains(t, out, `"value": "10"`)

	t.Run("builtin types", func(t *testing.T) {
		e.Run(t, "suigo", "bcs", "encode", "--type", "vector<u16>", "--hex", "[1, 2]")
		e.checkNextLine(t, "^0x0201000200$")

		e.Run(t, "suigo", "bcs", "encode", "--type", "vector<u8>", "0xcafe")
		e.checkNextLine(t, "^Asr\\+$")

		e.Run(t, "suigo", "bcs", "decode", "--type", "Option<u8>", "0x0107")
		e.checkNextLine(t, "^7$")
	})

	t.Run("layout from config", func(t *testing.T) {
		abs, err := filepath.Abs("testdata/coin_layout.yml")
		require.NoError(t, err)
		cfg := filepath.Join(t.TempDir(), "suigo.yml")
		require.NoError(t, os.WriteFile(cfg, []byte("Layouts:\n  - "+abs+"\n"), 0644))

		e.Run(t, "suigo", "bcs", "types", "--config-file", cfg)
		names := strings.Split(strings.TrimSpace(e.Out.String()), "\n")
		require.Contains(t, names, "Coin")
		require.Contains(t, names, "Balance")
		require.Contains(t, names, "TransactionData")
	})

	t.Run("errors", func(t *testing.T) {
		e.RunWithError(t, "suigo", "bcs", "decode", coinHex)
		e.RunWithError(t, "suigo", "bcs", "decode", "--type", "Coin", coinHex)
		e.RunWithError(t, "suigo", "bcs", "decode", "--layout", "testdata/missing.yml", "--type", "u8", "0x01")
		e.RunWithError(t, "suigo", "bcs", "decode", "--type", "u8", "0x0102")
		e.RunWithError(t, "suigo", "bcs", "encode", "--type", "u8")
		e.RunWithError(t, "suigo", "bcs", "encode", "--type", "u8", "300")
		e.RunWithError(t, "suigo", "bcs", "encode", "--type", "u8", "[unclosed")
	})
}
