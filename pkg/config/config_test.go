package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suigo.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
ApplicationConfiguration:
  LogLevel: debug
  LogPath: ./log/suigo.log
Defaults:
  GasPrice: 750
  Sender: "0x2"
Layouts:
  - ./layouts/coin.yml
`), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.ApplicationConfiguration.LogLevel)
	require.Equal(t, uint64(750), cfg.Defaults.GasPrice)
	require.Equal(t, uint64(DefaultGasBudget), cfg.Defaults.GasBudget)
	require.Equal(t, "0x2", cfg.Defaults.Sender)
	require.Equal(t, []string{"./layouts/coin.yml"}, cfg.Layouts)
}

func TestParseErrors(t *testing.T) {
	testCases := map[string]string{
		"unknown field": "Unknown: 1",
		"bad sender":    "Defaults:\n  Sender: zz",
		"bad level":     "ApplicationConfiguration:\n  LogLevel: loud",
		"zero budget":   "Defaults:\n  GasBudget: 0",
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
		})
	}

	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}
