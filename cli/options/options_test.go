package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
)

func TestGetConfigFromContext(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, config.Default(), cfg)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suigo.yml")
		require.NoError(t, os.WriteFile(path, []byte("Defaults:\n  GasPrice: 5\n"), 0644))
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.String("config-file", path, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(5), cfg.Defaults.GasPrice)
	})
}

func TestHandleLoggingParams(t *testing.T) {
	d := t.TempDir()
	testLog := filepath.Join(d, "file.log")

	t.Run("logdir is a file", func(t *testing.T) {
		logfile := filepath.Join(d, "logdir")
		require.NoError(t, os.WriteFile(logfile, []byte{1, 2, 3}, 0644))
		cfg := config.ApplicationConfiguration{
			LogPath: filepath.Join(logfile, "file.log"),
		}
		_, lvl, closer, err := HandleLoggingParams(false, cfg)
		require.Error(t, err)
		require.Nil(t, lvl)
		require.Nil(t, closer)
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogPath:  testLog,
			LogLevel: "qwerty",
		}
		_, lvl, closer, err := HandleLoggingParams(false, cfg)
		require.Error(t, err)
		require.Nil(t, lvl)
		require.Nil(t, closer)
	})

	t.Run("default", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogPath: testLog,
		}
		logger, lvl, closer, err := HandleLoggingParams(false, cfg)
		require.NoError(t, err)
		t.Cleanup(func() {
			if closer != nil {
				require.NoError(t, closer())
			}
		})
		require.Equal(t, zapcore.WarnLevel, lvl.Level())
		require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
		require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("debug overrides", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogPath:  testLog,
			LogLevel: "error",
		}
		logger, lvl, closer, err := HandleLoggingParams(true, cfg)
		require.NoError(t, err)
		t.Cleanup(func() {
			if closer != nil {
				require.NoError(t, closer())
			}
		})
		require.Equal(t, zapcore.DebugLevel, lvl.Level())
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestDecodeData(t *testing.T) {
	data, err := DecodeData("0x0102ff")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 0xff}, data)

	data, err = DecodeData(" AQL/\n")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 0xff}, data)

	_, err = DecodeData("0xzz")
	require.Error(t, err)
	_, err = DecodeData("!!")
	require.Error(t, err)
}

func TestGetData(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	_, err := GetData(ctx)
	require.ErrorIs(t, err, errNoData)

	path := filepath.Join(t.TempDir(), "tx.b64")
	require.NoError(t, os.WriteFile(path, []byte("AQI=\n"), 0644))
	set = flag.NewFlagSet("flagSet", flag.ExitOnError)
	set.String("in", path, "")
	ctx = cli.NewContext(cli.NewApp(), set, nil)
	data, err := GetData(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, data)

	set = flag.NewFlagSet("flagSet", flag.ExitOnError)
	require.NoError(t, set.Parse([]string{"0x0a"}))
	ctx = cli.NewContext(cli.NewApp(), set, nil)
	data, err = GetData(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{10}, data)
}
