/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/suigo-dev/suigo/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigFile is a flag for commands that use the tool configuration.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file (defaults are used if not specified)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// Common is a set of flags every command accepts.
var Common = []cli.Flag{ConfigFile, Debug}

var errNoData = errors.New("no data given, pass it as an argument or use --in")

// GetConfigFromContext returns the configuration from the file set with
// --config-file or the default one.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	configFile := ctx.String("config-file")
	if len(configFile) == 0 {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

// GetLogger is a shortcut for HandleLoggingParams using the context flags.
func GetLogger(ctx *cli.Context, cfg config.Config) (*zap.Logger, func() error, error) {
	log, _, closer, err := HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	return log, closer, err
}

var (
	// _winfileSinkRegistered denotes whether zap has registered
	// user-supplied factory for all sinks with `winfile`-prefixed scheme.
	_winfileSinkRegistered bool
	_winfileSinkCloser     func() error
)

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
// If logPath is configured on Windows -- function returns closer to be
// able to close sink for the opened log output file.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, func() error, error) {
	var (
		level = zapcore.WarnLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, nil, fmt.Errorf("could not create dir for logger: %w", err)
		}

		if runtime.GOOS == "windows" {
			if err := registerWinfileSink(); err != nil {
				return nil, nil, nil, err
			}
			logPath = "winfile:///" + logPath
		}

		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, _winfileSinkCloser, err
}

// registerWinfileSink works around https://github.com/uber-go/zap/issues/621.
func registerWinfileSink() error {
	if _winfileSinkRegistered {
		return nil
	}
	err := zap.RegisterSink("winfile", func(u *url.URL) (zap.Sink, error) {
		if u.User != nil || u.Fragment != "" || u.RawQuery != "" || u.Port() != "" {
			return nil, fmt.Errorf("only a plain path is allowed in file URLs: got %v", u)
		}
		if hn := u.Hostname(); hn != "" && hn != "localhost" {
			return nil, fmt.Errorf("file URLs must leave host empty or use localhost: got %v", u)
		}
		f, err := os.OpenFile(u.Path[1:], // Remove leading slash left after url.Parse.
			os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		_winfileSinkCloser = func() error {
			_winfileSinkCloser = nil
			return f.Close()
		}
		return f, err
	})
	if err != nil {
		return fmt.Errorf("failed to register windows-specific sink: %w", err)
	}
	_winfileSinkRegistered = true
	return nil
}

// In is a flag for commands reading encoded data from a file.
var In = cli.StringFlag{
	Name:  "in, i",
	Usage: "file to read the data from (instead of the argument)",
}

// GetData returns the bytes given as the first argument or read from the
// --in file. Data is 0x-prefixed hex or base64.
func GetData(ctx *cli.Context) ([]byte, error) {
	var s string
	if in := ctx.String("in"); in != "" {
		raw, err := os.ReadFile(in)
		if err != nil {
			return nil, fmt.Errorf("can't read input: %w", err)
		}
		s = string(raw)
	} else {
		if !ctx.Args().Present() {
			return nil, errNoData
		}
		s = ctx.Args().First()
	}
	return DecodeData(s)
}

// DecodeData decodes 0x-prefixed hex or standard base64.
func DecodeData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		data, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return data, nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return data, nil
}
