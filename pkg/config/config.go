package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/suigo-dev/suigo/pkg/types"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultGasBudget is used when neither the config nor the transaction
	// description sets a budget.
	DefaultGasBudget = 50_000_000
	// DefaultGasPrice is the reference gas price used by default.
	DefaultGasPrice = 1000
)

// Version is the version of the tool, set at build time.
var Version string

// Config is the top level CLI configuration.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	Defaults                 Defaults                 `yaml:"Defaults"`
	// Layouts are schema layout files loaded into the registry used by
	// the bcs commands.
	Layouts []string `yaml:"Layouts"`
}

// Defaults are transaction parameters used when a transaction description
// omits them.
type Defaults struct {
	GasBudget uint64 `yaml:"GasBudget"`
	GasPrice  uint64 `yaml:"GasPrice"`
	Sender    string `yaml:"Sender"`
}

// Default returns the configuration used without a config file.
func Default() Config {
	return Config{
		Defaults: Defaults{
			GasBudget: DefaultGasBudget,
			GasPrice:  DefaultGasPrice,
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// default configuration.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, unknown fields are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Defaults.Sender != "" {
		if _, err := types.ParseAddress(c.Defaults.Sender); err != nil {
			return fmt.Errorf("invalid default sender: %w", err)
		}
	}
	if c.Defaults.GasBudget == 0 {
		return errors.New("default gas budget can't be zero")
	}
	return c.ApplicationConfiguration.Validate()
}
