/*
Package codec implements CLI commands for schema driven BCS encoding.
*/
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/suigo-dev/suigo/cli/options"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var (
	typeFlag = cli.StringFlag{
		Name:  "type, t",
		Usage: "type expression, like 'vector<u64>' or 'Option<ObjectRef>'",
	}
	layoutFlag = cli.StringSliceFlag{
		Name:  "layout, l",
		Usage: "layout YAML file with additional types (can be repeated)",
	}
)

// NewCommands returns 'bcs' command.
func NewCommands() []cli.Command {
	common := append([]cli.Flag{layoutFlag}, options.Common...)
	return []cli.Command{{
		Name:  "bcs",
		Usage: "Encode and decode BCS values",
		Subcommands: []cli.Command{
			{
				Name:      "decode",
				Usage:     "Decode value of the given type into JSON",
				UsageText: "decode --type <type> [--layout <file>] [--in <file>] [<data>]",
				Action:    decode,
				Flags:     append([]cli.Flag{typeFlag, options.In}, common...),
			},
			{
				Name:      "encode",
				Usage:     "Encode YAML (or JSON) value of the given type",
				UsageText: "encode --type <type> [--layout <file>] [--hex] <value>",
				Description: `Encodes the value and prints it in base64 (or hex with --hex).
   Structures are given as mappings of field names, enums as single entry
   mappings keyed by the variant name, integers as numbers or strings.
`,
				Action: encode,
				Flags: append([]cli.Flag{typeFlag, cli.BoolFlag{
					Name:  "hex",
					Usage: "print 0x-prefixed hex instead of base64",
				}}, common...),
			},
			{
				Name:      "types",
				Usage:     "List known type names",
				UsageText: "types [--layout <file>]",
				Action:    listTypes,
				Flags:     common,
			},
		},
	}}
}

// registry returns transaction schemas extended with the layouts from the
// configuration and the command line.
func registry(ctx *cli.Context) (*schema.Registry, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg := transaction.NewSchemas()
	files := append(cfg.Layouts, ctx.StringSlice("layout")...)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("can't read layout: %w", err)
		}
		if _, err := reg.LoadLayout(data); err != nil {
			return nil, fmt.Errorf("layout %s: %w", f, err)
		}
	}
	return reg, nil
}

func lookupType(ctx *cli.Context, reg *schema.Registry) (schema.Schema, error) {
	typ := ctx.String("type")
	if typ == "" {
		return nil, errors.New("no type given, use --type")
	}
	return reg.Lookup(typ)
}

func decode(ctx *cli.Context) error {
	reg, err := registry(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	s, err := lookupType(ctx, reg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := options.GetData(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	v, err := schema.Decode(s, data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	out, err := schema.ToJSONIndent(v, "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

func encode(ctx *cli.Context) error {
	reg, err := registry(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	s, err := lookupType(ctx, reg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !ctx.Args().Present() {
		return cli.NewExitError("no value given", 1)
	}
	var v any
	if err := yaml.Unmarshal([]byte(ctx.Args().First()), &v); err != nil {
		return cli.NewExitError(fmt.Errorf("invalid value: %w", err), 1)
	}
	if str, ok := v.(string); ok && s == schema.Bytes {
		v, err = options.DecodeData(str)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	data, err := schema.Encode(s, v)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if ctx.Bool("hex") {
		fmt.Fprintln(ctx.App.Writer, "0x"+hex.EncodeToString(data))
	} else {
		fmt.Fprintln(ctx.App.Writer, base64.StdEncoding.EncodeToString(data))
	}
	return nil
}

func listTypes(ctx *cli.Context) error {
	reg, err := registry(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, name := range reg.Names() {
		fmt.Fprintln(ctx.App.Writer, name)
	}
	return nil
}
