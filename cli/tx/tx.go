/*
Package tx implements transaction related CLI commands.
*/
package tx

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/suigo-dev/suigo/cli/options"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/config"
	"github.com/suigo-dev/suigo/pkg/crypto/keys"
	"github.com/suigo-dev/suigo/pkg/ptb"
	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var kindFlag = cli.BoolFlag{
	Name:  "kind, k",
	Usage: "data is a TransactionKind instead of TransactionData",
}

// NewCommands returns 'tx' command.
func NewCommands() []cli.Command {
	dataFlags := append([]cli.Flag{options.In}, options.Common...)
	decodeFlags := append([]cli.Flag{kindFlag, cli.BoolFlag{
		Name:  "typed",
		Usage: "decode into typed structures instead of schema values",
	}}, dataFlags...)
	buildFlags := append([]cli.Flag{
		kindFlag,
		cli.StringFlag{Name: "sender, s", Usage: "transaction sender (overrides description and configuration)"},
		cli.Uint64Flag{Name: "gas-budget", Usage: "gas budget (overrides description and configuration)"},
		cli.Uint64Flag{Name: "gas-price", Usage: "gas price (overrides description and configuration)"},
	}, options.Common...)
	keyFlags := append([]cli.Flag{
		cli.StringFlag{Name: "key", Usage: "bech32 (suiprivkey...) or hex-encoded 32 byte private key"},
		cli.StringFlag{Name: "scheme", Value: keys.SchemeEd25519.String(), Usage: "signature scheme (ed25519 or secp256k1)"},
	}, dataFlags...)
	verifyFlags := append([]cli.Flag{
		cli.StringFlag{Name: "signature", Usage: "base64-encoded serialized signature"},
	}, dataFlags...)
	return []cli.Command{{
		Name:  "tx",
		Usage: "Build, inspect and sign transactions",
		Subcommands: []cli.Command{
			{
				Name:      "decode",
				Usage:     "Decode BCS transaction data into JSON",
				UsageText: "decode [--kind] [--typed] [--in <file>] [<data>]",
				Description: `Decodes hex (0x-prefixed) or base64 encoded transaction bytes and
   prints them as JSON. Enums are printed with the "$kind" member naming the
   variant.
`,
				Action: decodeTx,
				Flags:  decodeFlags,
			},
			{
				Name:      "digest",
				Usage:     "Print transaction digest",
				UsageText: "digest [--in <file>] [<data>]",
				Action:    digestTx,
				Flags:     dataFlags,
			},
			{
				Name:      "build",
				Usage:     "Build a programmable transaction from YAML description",
				UsageText: "build --in <file.yml> [--kind] [--sender <address>] [--gas-budget <n>] [--gas-price <n>]",
				Description: `Builds a programmable transaction and prints its base64 BCS encoding
   followed by the digest (unless --kind is given). Gas parameters missing
   from the description are taken from the configuration.
`,
				Action: buildTx,
				Flags:  append(buildFlags, options.In),
			},
			{
				Name:      "sign",
				Usage:     "Sign transaction data",
				UsageText: "sign --key <key> [--scheme <scheme>] [--in <file>] [<data>]",
				Action:    signTx,
				Flags:     keyFlags,
			},
			{
				Name:      "verify",
				Usage:     "Verify transaction signature and print the signer address",
				UsageText: "verify --signature <base64> [--in <file>] [<data>]",
				Action:    verifyTx,
				Flags:     verifyFlags,
			},
		},
	}}
}

func decodeTx(ctx *cli.Context) error {
	data, err := options.GetData(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var out []byte
	if ctx.Bool("typed") {
		out, err = decodeTyped(data, ctx.Bool("kind"))
	} else {
		name := "TransactionData"
		if ctx.Bool("kind") {
			name = "TransactionKind"
		}
		var v schema.Value
		v, err = transaction.Schemas().Decode(name, data)
		if err == nil {
			out, err = schema.ToJSONIndent(v, "  ")
		}
	}
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to decode transaction: %w", err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

func decodeTyped(data []byte, kind bool) ([]byte, error) {
	if kind {
		k, err := transaction.DeserializeKind(data)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(k, "", "  ")
	}
	t, err := transaction.Deserialize(data)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(t, "", "  ")
}

func digestTx(ctx *cli.Context) error {
	data, err := options.GetData(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if _, err := transaction.Deserialize(data); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, transaction.DigestOf(data))
	return nil
}

func buildTx(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, closer, err := options.GetLogger(ctx, cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() {
		_ = log.Sync()
		if closer != nil {
			_ = closer()
		}
	}()

	in := ctx.String("in")
	if in == "" {
		return cli.NewExitError("no transaction description given, use --in", 1)
	}
	raw, err := os.ReadFile(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	desc, err := parseDescription(raw)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	opts := []ptb.Option{ptb.WithLogger(log)}
	if desc.Dedup {
		opts = append(opts, ptb.WithInputDedup())
	}
	b := ptb.New(opts...)
	if err := desc.apply(b, transaction.Schemas()); err != nil {
		return cli.NewExitError(err, 1)
	}

	var res []byte
	if ctx.Bool("kind") {
		res, err = b.BuildKind()
	} else {
		if err := setGas(ctx, b, desc, cfg.Defaults); err != nil {
			return cli.NewExitError(err, 1)
		}
		res, err = b.Build()
	}
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to build transaction: %w", err), 1)
	}
	log.Debug("transaction description processed",
		zap.String("file", in),
		zap.Int("inputs", b.Inputs()),
		zap.Int("commands", b.Commands()))

	fmt.Fprintln(ctx.App.Writer, base64.StdEncoding.EncodeToString(res))
	if !ctx.Bool("kind") {
		fmt.Fprintln(ctx.App.Writer, transaction.DigestOf(res))
	}
	return nil
}

// setGas applies gas parameters: flags first, then the description, then
// the configuration defaults.
func setGas(ctx *cli.Context, b *ptb.Builder, desc *description, defaults config.Defaults) error {
	var sender *types.Address
	switch {
	case ctx.String("sender") != "":
		a, err := types.ParseAddress(ctx.String("sender"))
		if err != nil {
			return fmt.Errorf("invalid sender: %w", err)
		}
		sender = &a
	case desc.Sender != nil:
		sender = desc.Sender
	case defaults.Sender != "":
		a, err := types.ParseAddress(defaults.Sender)
		if err != nil {
			return fmt.Errorf("invalid default sender: %w", err)
		}
		sender = &a
	}
	if sender != nil {
		if err := b.SetSender(*sender); err != nil {
			return err
		}
	}
	if desc.GasOwner != nil {
		if err := b.SetGasOwner(*desc.GasOwner); err != nil {
			return err
		}
	}

	price := firstNonZero(ctx.Uint64("gas-price"), desc.GasPrice, defaults.GasPrice)
	if err := b.SetGasPrice(price); err != nil {
		return err
	}
	budget := firstNonZero(ctx.Uint64("gas-budget"), desc.GasBudget, defaults.GasBudget)
	if err := b.SetGasBudget(budget); err != nil {
		return err
	}
	refs := make([]types.ObjectRef, len(desc.GasPayment))
	for i := range desc.GasPayment {
		refs[i] = desc.GasPayment[i].ref()
	}
	if err := b.SetGasPayment(refs...); err != nil {
		return err
	}
	if desc.Expiration != nil {
		return b.SetExpiration(transaction.EpochExpiration(*desc.Expiration))
	}
	return nil
}

func firstNonZero(vs ...uint64) uint64 {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}

func signTx(ctx *cli.Context) error {
	signer, err := getSigner(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := options.GetData(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if _, err := transaction.Deserialize(data); err != nil {
		return cli.NewExitError(err, 1)
	}
	sig, err := keys.SignTransactionBase64(signer, data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, sig)
	return nil
}

// getSigner creates a signer from a bech32 key or a hex key of the
// --scheme scheme.
func getSigner(ctx *cli.Context) (keys.Signer, error) {
	key := ctx.String("key")
	if keys.IsEncodedPrivateKey(key) {
		return keys.NewSignerFromString(key)
	}
	scheme, err := keys.ParseScheme(ctx.String("scheme"))
	if err != nil {
		return nil, err
	}
	priv, err := hex.DecodeString(strings.TrimPrefix(key, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	return keys.NewSigner(scheme, priv)
}

func verifyTx(ctx *cli.Context) error {
	sig, err := base64.StdEncoding.DecodeString(ctx.String("signature"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid signature: %w", err), 1)
	}
	data, err := options.GetData(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	addr, err := keys.VerifyTransaction(sig, data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, addr)
	return nil
}
