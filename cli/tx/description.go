package tx

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/ptb"
	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
	"gopkg.in/yaml.v3"
)

// description is the YAML form of a programmable transaction accepted by
// the build command.
type description struct {
	Sender     *types.Address `yaml:"sender"`
	GasOwner   *types.Address `yaml:"gasOwner"`
	GasPrice   uint64         `yaml:"gasPrice"`
	GasBudget  uint64         `yaml:"gasBudget"`
	GasPayment []objectRef    `yaml:"gasPayment"`
	Expiration *uint64        `yaml:"expiration"`
	Inputs     []inputDesc    `yaml:"inputs"`
	Commands   []commandDesc  `yaml:"commands"`
	Dedup      bool           `yaml:"dedup"`
}

type objectRef struct {
	ID      types.ObjectID `yaml:"id"`
	Version uint64         `yaml:"version"`
	Digest  types.Digest   `yaml:"digest"`
}

func (o objectRef) ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: o.ID, Version: o.Version, Digest: o.Digest}
}

type pureDesc struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

type sharedDesc struct {
	ID                   types.ObjectID `yaml:"id"`
	InitialSharedVersion uint64         `yaml:"initialSharedVersion"`
	Mutable              bool           `yaml:"mutable"`
}

// inputDesc has exactly one of its fields set.
type inputDesc struct {
	Pure      *pureDesc   `yaml:"pure"`
	Object    *objectRef  `yaml:"object"`
	Shared    *sharedDesc `yaml:"shared"`
	Receiving *objectRef  `yaml:"receiving"`
}

type moveCallDesc struct {
	Target        string   `yaml:"target"`
	TypeArguments []string `yaml:"typeArguments"`
	Arguments     []string `yaml:"arguments"`
}

type transferDesc struct {
	Objects []string `yaml:"objects"`
	Address string   `yaml:"address"`
}

type splitDesc struct {
	Coin    string   `yaml:"coin"`
	Amounts []string `yaml:"amounts"`
}

type mergeDesc struct {
	Destination string   `yaml:"destination"`
	Sources     []string `yaml:"sources"`
}

type publishDesc struct {
	Modules      []string         `yaml:"modules"`
	Dependencies []types.ObjectID `yaml:"dependencies"`
}

type upgradeDesc struct {
	Modules      []string         `yaml:"modules"`
	Dependencies []types.ObjectID `yaml:"dependencies"`
	Package      types.ObjectID   `yaml:"package"`
	Ticket       string           `yaml:"ticket"`
}

type makeMoveVecDesc struct {
	Type     string   `yaml:"type"`
	Elements []string `yaml:"elements"`
}

// commandDesc has exactly one of its fields set.
type commandDesc struct {
	MoveCall        *moveCallDesc    `yaml:"moveCall"`
	TransferObjects *transferDesc    `yaml:"transferObjects"`
	SplitCoins      *splitDesc       `yaml:"splitCoins"`
	MergeCoins      *mergeDesc       `yaml:"mergeCoins"`
	Publish         *publishDesc     `yaml:"publish"`
	Upgrade         *upgradeDesc     `yaml:"upgrade"`
	MakeMoveVec     *makeMoveVecDesc `yaml:"makeMoveVec"`
}

func parseDescription(data []byte) (*description, error) {
	d := new(description)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(d); err != nil {
		return nil, fmt.Errorf("invalid transaction description: %w", err)
	}
	return d, nil
}

// apply adds inputs and commands of the description to b.
func (d *description) apply(b *ptb.Builder, reg *schema.Registry) error {
	for i, in := range d.Inputs {
		if err := addInput(b, reg, in); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	for i, c := range d.Commands {
		if err := addCommand(b, c); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}

func addInput(b *ptb.Builder, reg *schema.Registry, in inputDesc) error {
	var err error
	switch {
	case in.Pure != nil:
		var data []byte
		data, err = encodePure(reg, in.Pure)
		if err == nil {
			_, err = b.PureRaw(data)
		}
	case in.Object != nil:
		_, err = b.ImmOrOwnedObject(in.Object.ref())
	case in.Shared != nil:
		_, err = b.SharedObject(in.Shared.ID, in.Shared.InitialSharedVersion, in.Shared.Mutable)
	case in.Receiving != nil:
		_, err = b.ReceivingObject(in.Receiving.ref())
	default:
		err = errors.New("no input kind given")
	}
	return err
}

// encodePure serializes a YAML value with the named type. Hex strings are
// accepted for vector<u8>.
func encodePure(reg *schema.Registry, p *pureDesc) ([]byte, error) {
	if p.Type == "" {
		return nil, errors.New("pure input without type")
	}
	s, err := reg.Lookup(p.Type)
	if err != nil {
		return nil, err
	}
	v := p.Value
	if str, ok := v.(string); ok && s == schema.Bytes {
		v, err = hex.DecodeString(strings.TrimPrefix(str, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes: %w", err)
		}
	}
	return schema.Encode(s, v)
}

func parseArgs(ss []string) ([]transaction.Argument, error) {
	args := make([]transaction.Argument, len(ss))
	for i, s := range ss {
		a, err := transaction.ParseArgument(s)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}

func decodeModules(mods []string) ([][]byte, error) {
	res := make([][]byte, len(mods))
	for i, m := range mods {
		data, err := base64.StdEncoding.DecodeString(m)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		res[i] = data
	}
	return res, nil
}

func addCommand(b *ptb.Builder, c commandDesc) error {
	switch {
	case c.MoveCall != nil:
		args, err := parseArgs(c.MoveCall.Arguments)
		if err != nil {
			return err
		}
		_, err = b.MoveCall(c.MoveCall.Target, c.MoveCall.TypeArguments, args...)
		return err
	case c.TransferObjects != nil:
		objs, err := parseArgs(c.TransferObjects.Objects)
		if err != nil {
			return err
		}
		addr, err := transaction.ParseArgument(c.TransferObjects.Address)
		if err != nil {
			return err
		}
		_, err = b.TransferObjects(objs, addr)
		return err
	case c.SplitCoins != nil:
		coin, err := transaction.ParseArgument(c.SplitCoins.Coin)
		if err != nil {
			return err
		}
		amounts, err := parseArgs(c.SplitCoins.Amounts)
		if err != nil {
			return err
		}
		_, err = b.SplitCoins(coin, amounts...)
		return err
	case c.MergeCoins != nil:
		dst, err := transaction.ParseArgument(c.MergeCoins.Destination)
		if err != nil {
			return err
		}
		srcs, err := parseArgs(c.MergeCoins.Sources)
		if err != nil {
			return err
		}
		_, err = b.MergeCoins(dst, srcs...)
		return err
	case c.Publish != nil:
		mods, err := decodeModules(c.Publish.Modules)
		if err != nil {
			return err
		}
		_, err = b.Publish(mods, c.Publish.Dependencies)
		return err
	case c.Upgrade != nil:
		mods, err := decodeModules(c.Upgrade.Modules)
		if err != nil {
			return err
		}
		ticket, err := transaction.ParseArgument(c.Upgrade.Ticket)
		if err != nil {
			return err
		}
		_, err = b.Upgrade(mods, c.Upgrade.Dependencies, c.Upgrade.Package, ticket)
		return err
	case c.MakeMoveVec != nil:
		var typ bcs.Option[types.TypeTag]
		if c.MakeMoveVec.Type != "" {
			tag, err := types.ParseTypeTag(c.MakeMoveVec.Type)
			if err != nil {
				return err
			}
			typ = bcs.Some(tag)
		}
		elems, err := parseArgs(c.MakeMoveVec.Elements)
		if err != nil {
			return err
		}
		_, err = b.MakeMoveVec(typ, elems...)
		return err
	}
	return errors.New("no command kind given")
}
