package transaction

import (
	"fmt"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/types"
)

// CommandKind is a Command variant, values are wire tags.
type CommandKind uint8

// Command variants.
const (
	CommandMoveCall CommandKind = iota
	CommandTransferObjects
	CommandSplitCoins
	CommandMergeCoins
	CommandPublish
	CommandMakeMoveVec
	CommandUpgrade
)

// Command is a single step of a programmable transaction.
type Command interface {
	bcs.Serializable
	Kind() CommandKind
	// Args returns every argument the command references.
	Args() []Argument
}

// commandTypes maps wire tags to constructors, the tag is the array index.
var commandTypes = [...]struct {
	name string
	make func() Command
}{
	CommandMoveCall:        {"MoveCall", func() Command { return new(MoveCall) }},
	CommandTransferObjects: {"TransferObjects", func() Command { return new(TransferObjects) }},
	CommandSplitCoins:      {"SplitCoins", func() Command { return new(SplitCoins) }},
	CommandMergeCoins:      {"MergeCoins", func() Command { return new(MergeCoins) }},
	CommandPublish:         {"Publish", func() Command { return new(Publish) }},
	CommandMakeMoveVec:     {"MakeMoveVec", func() Command { return new(MakeMoveVec) }},
	CommandUpgrade:         {"Upgrade", func() Command { return new(Upgrade) }},
}

// String implements fmt.Stringer.
func (k CommandKind) String() string {
	if int(k) < len(commandTypes) {
		return commandTypes[k].name
	}
	return fmt.Sprintf("CommandKind(%d)", uint8(k))
}

// NewCommand returns an empty command of the given kind.
func NewCommand(k CommandKind) (Command, error) {
	if int(k) >= len(commandTypes) {
		return nil, &schema.UnknownVariantError{Enum: "Command", Index: uint32(k)}
	}
	return commandTypes[k].make(), nil
}

// EncodeCommand writes the variant tag followed by the command.
func EncodeCommand(w *bcs.BinWriter, c Command) {
	if c == nil {
		w.SetError(fmt.Errorf("command: %w", ErrMissingPayload))
		return
	}
	w.WriteULEB128(uint64(c.Kind()))
	c.EncodeBCS(w)
}

// DecodeCommand reads a tagged command.
func DecodeCommand(r *bcs.BinReader) Command {
	idx := r.ReadVariantIndex()
	if r.Err != nil {
		return nil
	}
	if idx >= uint32(len(commandTypes)) {
		r.SetError(&schema.UnknownVariantError{Enum: "Command", Index: idx})
		return nil
	}
	c := commandTypes[idx].make()
	c.DecodeBCS(r)
	if r.Err != nil {
		return nil
	}
	return c
}

// MarshalCommandJSON renders c in the {"$kind": ...} form.
func MarshalCommandJSON(c Command) ([]byte, error) {
	return json.Marshal(kindObject(c.Kind().String(), c))
}

// UnmarshalCommandJSON parses a command in the {"$kind": ...} form.
func UnmarshalCommandJSON(data []byte) (Command, error) {
	kind, payload, err := splitKind(data)
	if err != nil {
		return nil, err
	}
	for i := range commandTypes {
		if commandTypes[i].name == kind {
			c := commandTypes[i].make()
			if err := json.Unmarshal(payload, c); err != nil {
				return nil, fmt.Errorf("%s: %w", kind, err)
			}
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown command kind %q", kind)
}

// MoveCall calls a Move function.
type MoveCall struct {
	Package       types.ObjectID  `json:"package"`
	Module        string          `json:"module"`
	Function      string          `json:"function"`
	TypeArguments []types.TypeTag `json:"typeArguments"`
	Arguments     []Argument      `json:"arguments"`
}

// Kind implements Command.
func (c *MoveCall) Kind() CommandKind { return CommandMoveCall }

// Args implements Command.
func (c *MoveCall) Args() []Argument { return c.Arguments }

// EncodeBCS implements bcs.Serializable.
func (c *MoveCall) EncodeBCS(w *bcs.BinWriter) {
	c.Package.EncodeBCS(w)
	w.WriteString(c.Module)
	w.WriteString(c.Function)
	bcs.WriteArray(w, c.TypeArguments)
	bcs.WriteArray(w, c.Arguments)
}

// DecodeBCS implements bcs.Serializable.
func (c *MoveCall) DecodeBCS(r *bcs.BinReader) {
	c.Package.DecodeBCS(r)
	c.Module = r.ReadString()
	c.Function = r.ReadString()
	c.TypeArguments = bcs.ReadArray[types.TypeTag](r)
	c.Arguments = bcs.ReadArray[Argument](r)
}

// TransferObjects sends objects to an address.
type TransferObjects struct {
	Objects []Argument `json:"objects"`
	Address Argument   `json:"address"`
}

// Kind implements Command.
func (c *TransferObjects) Kind() CommandKind { return CommandTransferObjects }

// Args implements Command.
func (c *TransferObjects) Args() []Argument {
	return append(append([]Argument{}, c.Objects...), c.Address)
}

// EncodeBCS implements bcs.Serializable.
func (c *TransferObjects) EncodeBCS(w *bcs.BinWriter) {
	bcs.WriteArray(w, c.Objects)
	c.Address.EncodeBCS(w)
}

// DecodeBCS implements bcs.Serializable.
func (c *TransferObjects) DecodeBCS(r *bcs.BinReader) {
	c.Objects = bcs.ReadArray[Argument](r)
	c.Address.DecodeBCS(r)
}

// SplitCoins splits amounts off a coin, producing one result per amount.
type SplitCoins struct {
	Coin    Argument   `json:"coin"`
	Amounts []Argument `json:"amounts"`
}

// Kind implements Command.
func (c *SplitCoins) Kind() CommandKind { return CommandSplitCoins }

// Args implements Command.
func (c *SplitCoins) Args() []Argument {
	return append([]Argument{c.Coin}, c.Amounts...)
}

// EncodeBCS implements bcs.Serializable.
func (c *SplitCoins) EncodeBCS(w *bcs.BinWriter) {
	c.Coin.EncodeBCS(w)
	bcs.WriteArray(w, c.Amounts)
}

// DecodeBCS implements bcs.Serializable.
func (c *SplitCoins) DecodeBCS(r *bcs.BinReader) {
	c.Coin.DecodeBCS(r)
	c.Amounts = bcs.ReadArray[Argument](r)
}

// MergeCoins merges sources into the destination coin.
type MergeCoins struct {
	Destination Argument   `json:"destination"`
	Sources     []Argument `json:"sources"`
}

// Kind implements Command.
func (c *MergeCoins) Kind() CommandKind { return CommandMergeCoins }

// Args implements Command.
func (c *MergeCoins) Args() []Argument {
	return append([]Argument{c.Destination}, c.Sources...)
}

// EncodeBCS implements bcs.Serializable.
func (c *MergeCoins) EncodeBCS(w *bcs.BinWriter) {
	c.Destination.EncodeBCS(w)
	bcs.WriteArray(w, c.Sources)
}

// DecodeBCS implements bcs.Serializable.
func (c *MergeCoins) DecodeBCS(r *bcs.BinReader) {
	c.Destination.DecodeBCS(r)
	c.Sources = bcs.ReadArray[Argument](r)
}

// Publish publishes a new package.
type Publish struct {
	Modules      [][]byte         `json:"modules"`
	Dependencies []types.ObjectID `json:"dependencies"`
}

// Kind implements Command.
func (c *Publish) Kind() CommandKind { return CommandPublish }

// Args implements Command.
func (c *Publish) Args() []Argument { return nil }

// EncodeBCS implements bcs.Serializable.
func (c *Publish) EncodeBCS(w *bcs.BinWriter) {
	bcs.WriteVector(w, c.Modules, (*bcs.BinWriter).WriteVarBytes)
	bcs.WriteArray(w, c.Dependencies)
}

// DecodeBCS implements bcs.Serializable.
func (c *Publish) DecodeBCS(r *bcs.BinReader) {
	c.Modules = bcs.ReadVector(r, readVarBytes)
	c.Dependencies = bcs.ReadArray[types.ObjectID](r)
}

// MakeMoveVec builds a vector out of elements, the type is required when
// there are no elements.
type MakeMoveVec struct {
	Type     bcs.Option[types.TypeTag] `json:"type"`
	Elements []Argument                `json:"elements"`
}

// Kind implements Command.
func (c *MakeMoveVec) Kind() CommandKind { return CommandMakeMoveVec }

// Args implements Command.
func (c *MakeMoveVec) Args() []Argument { return c.Elements }

// EncodeBCS implements bcs.Serializable.
func (c *MakeMoveVec) EncodeBCS(w *bcs.BinWriter) {
	bcs.WriteOption(w, c.Type, func(w *bcs.BinWriter, t types.TypeTag) { t.EncodeBCS(w) })
	bcs.WriteArray(w, c.Elements)
}

// DecodeBCS implements bcs.Serializable.
func (c *MakeMoveVec) DecodeBCS(r *bcs.BinReader) {
	c.Type = bcs.ReadOption(r, func(r *bcs.BinReader) types.TypeTag {
		var t types.TypeTag
		t.DecodeBCS(r)
		return t
	})
	c.Elements = bcs.ReadArray[Argument](r)
}

// Upgrade upgrades a package using an upgrade ticket.
type Upgrade struct {
	Modules      [][]byte         `json:"modules"`
	Dependencies []types.ObjectID `json:"dependencies"`
	Package      types.ObjectID   `json:"package"`
	Ticket       Argument         `json:"ticket"`
}

// Kind implements Command.
func (c *Upgrade) Kind() CommandKind { return CommandUpgrade }

// Args implements Command.
func (c *Upgrade) Args() []Argument { return []Argument{c.Ticket} }

// EncodeBCS implements bcs.Serializable.
func (c *Upgrade) EncodeBCS(w *bcs.BinWriter) {
	bcs.WriteVector(w, c.Modules, (*bcs.BinWriter).WriteVarBytes)
	bcs.WriteArray(w, c.Dependencies)
	c.Package.EncodeBCS(w)
	c.Ticket.EncodeBCS(w)
}

// DecodeBCS implements bcs.Serializable.
func (c *Upgrade) DecodeBCS(r *bcs.BinReader) {
	c.Modules = bcs.ReadVector(r, readVarBytes)
	c.Dependencies = bcs.ReadArray[types.ObjectID](r)
	c.Package.DecodeBCS(r)
	c.Ticket.DecodeBCS(r)
}

func readVarBytes(r *bcs.BinReader) []byte {
	return r.ReadVarBytes()
}
