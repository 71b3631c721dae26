package ptb

import (
	"errors"
	"fmt"
	"math"

	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
	"go.uber.org/zap"
)

// maxArguments is the number of inputs or commands u16 indices can address.
const maxArguments = math.MaxUint16 + 1

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug messages.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// WithInputDedup makes Pure* and object helpers reuse identical inputs
// instead of appending duplicates. AddInput always appends.
func WithInputDedup() Option {
	return func(b *Builder) {
		b.dedup = true
	}
}

// Builder is used to create programmable transactions. Inputs are added
// with AddInput or one of the Pure/object helpers, each returning the
// Argument referring to it, commands are added with AddCommand or one of the
// command helpers that return the Result of the command. Every argument is
// checked when the command is added, so results can only be used by later
// commands. Gas data and sender are needed only for Build, BuildKind
// serializes just the transaction kind. A successful build freezes the
// Builder, further modifications fail with ErrAlreadyBuilt.
type Builder struct {
	log   *zap.Logger
	dedup bool
	built bool

	inputs   []transaction.CallArg
	commands []transaction.Command

	sender     *types.Address
	gasOwner   *types.Address
	gasPrice   *uint64
	gasBudget  *uint64
	payment    []types.ObjectRef
	expiration transaction.Expiration
}

// Result is a handle to the output of a command.
type Result uint16

// Arg returns the argument referring to the whole command result.
func (r Result) Arg() transaction.Argument {
	return transaction.Result(uint16(r))
}

// Nested returns the argument referring to the k-th value of the result.
func (r Result) Nested(k uint16) transaction.Argument {
	return transaction.NestedResult(uint16(r), k)
}

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{log: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// FromBytes creates an open Builder from serialized TransactionData.
func FromBytes(data []byte, opts ...Option) (*Builder, error) {
	tx, err := transaction.Deserialize(data)
	if err != nil {
		return nil, err
	}
	b := New(opts...)
	v1 := tx.V1
	b.inputs = v1.Kind.Programmable.Inputs
	b.commands = v1.Kind.Programmable.Commands
	sender, owner := v1.Sender, v1.GasData.Owner
	price, budget := v1.GasData.Price, v1.GasData.Budget
	b.sender, b.gasOwner = &sender, &owner
	b.gasPrice, b.gasBudget = &price, &budget
	b.payment = v1.GasData.Payment
	b.expiration = v1.Expiration
	b.log.Debug("transaction loaded",
		zap.Int("inputs", len(b.inputs)),
		zap.Int("commands", len(b.commands)))
	return b, nil
}

// FromKindBytes creates an open Builder from a serialized TransactionKind,
// sender and gas data have to be set before Build.
func FromKindBytes(data []byte, opts ...Option) (*Builder, error) {
	kind, err := transaction.DeserializeKind(data)
	if err != nil {
		return nil, err
	}
	b := New(opts...)
	b.inputs = kind.Programmable.Inputs
	b.commands = kind.Programmable.Commands
	return b, nil
}

// Inputs returns the number of inputs added so far.
func (b *Builder) Inputs() int { return len(b.inputs) }

// Commands returns the number of commands added so far.
func (b *Builder) Commands() int { return len(b.commands) }

// IsBuilt tells whether the transaction was built.
func (b *Builder) IsBuilt() bool { return b.built }

// AddInput appends an input and returns the argument referring to it.
func (b *Builder) AddInput(arg transaction.CallArg) (transaction.Argument, error) {
	if b.built {
		return transaction.Argument{}, ErrAlreadyBuilt
	}
	if len(b.inputs) >= maxArguments {
		return transaction.Argument{}, invalid("too many inputs", nil)
	}
	b.inputs = append(b.inputs, arg)
	return transaction.Input(uint16(len(b.inputs) - 1)), nil
}

// AddCommand appends a command after checking its arguments.
func (b *Builder) AddCommand(c transaction.Command) (Result, error) {
	if b.built {
		return 0, ErrAlreadyBuilt
	}
	if c == nil {
		return 0, invalid("nil command", nil)
	}
	if len(b.commands) >= maxArguments {
		return 0, invalid("too many commands", nil)
	}
	idx := len(b.commands)
	if err := b.checkCommand(idx, c); err != nil {
		return 0, err
	}
	b.commands = append(b.commands, c)
	return Result(idx), nil
}

// checkCommand validates the arguments of the i-th command, results of the
// command itself and later ones are dangling.
func (b *Builder) checkCommand(i int, c transaction.Command) error {
	for _, a := range c.Args() {
		var limit int
		switch a.Kind {
		case transaction.ArgGasCoin:
			continue
		case transaction.ArgInput:
			limit = len(b.inputs)
		case transaction.ArgResult, transaction.ArgNestedResult:
			limit = i
		default:
			return invalid(fmt.Sprintf("command %d: unknown argument kind %d", i, a.Kind), nil)
		}
		if int(a.Index) >= limit {
			return invalid("dangling reference", &DanglingReferenceError{Command: i, Argument: a, Available: limit})
		}
	}
	if mv, ok := c.(*transaction.MakeMoveVec); ok && len(mv.Elements) == 0 && !mv.Type.IsSet() {
		return invalid(fmt.Sprintf("command %d: MakeMoveVec without elements needs a type", i), nil)
	}
	return nil
}

// SetSender sets the transaction sender, it's also the default gas owner.
func (b *Builder) SetSender(a types.Address) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.sender = &a
	return nil
}

// SetGasOwner sets the gas payer if it differs from the sender.
func (b *Builder) SetGasOwner(a types.Address) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.gasOwner = &a
	return nil
}

// SetGasPrice sets the gas price.
func (b *Builder) SetGasPrice(price uint64) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.gasPrice = &price
	return nil
}

// SetGasBudget sets the gas budget.
func (b *Builder) SetGasBudget(budget uint64) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.gasBudget = &budget
	return nil
}

// SetGasPayment replaces the list of gas coins.
func (b *Builder) SetGasPayment(refs ...types.ObjectRef) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.payment = append([]types.ObjectRef(nil), refs...)
	return nil
}

// SetExpiration sets the transaction expiration.
func (b *Builder) SetExpiration(e transaction.Expiration) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.expiration = e
	return nil
}

func (b *Builder) kind() transaction.TransactionKind {
	return transaction.TransactionKind{Programmable: &transaction.ProgrammableTransaction{
		Inputs:   b.inputs,
		Commands: b.commands,
	}}
}

func (b *Builder) data() *transaction.TransactionData {
	d := &transaction.TransactionDataV1{
		Kind:       b.kind(),
		Expiration: b.expiration,
		GasData:    transaction.GasData{Payment: b.payment},
	}
	if b.payment == nil {
		d.GasData.Payment = []types.ObjectRef{}
	}
	if b.sender != nil {
		d.Sender = *b.sender
		d.GasData.Owner = *b.sender
	}
	if b.gasOwner != nil {
		d.GasData.Owner = *b.gasOwner
	}
	if b.gasPrice != nil {
		d.GasData.Price = *b.gasPrice
	}
	if b.gasBudget != nil {
		d.GasData.Budget = *b.gasBudget
	}
	return transaction.NewV1(d)
}

// Data returns a deep copy of the current transaction data. Unset gas owner
// defaults to the sender, unset values are zero.
func (b *Builder) Data() (*transaction.TransactionData, error) {
	raw, err := transaction.Serialize(b.data())
	if err != nil {
		return nil, err
	}
	return transaction.Deserialize(raw)
}

// validateGraph checks every argument of every command, inputs and results
// must exist and results can only be used by later commands.
func (b *Builder) validateGraph() error {
	if len(b.inputs) > maxArguments {
		return invalid("too many inputs", nil)
	}
	if len(b.commands) > maxArguments {
		return invalid("too many commands", nil)
	}
	for i, c := range b.commands {
		if c == nil {
			return invalid(fmt.Sprintf("command %d is nil", i), nil)
		}
		if err := b.checkCommand(i, c); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) validateGas() error {
	switch {
	case b.sender == nil:
		return invalid("sender is not set", nil)
	case b.gasPrice == nil:
		return invalid("gas price is not set", nil)
	case b.gasBudget == nil:
		return invalid("gas budget is not set", nil)
	case len(b.payment) == 0:
		return invalid("gas payment is empty", nil)
	}
	for _, in := range b.inputs {
		if in.Kind != transaction.CallArgObject {
			continue
		}
		id := in.Object.ID()
		for _, p := range b.payment {
			if p.ObjectID == id {
				return invalid(fmt.Sprintf("gas coin %s is also used as an input", id), nil)
			}
		}
	}
	return nil
}

// Build validates the whole transaction and serializes it into
// TransactionData bytes.
func (b *Builder) Build() ([]byte, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	if err := b.validateGraph(); err != nil {
		return nil, err
	}
	if err := b.validateGas(); err != nil {
		return nil, err
	}
	tx := b.data()
	raw, err := transaction.Serialize(tx)
	if err != nil {
		return nil, invalid("serialization failed", err)
	}
	b.built = true
	b.log.Debug("transaction built",
		zap.Int("inputs", len(b.inputs)),
		zap.Int("commands", len(b.commands)),
		zap.Int("size", len(raw)),
		zap.Stringer("digest", transaction.DigestOf(raw)))
	return raw, nil
}

// BuildKind validates inputs and commands and serializes only the
// transaction kind, no sender or gas data is needed.
func (b *Builder) BuildKind() ([]byte, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	if err := b.validateGraph(); err != nil {
		return nil, err
	}
	k := b.kind()
	raw, err := transaction.SerializeKind(&k)
	if err != nil {
		return nil, invalid("serialization failed", err)
	}
	b.built = true
	b.log.Debug("transaction kind built",
		zap.Int("inputs", len(b.inputs)),
		zap.Int("commands", len(b.commands)),
		zap.Int("size", len(raw)))
	return raw, nil
}

// IsValidationError checks whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
