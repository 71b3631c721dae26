package ptb

import (
	"fmt"
	"strings"

	"github.com/suigo-dev/suigo/pkg/bcs"
	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
)

// ParseTarget splits a "package::module::function" call target.
func ParseTarget(target string) (types.ObjectID, string, string, error) {
	parts := strings.Split(target, "::")
	if len(parts) != 3 {
		return types.ObjectID{}, "", "", fmt.Errorf("invalid call target %q", target)
	}
	pkg, err := types.ParseAddress(parts[0])
	if err != nil {
		return types.ObjectID{}, "", "", fmt.Errorf("invalid call target %q: %w", target, err)
	}
	for _, id := range parts[1:] {
		if !types.IsValidIdentifier(id) {
			return types.ObjectID{}, "", "", fmt.Errorf("invalid call target %q: %w: %q", target, types.ErrInvalidIdentifier, id)
		}
	}
	return pkg, parts[1], parts[2], nil
}

// MoveCall adds a call of target ("0x2::coin::split" form) with the given
// type arguments (like "0x2::sui::SUI").
func (b *Builder) MoveCall(target string, typeArgs []string, args ...transaction.Argument) (Result, error) {
	pkg, module, function, err := ParseTarget(target)
	if err != nil {
		return 0, invalid("bad MoveCall", err)
	}
	tags := make([]types.TypeTag, len(typeArgs))
	for i, s := range typeArgs {
		if tags[i], err = types.ParseTypeTag(s); err != nil {
			return 0, invalid("bad MoveCall type argument", err)
		}
	}
	return b.AddCommand(&transaction.MoveCall{
		Package:       pkg,
		Module:        module,
		Function:      function,
		TypeArguments: tags,
		Arguments:     append([]transaction.Argument{}, args...),
	})
}

// TransferObjects adds a transfer of objects to address.
func (b *Builder) TransferObjects(objects []transaction.Argument, address transaction.Argument) (Result, error) {
	if len(objects) == 0 {
		return 0, invalid("TransferObjects needs at least one object", nil)
	}
	return b.AddCommand(&transaction.TransferObjects{
		Objects: append([]transaction.Argument{}, objects...),
		Address: address,
	})
}

// SplitCoins adds a coin split, the result has one coin per amount.
func (b *Builder) SplitCoins(coin transaction.Argument, amounts ...transaction.Argument) (Result, error) {
	if len(amounts) == 0 {
		return 0, invalid("SplitCoins needs at least one amount", nil)
	}
	return b.AddCommand(&transaction.SplitCoins{
		Coin:    coin,
		Amounts: append([]transaction.Argument{}, amounts...),
	})
}

// MergeCoins adds a merge of sources into destination.
func (b *Builder) MergeCoins(destination transaction.Argument, sources ...transaction.Argument) (Result, error) {
	if len(sources) == 0 {
		return 0, invalid("MergeCoins needs at least one source", nil)
	}
	return b.AddCommand(&transaction.MergeCoins{
		Destination: destination,
		Sources:     append([]transaction.Argument{}, sources...),
	})
}

// Publish adds a package publication, the result is the upgrade capability.
func (b *Builder) Publish(modules [][]byte, dependencies []types.ObjectID) (Result, error) {
	return b.AddCommand(&transaction.Publish{
		Modules:      copyModules(modules),
		Dependencies: append([]types.ObjectID{}, dependencies...),
	})
}

// Upgrade adds a package upgrade authorized by ticket.
func (b *Builder) Upgrade(modules [][]byte, dependencies []types.ObjectID, pkg types.ObjectID, ticket transaction.Argument) (Result, error) {
	return b.AddCommand(&transaction.Upgrade{
		Modules:      copyModules(modules),
		Dependencies: append([]types.ObjectID{}, dependencies...),
		Package:      pkg,
		Ticket:       ticket,
	})
}

// MakeMoveVec adds a vector construction. typ is required if there are no
// elements.
func (b *Builder) MakeMoveVec(typ bcs.Option[types.TypeTag], elements ...transaction.Argument) (Result, error) {
	return b.AddCommand(&transaction.MakeMoveVec{
		Type:     typ,
		Elements: append([]transaction.Argument{}, elements...),
	})
}

// TransferSui sends amount split off the gas coin to recipient, or the
// whole gas coin if amount is not set.
func (b *Builder) TransferSui(recipient types.Address, amount bcs.Option[uint64]) error {
	to, err := b.PureAddress(recipient)
	if err != nil {
		return err
	}
	coin := transaction.GasCoin()
	if v, ok := amount.Get(); ok {
		amt, err := b.PureU64(v)
		if err != nil {
			return err
		}
		res, err := b.SplitCoins(transaction.GasCoin(), amt)
		if err != nil {
			return err
		}
		coin = res.Nested(0)
	}
	_, err = b.TransferObjects([]transaction.Argument{coin}, to)
	return err
}

// PaySui splits one coin per amount off the gas coin and sends each to the
// matching recipient.
func (b *Builder) PaySui(recipients []types.Address, amounts []uint64) error {
	if len(recipients) != len(amounts) {
		return invalid("PaySui", &bcs.ArityError{Expected: len(recipients), Actual: len(amounts)})
	}
	if len(amounts) == 0 {
		return invalid("PaySui needs at least one recipient", nil)
	}
	amts := make([]transaction.Argument, len(amounts))
	for i, a := range amounts {
		var err error
		if amts[i], err = b.PureU64(a); err != nil {
			return err
		}
	}
	res, err := b.SplitCoins(transaction.GasCoin(), amts...)
	if err != nil {
		return err
	}
	for i, r := range recipients {
		to, err := b.PureAddress(r)
		if err != nil {
			return err
		}
		if _, err := b.TransferObjects([]transaction.Argument{res.Nested(uint16(i))}, to); err != nil {
			return err
		}
	}
	return nil
}

func copyModules(modules [][]byte) [][]byte {
	res := make([][]byte, len(modules))
	for i := range modules {
		res[i] = append([]byte{}, modules[i]...)
	}
	return res
}
