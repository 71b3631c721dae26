package transaction

import (
	"fmt"
	"sync"

	"github.com/suigo-dev/suigo/pkg/bcs/schema"
	"github.com/suigo-dev/suigo/pkg/types"
)

var (
	schemasOnce sync.Once
	schemas     *schema.Registry
)

// Schemas returns a registry describing the transaction layouts, it's built
// once and shared. Decoding with it gives generic values, the typed
// structures of this package produce identical bytes.
func Schemas() *schema.Registry {
	schemasOnce.Do(func() {
		schemas = NewSchemas()
	})
	return schemas
}

func addressIn(v schema.Value) (schema.Value, error) {
	switch a := v.(type) {
	case types.Address:
		return a[:], nil
	case *types.Address:
		return a[:], nil
	case string:
		p, err := types.ParseAddress(a)
		if err != nil {
			return nil, err
		}
		return p[:], nil
	}
	return v, nil
}

func addressOut(v schema.Value) (schema.Value, error) {
	return types.AddressFromBytes(v.([]byte))
}

func digestIn(v schema.Value) (schema.Value, error) {
	switch d := v.(type) {
	case types.Digest:
		return d[:], nil
	case *types.Digest:
		return d[:], nil
	case string:
		p, err := types.ParseDigest(d)
		if err != nil {
			return nil, err
		}
		return p[:], nil
	case []byte:
		if len(d) != types.DigestLength {
			return nil, fmt.Errorf("%w: %d bytes", types.ErrInvalidDigest, len(d))
		}
	}
	return v, nil
}

func digestOut(v schema.Value) (schema.Value, error) {
	b := v.([]byte)
	if len(b) != types.DigestLength {
		return nil, fmt.Errorf("%w: %d bytes", types.ErrInvalidDigest, len(b))
	}
	var d types.Digest
	copy(d[:], b)
	return d, nil
}

func unsupportedKind(name string) schema.Schema {
	fail := func(schema.Value) (schema.Value, error) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, name)
	}
	return schema.Transform(name, schema.Unit, fail, fail)
}

// NewSchemas builds a fresh registry with the transaction layouts that can
// be extended with more schemas.
func NewSchemas() *schema.Registry {
	r := schema.NewRegistry()
	must := func(s schema.Schema) schema.Schema {
		if err := r.Register(s); err != nil {
			panic(err)
		}
		return s
	}
	var (
		u16  = schema.U16
		u64  = schema.U64
		str  = schema.String
		vec  = schema.Vector
		f    = func(n string, s schema.Schema) schema.Field { return schema.Field{Name: n, Schema: s} }
		v    = func(n string, s schema.Schema) schema.Variant { return schema.Variant{Name: n, Schema: s} }
		unit = func(n string) schema.Variant { return schema.Variant{Name: n} }
	)

	address := must(schema.Transform("Address", schema.FixedBytes(types.AddressLength), addressIn, addressOut))
	if err := r.RegisterAs("address", address); err != nil {
		panic(err)
	}
	digest := must(schema.Transform("ObjectDigest", schema.Bytes, digestIn, digestOut))
	objectRef := must(schema.MustStruct("ObjectRef",
		f("objectId", address),
		f("version", u64),
		f("digest", digest),
	))

	typeTag := r.Ref("TypeTag")
	structTag := must(schema.MustStruct("StructTag",
		f("address", address),
		f("module", str),
		f("name", str),
		f("typeParams", vec(typeTag)),
	))
	must(schema.MustEnum("TypeTag",
		unit("bool"), unit("u8"), unit("u64"), unit("u128"), unit("address"), unit("signer"),
		v("vector", typeTag),
		v("struct", structTag),
		unit("u16"), unit("u32"), unit("u256"),
	))

	argument := must(schema.MustEnum("Argument",
		unit("GasCoin"),
		v("Input", u16),
		v("Result", u16),
		v("NestedResult", schema.Tuple(u16, u16)),
	))
	args := vec(argument)
	modules := vec(schema.Bytes)
	moveCall := must(schema.MustStruct("ProgrammableMoveCall",
		f("package", address),
		f("module", str),
		f("function", str),
		f("typeArguments", vec(typeTag)),
		f("arguments", args),
	))
	command := must(schema.MustEnum("Command",
		v("MoveCall", moveCall),
		v("TransferObjects", schema.Tuple(args, argument)),
		v("SplitCoins", schema.Tuple(argument, args)),
		v("MergeCoins", schema.Tuple(argument, args)),
		v("Publish", schema.Tuple(modules, vec(address))),
		v("MakeMoveVec", schema.Tuple(schema.Option(typeTag), args)),
		v("Upgrade", schema.Tuple(modules, vec(address), address, argument)),
	))

	sharedRef := must(schema.MustStruct("SharedObjectRef",
		f("objectId", address),
		f("initialSharedVersion", u64),
		f("mutable", schema.Bool),
	))
	objectArg := must(schema.MustEnum("ObjectArg",
		v("ImmOrOwnedObject", objectRef),
		v("SharedObject", sharedRef),
		v("Receiving", objectRef),
	))
	callArg := must(schema.MustEnum("CallArg",
		v("Pure", schema.Bytes),
		v("Object", objectArg),
	))

	gasData := must(schema.MustStruct("GasData",
		f("payment", vec(objectRef)),
		f("owner", address),
		f("price", u64),
		f("budget", u64),
	))
	expiration := must(schema.MustEnum("TransactionExpiration",
		unit("None"),
		v("Epoch", u64),
	))
	pt := must(schema.MustStruct("ProgrammableTransaction",
		f("inputs", vec(callArg)),
		f("commands", vec(command)),
	))
	kind := must(schema.MustEnum("TransactionKind",
		v("ProgrammableTransaction", pt),
		v("ChangeEpoch", unsupportedKind("ChangeEpoch")),
		v("Genesis", unsupportedKind("Genesis")),
		v("ConsensusCommitPrologue", unsupportedKind("ConsensusCommitPrologue")),
	))
	v1 := must(schema.MustStruct("TransactionDataV1",
		f("kind", kind),
		f("sender", address),
		f("gasData", gasData),
		f("expiration", expiration),
	))
	must(schema.MustEnum("TransactionData", v("V1", v1)))
	return r
}
