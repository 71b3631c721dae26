package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suigo-dev/suigo/pkg/bcs"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	s, err := r.Lookup("vector<Option<u64>>")
	require.NoError(t, err)
	require.Equal(t, "vector<Option<u64>>", s.Name())

	data, err := Encode(s, []Value{nil, 1})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0}, data)

	s, err = r.Lookup("[u8; 4]")
	require.NoError(t, err)
	require.Equal(t, "[u8; 4]", s.Name())

	_, err = r.Lookup("Coin<u64>")
	require.ErrorIs(t, err, ErrUnknownSchema)

	_, err = r.Lookup("vector<u8, u8>")
	var aerr *TypeArityError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, 1, aerr.Expected)
	require.Equal(t, 2, aerr.Actual)

	_, err = r.Lookup("vector<u8")
	require.Error(t, err)
}

func TestRegistryResolveArraySize(t *testing.T) {
	r := NewRegistry()
	for _, expr := range []string{"[u16; 4000000000]", "[u8; 2147483648]"} {
		_, err := r.Lookup(expr)
		require.ErrorIs(t, err, ErrInvalidSize, expr)
	}
	s, err := r.Lookup("[u16; 2147483647]")
	require.NoError(t, err)
	_, err = Decode(s, []byte{1, 0, 2, 0})
	require.Error(t, err)

	require.Panics(t, func() { FixedArray(U16, -1) })
	require.Panics(t, func() { FixedBytes(-1) })
	_, err = NewFixedArray(U16, -1)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	coin := MustStruct("Coin", Field{Name: "value", Schema: U64})
	require.NoError(t, r.Register(coin))
	require.ErrorIs(t, r.Register(coin), ErrDuplicateSchema)
	require.ErrorIs(t, r.RegisterAs("u8", U16), ErrDuplicateSchema)

	s, err := r.Lookup("Coin")
	require.NoError(t, err)
	require.Same(t, coin, s)

	data, err := r.Encode("Coin", map[string]Value{"value": 9})
	require.NoError(t, err)
	v, err := r.Decode("Coin", data)
	require.NoError(t, err)
	value, _ := v.(*StructValue).Get("value")
	require.Equal(t, uint64(9), value)

	require.Contains(t, r.Names(), "Coin")
	require.Contains(t, r.Names(), "vector")
	require.Panics(t, func() { r.MustLookup("Nope") })
}

func TestRegistryGeneric(t *testing.T) {
	r := NewRegistry()
	var builds int
	g := NewGeneric("Balance", 1, func(p []Schema) (Schema, error) {
		builds++
		return NewStruct(InstanceName("Balance", p...), Field{Name: "value", Schema: p[0]})
	})
	require.NoError(t, r.RegisterGeneric(g))
	require.ErrorIs(t, r.RegisterGeneric(g), ErrDuplicateSchema)

	a, err := r.Lookup("Balance<u64>")
	require.NoError(t, err)
	require.Equal(t, "Balance<u64>", a.Name())
	b, err := g.Instantiate(U64)
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 1, builds)

	_, err = g.Instantiate(U8)
	require.NoError(t, err)
	require.Equal(t, 2, builds)

	_, err = g.Instantiate()
	var aerr *TypeArityError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, "Balance", aerr.Schema)
}

// byteConst is a value-typed schema writing a fixed byte.
type byteConst struct {
	name string
	b    byte
}

func (c byteConst) Name() string                    { return c.name }
func (c byteConst) Encode(w *bcs.BinWriter, _ Value) { w.WriteU8(c.b) }
func (c byteConst) Decode(r *bcs.BinReader) Value    { return r.ReadU8() }

func TestGenericValueParams(t *testing.T) {
	var builds int
	g := NewGeneric("Pair", 1, func(p []Schema) (Schema, error) {
		builds++
		return Tuple(p[0], p[0]), nil
	})
	a, err := g.Instantiate(byteConst{"a", 1})
	require.NoError(t, err)
	b, err := g.Instantiate(byteConst{"b", 2})
	require.NoError(t, err)
	require.Equal(t, "(a, a)", a.Name())
	require.Equal(t, "(b, b)", b.Name())
	data, err := Encode(b, []Value{nil, nil})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 2}, data)
	require.Equal(t, 2, builds)

	x, err := g.Instantiate(U8)
	require.NoError(t, err)
	y, err := g.Instantiate(U8)
	require.NoError(t, err)
	require.Same(t, x, y)
	z, err := g.Instantiate(U16)
	require.NoError(t, err)
	require.NotSame(t, x, z)
	require.Equal(t, 4, builds)
}

func TestRegistryRef(t *testing.T) {
	r := NewRegistry()
	wrapper := MustStruct("Wrapper", Field{Name: "inner", Schema: r.Ref("Inner")})
	require.NoError(t, r.Register(wrapper))

	_, err := Encode(wrapper, map[string]Value{"inner": 1})
	require.ErrorIs(t, err, ErrUnknownSchema)

	r2 := NewRegistry()
	w2 := MustStruct("Wrapper", Field{Name: "inner", Schema: r2.Ref("Inner")})
	require.NoError(t, r2.RegisterAs("Inner", U8))
	data, err := Encode(w2, map[string]Value{"inner": 1})
	require.NoError(t, err)
	require.Equal(t, []byte{1}, data)
}
