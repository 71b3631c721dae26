package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var fuzzExprs = []string{
	"u8",
	"u256",
	"string",
	"vector<Option<u64>>",
	"Option<Option<bool>>",
	"Option<unit>",
	"[u16; 3]",
	"Op",
	"Tree",
}

const fuzzLayout = `
Tree:
  STRUCT:
    - value: U8
    - children:
        SEQ:
          TYPENAME: Tree
`

func FuzzSchemaDecode(f *testing.F) {
	r := NewRegistry()
	_, err := r.LoadLayout([]byte(testLayout))
	require.NoError(f, err)
	_, err = r.LoadLayout([]byte(fuzzLayout))
	require.NoError(f, err)

	f.Add([]byte{0})
	f.Add([]byte{1, 1, 2, 3, 4, 5, 0, 0, 0, 0, 0, 0, 0, 1, 2, 'h', 'i'})
	f.Add([]byte{1, 1, 0})
	f.Add([]byte{1, 2, 1, 0, 0})
	f.Add([]byte{0x80, 0x02})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0x0f})

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, expr := range fuzzExprs {
			s, err := r.Lookup(expr)
			require.NoError(t, err)
			var v Value
			require.NotPanics(t, func() {
				v, err = Decode(s, data)
			}, expr)
			if err != nil {
				continue
			}
			again, err := Encode(s, v)
			require.NoError(t, err, expr)
			require.Equal(t, data, again, expr)
			_, err = ToJSON(v)
			require.NoError(t, err, expr)
		}
	})
}
