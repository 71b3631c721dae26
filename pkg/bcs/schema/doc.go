/*
Package schema describes BCS layouts as values.

A Schema knows how to encode and decode a dynamic Value. Schemas are built
from the primitives (Bool, U8 ... U256, String, Bytes, Unit) with the
container constructors (Vector, Option, FixedArray, FixedBytes, Tuple), and
the named composite constructors NewStruct and NewEnum. Parametric layouts
are expressed with Generic, which checks the number of type parameters when
the schema is instantiated rather than when a value is encoded.

A Registry maps names to schemas and generic constructors and can resolve
type expressions such as "vector<Option<u64>>". Schemas are immutable once
built and can be used from multiple goroutines.

Values are plain Go data:

	bool, uint8, uint16, uint32, uint64  fixed width integers
	*big.Int, *uint256.Int               u128 and u256
	string, []byte                       strings and byte vectors
	[]Value                              vectors, fixed arrays and tuples
	OptionValue                          options
	*StructValue, *EnumValue             structs and enums
*/
package schema
