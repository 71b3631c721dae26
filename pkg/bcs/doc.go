/*
Package bcs implements Binary Canonical Serialization, the deterministic
little-endian encoding used for Sui transactions and Move values.

The package provides a sticky-error writer and reader pair. Every write or read
after the first failure is a no-op, so composite types can encode a whole
struct and check the error once at the end:

	w := bcs.NewBufBinWriter()
	w.WriteU64(amount)
	w.WriteString(name)
	if w.Err != nil {
		return w.Err
	}
	data := w.Bytes()

Unsigned integers are fixed-width little-endian, lengths and enum tags are
ULEB128, vectors are length-prefixed and fixed arrays are not, options are a
presence byte followed by the value. Decoding is strict: booleans other than
0 and 1, non-canonical ULEB128, invalid UTF-8 and trailing bytes are errors.
*/
package bcs
