package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

// AddressLength is the size of an account address or object ID in bytes.
const AddressLength = 32

// ErrInvalidAddress is returned for malformed address strings.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a 32 byte account address.
type Address [AddressLength]byte

// ObjectID has the same layout as an address.
type ObjectID = Address

// NormalizeAddress lower-cases s, strips an optional 0x prefix and left-pads
// it with zeroes to 64 hex characters. Longer or non-hex input is rejected.
func NormalizeAddress(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "0x")
	if len(s) == 0 || len(s) > AddressLength*2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
	}
	return "0x" + strings.Repeat("0", AddressLength*2-len(s)) + s, nil
}

// ParseAddress parses a hex address with or without 0x prefix, short forms
// like 0x2 are allowed.
func ParseAddress(s string) (Address, error) {
	var a Address
	n, err := NormalizeAddress(s)
	if err != nil {
		return a, err
	}
	_, err = hex.Decode(a[:], []byte(n[2:]))
	return a, err
}

// MustParseAddress is like ParseAddress, but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies b into an address, b must be exactly 32 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// String returns the 0x-prefixed 64 character hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ShortString strips leading zeroes, so 0x2 stays 0x2.
func (a Address) ShortString() string {
	s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// IsZero checks whether all address bytes are zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	p, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = p
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

// EncodeBCS implements bcs.Serializable.
func (a *Address) EncodeBCS(w *bcs.BinWriter) {
	w.WriteBytes(a[:])
}

// DecodeBCS implements bcs.Serializable.
func (a *Address) DecodeBCS(r *bcs.BinReader) {
	r.ReadBytes(a[:])
}
