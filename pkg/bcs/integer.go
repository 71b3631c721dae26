package bcs

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// CheckUint checks that v is a non-negative integer fitting into bits bits.
func CheckUint(v *big.Int, bits uint) error {
	if v == nil {
		return ErrNilValue
	}
	if v.Sign() < 0 || uint(v.BitLen()) > bits {
		return &RangeError{Type: fmt.Sprintf("u%d", bits), Value: v.String()}
	}
	return nil
}

// CheckU8 checks that v fits into u8.
func CheckU8(v *big.Int) error { return CheckUint(v, 8) }

// CheckU16 checks that v fits into u16.
func CheckU16(v *big.Int) error { return CheckUint(v, 16) }

// CheckU32 checks that v fits into u32.
func CheckU32(v *big.Int) error { return CheckUint(v, 32) }

// CheckU64 checks that v fits into u64.
func CheckU64(v *big.Int) error { return CheckUint(v, 64) }

// CheckU128 checks that v fits into u128.
func CheckU128(v *big.Int) error { return CheckUint(v, 128) }

// CheckU256 checks that v fits into u256.
func CheckU256(v *big.Int) error { return CheckUint(v, 256) }

// U64FromBig converts v to uint64 failing with a *RangeError when it doesn't
// fit.
func U64FromBig(v *big.Int) (uint64, error) {
	if err := CheckU64(v); err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// U256FromBig converts v to a uint256 failing with a *RangeError when it
// doesn't fit.
func U256FromBig(v *big.Int) (*uint256.Int, error) {
	if err := CheckU256(v); err != nil {
		return nil, err
	}
	u, _ := uint256.FromBig(v)
	return u, nil
}

// ParseUint parses a decimal (or 0x-prefixed hexadecimal) integer string and
// checks that it fits into bits bits.
func ParseUint(s string, bits uint) (*big.Int, error) {
	s = strings.TrimSpace(s)
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if err := CheckUint(v, bits); err != nil {
		return nil, err
	}
	return v, nil
}

// U64FromString parses s as a u64 value.
func U64FromString(s string) (uint64, error) {
	v, err := ParseUint(s, 64)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}
