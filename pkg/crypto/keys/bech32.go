package keys

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// PrivateKeyPrefix is the bech32 human readable part of encoded private keys.
const PrivateKeyPrefix = "suiprivkey"

// EncodePrivateKey encodes a raw 32 byte private key as bech32 string with
// the scheme flag prepended to the key.
func EncodePrivateKey(scheme SignatureScheme, priv []byte) (string, error) {
	if len(priv) != privateKeySize {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidKey, len(priv))
	}
	data := append([]byte{byte(scheme)}, priv...)
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return bech32.Encode(PrivateKeyPrefix, conv)
}

// DecodePrivateKey decodes a bech32 private key returning its scheme and
// raw bytes.
func DecodePrivateKey(s string) (SignatureScheme, []byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if hrp != PrivateKeyPrefix {
		return 0, nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidKey, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(raw) != 1+privateKeySize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrInvalidKey, len(raw))
	}
	scheme := SignatureScheme(raw[0])
	if scheme != SchemeEd25519 && scheme != SchemeSecp256k1 {
		return 0, nil, fmt.Errorf("%w: %d", ErrUnknownScheme, raw[0])
	}
	return scheme, raw[1:], nil
}

// IsEncodedPrivateKey tells whether s looks like a bech32 private key.
func IsEncodedPrivateKey(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), PrivateKeyPrefix+"1")
}

// NewSignerFromString creates a signer from a bech32 private key.
func NewSignerFromString(s string) (Signer, error) {
	scheme, priv, err := DecodePrivateKey(s)
	if err != nil {
		return nil, err
	}
	return NewSigner(scheme, priv)
}
