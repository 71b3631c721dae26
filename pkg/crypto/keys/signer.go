package keys

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/suigo-dev/suigo/pkg/transaction"
	"github.com/suigo-dev/suigo/pkg/types"
	"golang.org/x/crypto/blake2b"
)

// SignatureScheme is the flag byte identifying a key type.
type SignatureScheme byte

// Supported schemes.
const (
	SchemeEd25519   SignatureScheme = 0x00
	SchemeSecp256k1 SignatureScheme = 0x01
)

const privateKeySize = 32

var (
	// ErrUnknownScheme is returned for unsupported scheme flags or names.
	ErrUnknownScheme = errors.New("unknown signature scheme")
	// ErrInvalidKey is returned for malformed key material.
	ErrInvalidKey = errors.New("invalid key")
)

// String implements fmt.Stringer.
func (s SignatureScheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	}
	return fmt.Sprintf("SignatureScheme(%d)", byte(s))
}

// ParseScheme parses a scheme name.
func ParseScheme(s string) (SignatureScheme, error) {
	switch s {
	case "ed25519":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Signer signs 32 byte digests.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
	PublicKey() []byte
	Scheme() SignatureScheme
	Address() types.Address
}

// NewSigner creates a signer of the given scheme from a raw 32 byte private
// key (an ed25519 seed for SchemeEd25519).
func NewSigner(scheme SignatureScheme, priv []byte) (Signer, error) {
	switch scheme {
	case SchemeEd25519:
		return NewEd25519Signer(priv)
	case SchemeSecp256k1:
		return NewSecp256k1Signer(priv)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, byte(scheme))
}

// DeriveAddress returns blake2b-256(flag || public key).
func DeriveAddress(scheme SignatureScheme, pub []byte) types.Address {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(scheme)})
	h.Write(pub)
	var a types.Address
	h.Sum(a[:0])
	return a
}

// SignTransaction signs serialized transaction data and returns the
// serialized signature: flag || signature || public key.
func SignTransaction(s Signer, txBytes []byte) ([]byte, error) {
	digest := transaction.SigningDigest(txBytes)
	sig, err := s.Sign(digest[:])
	if err != nil {
		return nil, err
	}
	pub := s.PublicKey()
	res := make([]byte, 0, 1+len(sig)+len(pub))
	res = append(res, byte(s.Scheme()))
	res = append(res, sig...)
	return append(res, pub...), nil
}

// SignTransactionBase64 is like SignTransaction, but returns base64.
func SignTransactionBase64(s Signer, txBytes []byte) (string, error) {
	sig, err := SignTransaction(s, txBytes)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyTransaction checks a serialized signature over txBytes and returns
// the signer address.
func VerifyTransaction(serialized []byte, txBytes []byte) (types.Address, error) {
	if len(serialized) == 0 {
		return types.Address{}, fmt.Errorf("%w: empty signature", ErrInvalidKey)
	}
	scheme := SignatureScheme(serialized[0])
	var sigLen, pubLen int
	switch scheme {
	case SchemeEd25519:
		sigLen, pubLen = ed25519SignatureSize, ed25519PublicKeySize
	case SchemeSecp256k1:
		sigLen, pubLen = compactSignatureSize, compressedPublicKeySize
	default:
		return types.Address{}, fmt.Errorf("%w: %d", ErrUnknownScheme, byte(scheme))
	}
	if len(serialized) != 1+sigLen+pubLen {
		return types.Address{}, fmt.Errorf("%w: bad signature length %d", ErrInvalidKey, len(serialized))
	}
	sig, pub := serialized[1:1+sigLen], serialized[1+sigLen:]
	digest := transaction.SigningDigest(txBytes)
	var ok bool
	switch scheme {
	case SchemeEd25519:
		ok = verifyEd25519(pub, digest[:], sig)
	case SchemeSecp256k1:
		var err error
		if ok, err = verifySecp256k1(pub, digest[:], sig); err != nil {
			return types.Address{}, err
		}
	}
	if !ok {
		return types.Address{}, errors.New("signature verification failed")
	}
	return DeriveAddress(scheme, pub), nil
}
