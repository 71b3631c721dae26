package keys

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/suigo-dev/suigo/pkg/types"
)

const (
	compactSignatureSize    = 64
	compressedPublicKeySize = secp256k1.PubKeyBytesLenCompressed
)

// Secp256k1Signer signs with a secp256k1 key. The signature covers
// sha256(digest) and is a 64 byte r || s with low s.
type Secp256k1Signer struct {
	priv *secp256k1.PrivateKey
}

// NewSecp256k1Signer creates a signer from a 32 byte private key.
func NewSecp256k1Signer(priv []byte) (*Secp256k1Signer, error) {
	if len(priv) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: secp256k1 key must be %d bytes, got %d", ErrInvalidKey, secp256k1.PrivKeyBytesLen, len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	if key.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero secp256k1 key", ErrInvalidKey)
	}
	return &Secp256k1Signer{priv: key}, nil
}

// Sign implements Signer.
func (s *Secp256k1Signer) Sign(digest []byte) ([]byte, error) {
	h := sha256.Sum256(digest)
	// Compact signatures carry a recovery byte first.
	sig := ecdsa.SignCompact(s.priv, h[:], true)
	return sig[1:], nil
}

// PublicKey implements Signer, the key is compressed.
func (s *Secp256k1Signer) PublicKey() []byte {
	return s.priv.PubKey().SerializeCompressed()
}

// Scheme implements Signer.
func (s *Secp256k1Signer) Scheme() SignatureScheme { return SchemeSecp256k1 }

// Address implements Signer.
func (s *Secp256k1Signer) Address() types.Address {
	return DeriveAddress(SchemeSecp256k1, s.PublicKey())
}

func verifySecp256k1(pub, digest, sig []byte) (bool, error) {
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	var r, sc secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) || sc.SetByteSlice(sig[32:]) {
		return false, nil
	}
	h := sha256.Sum256(digest)
	return ecdsa.NewSignature(&r, &sc).Verify(h[:], key), nil
}
