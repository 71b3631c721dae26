package keys

import (
	"crypto/ed25519"
	"fmt"

	"github.com/suigo-dev/suigo/pkg/types"
)

const (
	ed25519SignatureSize = ed25519.SignatureSize
	ed25519PublicKeySize = ed25519.PublicKeySize
)

// Ed25519Signer signs with an ed25519 key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer creates a signer from a 32 byte seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrInvalidKey, ed25519.SeedSize, len(seed))
	}
	return &Ed25519Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign implements Signer.
func (s *Ed25519Signer) Sign(digest []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, digest), nil
}

// PublicKey implements Signer.
func (s *Ed25519Signer) PublicKey() []byte {
	return []byte(s.priv.Public().(ed25519.PublicKey))
}

// Scheme implements Signer.
func (s *Ed25519Signer) Scheme() SignatureScheme { return SchemeEd25519 }

// Address implements Signer.
func (s *Ed25519Signer) Address() types.Address {
	return DeriveAddress(SchemeEd25519, s.PublicKey())
}

func verifyEd25519(pub, digest, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub), digest, sig)
}
