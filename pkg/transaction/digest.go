package transaction

import (
	"github.com/suigo-dev/suigo/pkg/types"
	"golang.org/x/crypto/blake2b"
)

// IntentScope is the first byte of an intent, telling what is being signed.
type IntentScope uint8

// Intent scopes.
const (
	IntentTransactionData IntentScope = iota
	IntentTransactionEffects
	IntentCheckpointSummary
	IntentPersonalMessage
)

// Intent prefixes a message before signing: scope, version and application
// id, one byte each.
type Intent [3]byte

// TransactionIntent is the intent for user transactions on Sui.
var TransactionIntent = Intent{byte(IntentTransactionData), 0, 0}

// digestSalt prefixes transaction bytes when computing the digest.
const digestSalt = "TransactionData::"

// DigestOf returns the transaction digest of serialized transaction data.
func DigestOf(txBytes []byte) types.Digest {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(digestSalt))
	h.Write(txBytes)
	var d types.Digest
	h.Sum(d[:0])
	return d
}

// Digest serializes t and returns its digest.
func (t *TransactionData) Digest() (types.Digest, error) {
	data, err := Serialize(t)
	if err != nil {
		return types.Digest{}, err
	}
	return DigestOf(data), nil
}

// IntentMessage prepends the transaction intent to txBytes.
func IntentMessage(txBytes []byte) []byte {
	return WithIntent(TransactionIntent, txBytes)
}

// WithIntent prepends the given intent to message.
func WithIntent(intent Intent, message []byte) []byte {
	res := make([]byte, 0, len(intent)+len(message))
	res = append(res, intent[:]...)
	return append(res, message...)
}

// SigningDigest returns the blake2b-256 hash of the intent message, this is
// what signatures cover.
func SigningDigest(txBytes []byte) [32]byte {
	return blake2b.Sum256(IntentMessage(txBytes))
}
