package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/suigo-dev/suigo/pkg/bcs"
)

// DigestLength is the size of object and transaction digests.
const DigestLength = 32

// ErrInvalidDigest is returned for malformed digests.
var ErrInvalidDigest = errors.New("invalid digest")

// Digest is a 32 byte hash, its text form is base58. On the wire it's a
// length-prefixed byte vector that must be exactly 32 bytes long.
type Digest [DigestLength]byte

// ParseDigest decodes a base58 digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := base58.Decode(s)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	if len(b) != DigestLength {
		return d, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidDigest, DigestLength, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// MustParseDigest is like ParseDigest, but panics on error.
func MustParseDigest(s string) Digest {
	d, err := ParseDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the base58 form.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	p, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// EncodeBCS implements bcs.Serializable.
func (d *Digest) EncodeBCS(w *bcs.BinWriter) {
	w.WriteVarBytes(d[:])
}

// DecodeBCS implements bcs.Serializable.
func (d *Digest) DecodeBCS(r *bcs.BinReader) {
	n := r.ReadLength()
	if r.Err != nil {
		return
	}
	if n != DigestLength {
		r.SetError(fmt.Errorf("%w: %w", ErrInvalidDigest, &bcs.ArityError{Expected: DigestLength, Actual: n}))
		return
	}
	r.ReadBytes(d[:])
}

// ObjectRef identifies a specific object version.
type ObjectRef struct {
	ObjectID ObjectID `json:"objectId"`
	Version  uint64   `json:"version,string"`
	Digest   Digest   `json:"digest"`
}

// EncodeBCS implements bcs.Serializable.
func (o *ObjectRef) EncodeBCS(w *bcs.BinWriter) {
	o.ObjectID.EncodeBCS(w)
	w.WriteU64(o.Version)
	o.Digest.EncodeBCS(w)
}

// DecodeBCS implements bcs.Serializable.
func (o *ObjectRef) DecodeBCS(r *bcs.BinReader) {
	o.ObjectID.DecodeBCS(r)
	o.Version = r.ReadU64()
	o.Digest.DecodeBCS(r)
}
