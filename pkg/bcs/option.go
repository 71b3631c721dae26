package bcs

import "encoding/json"

// Option is an optional value. On the wire it is a presence byte followed by
// the value when present, which is the same layout as a vector of length 0
// or 1.
type Option[T any] struct {
	value T
	isSet bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, isSet: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// OptionFromVec converts the vector form of an option back into an Option.
// Vectors longer than one element are rejected.
func OptionFromVec[T any](vec []T) (Option[T], error) {
	switch len(vec) {
	case 0:
		return None[T](), nil
	case 1:
		return Some(vec[0]), nil
	default:
		return None[T](), ErrInvalidOption
	}
}

// IsSet returns true if the option holds a value.
func (o Option[T]) IsSet() bool {
	return o.isSet
}

// Get returns the value and whether it is set.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOr returns the value if set and def otherwise.
func (o Option[T]) GetOr(def T) T {
	if o.isSet {
		return o.value
	}
	return def
}

// Vec returns the vector form of the option.
func (o Option[T]) Vec() []T {
	if !o.isSet {
		return []T{}
	}
	return []T{o.value}
}

// MarshalJSON implements the json.Marshaler interface, None is null.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.isSet {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// WriteOption writes o using enc for the value.
func WriteOption[T any](w *BinWriter, o Option[T], enc func(*BinWriter, T)) {
	w.WriteBool(o.isSet)
	if o.isSet {
		enc(w, o.value)
	}
}

// ReadOption reads an option using dec for the value. The presence byte must
// be 0 or 1.
func ReadOption[T any](r *BinReader, dec func(*BinReader) T) Option[T] {
	tag := r.ReadU8()
	if r.Err != nil {
		return None[T]()
	}
	switch tag {
	case 0:
		return None[T]()
	case 1:
		v := dec(r)
		if r.Err != nil {
			return None[T]()
		}
		return Some(v)
	default:
		r.SetError(ErrInvalidOption)
		return None[T]()
	}
}
