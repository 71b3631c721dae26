package bcs

// Serializable defines the BCS encoding/decoding interface. Errors are
// reported through the writer and reader.
type Serializable interface {
	EncodeBCS(*BinWriter)
	DecodeBCS(*BinReader)
}

// Marshal serializes s into a new byte slice.
func Marshal(s Serializable) ([]byte, error) {
	w := NewBufBinWriter()
	s.EncodeBCS(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes data into s. The whole input must be consumed, leftover
// bytes are reported as *TrailingBytesError.
func Unmarshal(data []byte, s Serializable) error {
	r := NewBinReaderFromBuf(data)
	s.DecodeBCS(r)
	return r.Finish()
}

// Finish returns the reader error or a *TrailingBytesError if some input
// was left unread.
func (r *BinReader) Finish() error {
	if r.Err != nil {
		return r.Err
	}
	if n := r.Len(); n != 0 {
		return &TrailingBytesError{Remaining: n}
	}
	return nil
}

// WriteArray writes a length-prefixed vector of Serializable elements.
func WriteArray[E any, PE interface {
	*E
	Serializable
}](w *BinWriter, arr []E) {
	w.WriteLength(len(arr))
	for i := range arr {
		if w.Err != nil {
			return
		}
		PE(&arr[i]).EncodeBCS(w)
	}
}

// ReadArray reads a length-prefixed vector of Serializable elements. maxSize
// limits the element count (MaxSequenceLength by default).
func ReadArray[E any, PE interface {
	*E
	Serializable
}](r *BinReader, maxSize ...int) []E {
	n := r.ReadLength(maxSize...)
	if r.Err != nil {
		return nil
	}
	arr := make([]E, 0, capHint(n, r))
	for i := 0; i < n; i++ {
		var e E
		PE(&e).DecodeBCS(r)
		if r.Err != nil {
			return nil
		}
		arr = append(arr, e)
	}
	return arr
}

// WriteVector writes a length-prefixed vector using enc for every element.
func WriteVector[E any](w *BinWriter, arr []E, enc func(*BinWriter, E)) {
	w.WriteLength(len(arr))
	for i := range arr {
		if w.Err != nil {
			return
		}
		enc(w, arr[i])
	}
}

// ReadVector reads a length-prefixed vector using dec for every element.
func ReadVector[E any](r *BinReader, dec func(*BinReader) E, maxSize ...int) []E {
	n := r.ReadLength(maxSize...)
	if r.Err != nil {
		return nil
	}
	arr := make([]E, 0, capHint(n, r))
	for i := 0; i < n; i++ {
		e := dec(r)
		if r.Err != nil {
			return nil
		}
		arr = append(arr, e)
	}
	return arr
}

// capHint bounds the preallocation for n elements by the remaining input, so
// a forged length prefix can't force a huge allocation.
func capHint(n int, r *BinReader) int {
	return min(n, r.Len())
}

// WriteFixedArray writes exactly n elements without a length prefix.
func WriteFixedArray[E any](w *BinWriter, arr []E, n int, enc func(*BinWriter, E)) {
	if w.Err != nil {
		return
	}
	if len(arr) != n {
		w.Err = &ArityError{Expected: n, Actual: len(arr)}
		return
	}
	for i := range arr {
		enc(w, arr[i])
	}
}

// ReadFixedArray reads exactly n elements.
func ReadFixedArray[E any](r *BinReader, n int, dec func(*BinReader) E) []E {
	if r.Err != nil {
		return nil
	}
	if n < 0 || n > MaxSequenceLength {
		r.Err = &LengthError{Length: uint64(max(n, 0)), Max: MaxSequenceLength}
		return nil
	}
	arr := make([]E, 0, capHint(n, r))
	for i := 0; i < n; i++ {
		e := dec(r)
		if r.Err != nil {
			return nil
		}
		arr = append(arr, e)
	}
	return arr
}
