package bcs

const (
	// MaxSequenceLength is the largest length prefix accepted for vectors,
	// byte sequences and strings.
	MaxSequenceLength = 1<<31 - 1
	// MaxDepth limits how deep recursive values may nest.
	MaxDepth = 128

	maxUint32 = 1<<32 - 1
	// maxULEB128Len is the longest ULEB128 encoding of a uint64.
	maxULEB128Len = 10
)

// PutULEB128 puts val in the ULEB128 form into the pre-allocated buffer and
// returns the number of bytes written. The buffer must hold at least 10 bytes.
func PutULEB128(data []byte, val uint64) int {
	_ = data[maxULEB128Len-1]
	n := 0
	for val >= 0x80 {
		data[n] = byte(val) | 0x80
		val >>= 7
		n++
	}
	data[n] = byte(val)
	return n + 1
}

// AppendULEB128 appends the ULEB128 form of val to dst.
func AppendULEB128(dst []byte, val uint64) []byte {
	var buf [maxULEB128Len]byte
	n := PutULEB128(buf[:], val)
	return append(dst, buf[:n]...)
}

// ULEB128 decodes a ULEB128 value from the beginning of data returning the
// value and the number of bytes consumed.
func ULEB128(data []byte) (uint64, int, error) {
	var (
		val   uint64
		shift uint
	)
	for i := 0; i < maxULEB128Len; i++ {
		if i >= len(data) {
			return 0, 0, ErrUnexpectedEnd
		}
		b := data[i]
		group := uint64(b & 0x7f)
		if shift == 63 && group > 1 {
			return 0, 0, ErrULEB128Overflow
		}
		val |= group << shift
		if b&0x80 == 0 {
			if b == 0 && i > 0 {
				return 0, 0, ErrNonCanonicalULEB128
			}
			return val, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrULEB128Overflow
}

// ULEB128Size returns the number of bytes needed to encode val.
func ULEB128Size(val uint64) int {
	n := 1
	for val >= 0x80 {
		val >>= 7
		n++
	}
	return n
}
