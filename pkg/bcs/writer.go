package bcs

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// BinWriter is a convenient wrapper around an io.Writer and err object.
// Used to simplify error handling when writing into an io.Writer
// from a struct with many fields.
type BinWriter struct {
	w     io.Writer
	Err   error
	uv    [32]byte
	depth int
}

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// SetError sets the writer error unless one is already recorded.
func (w *BinWriter) SetError(err error) {
	if w.Err == nil {
		w.Err = err
	}
}

// Enter is the writer counterpart of BinReader.Enter, it stops runaway
// recursion on self-referencing values.
func (w *BinWriter) Enter() bool {
	if w.Err != nil {
		return false
	}
	if w.depth >= MaxDepth {
		w.Err = ErrTooDeep
		return false
	}
	w.depth++
	return true
}

// Leave closes a nested value opened with Enter.
func (w *BinWriter) Leave() {
	w.depth--
}

// WriteU8 writes a single byte.
func (w *BinWriter) WriteU8(u8 uint8) {
	w.uv[0] = u8
	w.WriteBytes(w.uv[:1])
}

// WriteBool writes a boolean value encoded as a byte with values of 0 or 1.
func (w *BinWriter) WriteBool(b bool) {
	var i byte
	if b {
		i = 1
	}
	w.WriteU8(i)
}

// WriteU16 writes a uint16 value in little-endian format.
func (w *BinWriter) WriteU16(u16 uint16) {
	binary.LittleEndian.PutUint16(w.uv[:2], u16)
	w.WriteBytes(w.uv[:2])
}

// WriteU32 writes a uint32 value in little-endian format.
func (w *BinWriter) WriteU32(u32 uint32) {
	binary.LittleEndian.PutUint32(w.uv[:4], u32)
	w.WriteBytes(w.uv[:4])
}

// WriteU64 writes a uint64 value in little-endian format.
func (w *BinWriter) WriteU64(u64 uint64) {
	binary.LittleEndian.PutUint64(w.uv[:8], u64)
	w.WriteBytes(w.uv[:8])
}

// WriteU128 writes v as a 16-byte little-endian integer. Negative values and
// values not fitting into 128 bits set a *RangeError.
func (w *BinWriter) WriteU128(v *big.Int) {
	if w.Err != nil {
		return
	}
	if err := CheckU128(v); err != nil {
		w.Err = err
		return
	}
	putBigLE(w.uv[:16], v)
	w.WriteBytes(w.uv[:16])
}

// WriteU256 writes v as a 32-byte little-endian integer.
func (w *BinWriter) WriteU256(v *uint256.Int) {
	if w.Err != nil {
		return
	}
	if v == nil {
		w.Err = ErrNilValue
		return
	}
	w.uv = v.Bytes32()
	reverse(w.uv[:])
	w.WriteBytes(w.uv[:])
}

// WriteU256Big writes a big.Int as u256 after checking its range.
func (w *BinWriter) WriteU256Big(v *big.Int) {
	if w.Err != nil {
		return
	}
	u, err := U256FromBig(v)
	if err != nil {
		w.Err = err
		return
	}
	w.WriteU256(u)
}

// WriteULEB128 writes val using unsigned LEB128 variable-length encoding.
func (w *BinWriter) WriteULEB128(val uint64) {
	if w.Err != nil {
		return
	}
	n := PutULEB128(w.uv[:], val)
	w.WriteBytes(w.uv[:n])
}

// WriteLength writes a sequence length prefix.
func (w *BinWriter) WriteLength(n int) {
	if w.Err != nil {
		return
	}
	if n < 0 || uint64(n) > MaxSequenceLength {
		w.Err = &LengthError{Length: uint64(n), Max: MaxSequenceLength}
		return
	}
	w.WriteULEB128(uint64(n))
}

// WriteBytes writes b without any prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// WriteFixedBytes writes b without a prefix, requiring it to be exactly n
// bytes long.
func (w *BinWriter) WriteFixedBytes(b []byte, n int) {
	if w.Err != nil {
		return
	}
	if len(b) != n {
		w.Err = &ArityError{Expected: n, Actual: len(b)}
		return
	}
	w.WriteBytes(b)
}

// WriteVarBytes writes a length-prefixed byte vector.
func (w *BinWriter) WriteVarBytes(b []byte) {
	if w.Err != nil {
		return
	}
	w.Grow(ULEB128Size(uint64(len(b))) + len(b))
	w.WriteLength(len(b))
	w.WriteBytes(b)
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *BinWriter) WriteString(s string) {
	if w.Err != nil {
		return
	}
	if !utf8.ValidString(s) {
		w.Err = ErrInvalidUTF8
		return
	}
	w.Grow(ULEB128Size(uint64(len(s))) + len(s))
	w.WriteLength(len(s))
	if w.Err != nil {
		return
	}
	_, w.Err = io.WriteString(w.w, s)
}

// Grow tries to increase the underlying buffer capacity so that at least n bytes
// can be written without reallocation. If the writer is not a buffer, this is a no-op.
func (w *BinWriter) Grow(n int) {
	if b, ok := w.w.(*bytes.Buffer); ok {
		b.Grow(n)
	}
}

// BufBinWriter is an additional layer on top of BinWriter that
// automatically creates a buffer to write into that you can get after all
// writes via Bytes().
type BufBinWriter struct {
	*BinWriter
	buf *bytes.Buffer
}

// NewBufBinWriter makes a BufBinWriter with an empty byte buffer.
func NewBufBinWriter() *BufBinWriter {
	b := new(bytes.Buffer)
	return &BufBinWriter{BinWriter: NewBinWriterFromIO(b), buf: b}
}

// Len returns the number of bytes of the unread portion of the buffer.
func (bw *BufBinWriter) Len() int {
	return bw.buf.Len()
}

// Bytes returns the resulting buffer and makes future writes return an error.
// It returns nil if any write failed.
func (bw *BufBinWriter) Bytes() []byte {
	if bw.Err != nil {
		return nil
	}
	bw.Err = errDrained
	return bw.buf.Bytes()
}

// Reset resets the state of the buffer, making it usable again. The buffer is
// the same as the one returned by Bytes(), so if you need that data after
// Reset() you have to copy it yourself.
func (bw *BufBinWriter) Reset() {
	bw.Err = nil
	bw.depth = 0
	bw.buf.Reset()
}

func putBigLE(dst []byte, v *big.Int) {
	v.FillBytes(dst)
	reverse(dst)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
