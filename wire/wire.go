// Package wire encodes method payloads as canonical fixed-width bytes.
//
// Payloads that cross the ledger or RPC boundary must be byte-stable:
// the same logical request always encodes to the same bytes, and decoding
// is strict (short or trailing bytes fail). Layouts are concatenations of
// fixed-width fields with no framing.
package wire

import (
	"errors"
	"fmt"

	"xdao.co/proxyreg/addr"
)

var (
	// ErrShortPayload is returned when a payload ends before a field.
	ErrShortPayload = errors.New("wire: short payload")

	// ErrTrailingBytes is returned when a payload has bytes past the last field.
	ErrTrailingBytes = errors.New("wire: trailing bytes")
)

// Writer appends canonical fields to a payload.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Address appends a 20-byte address.
func (w *Writer) Address(a addr.Address) *Writer {
	w.buf = append(w.buf, a[:]...)
	return w
}

// Salt appends a 32-byte salt or implementation identifier.
func (w *Writer) Salt(s addr.Salt) *Writer {
	w.buf = append(w.buf, s[:]...)
	return w
}

// Bytes returns the encoded payload.
func (w *Writer) Bytes() []byte { return w.buf }

// Reader consumes canonical fields from a payload.
//
// Field methods return zero values after the first error; callers check
// Close once at the end.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a Reader over b.
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Address consumes a 20-byte address.
func (r *Reader) Address() addr.Address {
	var a addr.Address
	b := r.take(addr.AddressSize)
	if b != nil {
		copy(a[:], b)
	}
	return a
}

// Salt consumes a 32-byte salt or implementation identifier.
func (r *Reader) Salt() addr.Salt {
	var s addr.Salt
	b := r.take(addr.SaltSize)
	if b != nil {
		copy(s[:], b)
	}
	return s
}

// Close returns the first decode error, or ErrTrailingBytes if the payload
// was longer than the fields consumed.
func (r *Reader) Close() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%w: %d unread", ErrTrailingBytes, len(r.buf)-r.off)
	}
	return nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortPayload, n, r.off, len(r.buf)-r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// EncodeAddress is shorthand for a single-address payload.
func EncodeAddress(a addr.Address) []byte {
	return NewWriter().Address(a).Bytes()
}

// DecodeAddress strictly decodes a single-address payload.
func DecodeAddress(b []byte) (addr.Address, error) {
	r := NewReader(b)
	a := r.Address()
	if err := r.Close(); err != nil {
		return addr.Zero, err
	}
	return a, nil
}

// EncodeSalt is shorthand for a single-salt payload.
func EncodeSalt(s addr.Salt) []byte {
	return NewWriter().Salt(s).Bytes()
}

// DecodeSalt strictly decodes a single-salt payload.
func DecodeSalt(b []byte) (addr.Salt, error) {
	r := NewReader(b)
	s := r.Salt()
	if err := r.Close(); err != nil {
		return addr.Salt{}, err
	}
	return s, nil
}
