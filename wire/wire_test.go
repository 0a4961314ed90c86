package wire

import (
	"bytes"
	"errors"
	"testing"

	"xdao.co/proxyreg/addr"
)

func fillAddress(b byte) addr.Address {
	var a addr.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func fillSalt(b byte) addr.Salt {
	var s addr.Salt
	for i := range s {
		s[i] = b
	}
	return s
}

func TestWriterReaderRoundTrip(t *testing.T) {
	id := fillSalt(0x10)
	impl := fillAddress(0x20)

	payload := NewWriter().Salt(id).Address(impl).Bytes()
	if len(payload) != addr.SaltSize+addr.AddressSize {
		t.Fatalf("unexpected payload length %d", len(payload))
	}

	r := NewReader(payload)
	gotID := r.Salt()
	gotImpl := r.Address()
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if gotID != id || gotImpl != impl {
		t.Fatalf("round trip mismatch")
	}
}

func TestReaderRejectsShortPayload(t *testing.T) {
	r := NewReader(make([]byte, addr.AddressSize-1))
	_ = r.Address()
	if err := r.Close(); !errors.Is(err, ErrShortPayload) {
		t.Fatalf("expected ErrShortPayload, got %v", err)
	}
}

func TestReaderRejectsTrailingBytes(t *testing.T) {
	payload := append(EncodeAddress(fillAddress(0x01)), 0xff)
	r := NewReader(payload)
	_ = r.Address()
	if err := r.Close(); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("expected ErrTrailingBytes, got %v", err)
	}
}

func TestReaderStopsAfterFirstError(t *testing.T) {
	r := NewReader(nil)
	a := r.Address()
	s := r.Salt()
	if a != addr.Zero || !s.IsZero() {
		t.Fatalf("expected zero values after error")
	}
	if err := r.Close(); !errors.Is(err, ErrShortPayload) {
		t.Fatalf("expected ErrShortPayload, got %v", err)
	}
}

func TestEncodeDecodeAddress(t *testing.T) {
	want := fillAddress(0x42)
	got, err := DecodeAddress(EncodeAddress(want))
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if got != want {
		t.Fatalf("mismatch: %s vs %s", got, want)
	}
	if _, err := DecodeAddress(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestEncodeDecodeSalt(t *testing.T) {
	want := fillSalt(0x42)
	enc := EncodeSalt(want)
	if !bytes.Equal(enc, want[:]) {
		t.Fatalf("salt encoding is not the raw bytes")
	}
	got, err := DecodeSalt(enc)
	if err != nil {
		t.Fatalf("DecodeSalt: %v", err)
	}
	if got != want {
		t.Fatalf("mismatch: %s vs %s", got, want)
	}
	if _, err := DecodeSalt(enc[:addr.SaltSize-1]); err == nil {
		t.Fatalf("expected error for short payload")
	}
}
