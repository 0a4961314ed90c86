package grpcregistry

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"xdao.co/proxyreg/keys"
)

func testSigner(t *testing.T, fill byte) *Ed25519Signer {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	s, err := NewEd25519Signer(seed)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	return s
}

func TestEnvelopeRoundTrip(t *testing.T) {
	s := testSigner(t, 0x01)
	env, err := s.Sign("setOwner", []byte("payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	decoded, err := DecodeEnvelope(env.Encode())
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	sender, err := decoded.Verify("setOwner")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sender != s.Address() {
		t.Fatalf("sender = %s, want %s", sender, s.Address())
	}
	if string(decoded.Payload) != "payload" {
		t.Fatalf("payload = %q", decoded.Payload)
	}
}

func TestEnvelopeRejectsMethodReplay(t *testing.T) {
	s := testSigner(t, 0x01)
	env, err := s.Sign("approveDeployer", []byte("payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := env.Verify("disapproveDeployer"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestEnvelopeRejectsTamperedPayload(t *testing.T) {
	s := testSigner(t, 0x01)
	env, err := s.Sign("setOwner", []byte("payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	env.Payload = []byte("tampered")
	if _, err := env.Verify("setOwner"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestDecodeEnvelopeRejectsTruncation(t *testing.T) {
	s := testSigner(t, 0x01)
	env, err := s.Sign("setOwner", []byte("payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	raw := env.Encode()

	for _, n := range []int{0, 1, 2, 5} {
		if _, err := DecodeEnvelope(raw[:n]); !errors.Is(err, ErrBadEnvelope) {
			t.Fatalf("DecodeEnvelope(%d bytes): expected ErrBadEnvelope, got %v", n, err)
		}
	}
}

func TestEnvelopeRejectsUnknownAlgorithm(t *testing.T) {
	env := Envelope{Alg: 0x7f, Payload: []byte("payload")}
	if _, err := env.Verify("setOwner"); !errors.Is(err, ErrBadEnvelope) {
		t.Fatalf("expected ErrBadEnvelope, got %v", err)
	}
}

func TestDilithium3SignerRoundTrip(t *testing.T) {
	pub, priv, err := keys.GenerateDilithium3Keypair(nil)
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	s, err := NewDilithium3Signer(pub, priv)
	if err != nil {
		t.Fatalf("NewDilithium3Signer: %v", err)
	}

	env, err := s.Sign("deploySharedProxy", []byte("payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	decoded, err := DecodeEnvelope(env.Encode())
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	sender, err := decoded.Verify("deploySharedProxy")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sender != s.Address() {
		t.Fatalf("sender = %s, want %s", sender, s.Address())
	}
}
