package grpcregistry

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/keys"
)

// Signature algorithms carried in a request envelope.
const (
	AlgEd25519    byte = 1
	AlgDilithium3 byte = 2
)

var (
	// ErrBadEnvelope is returned for structurally invalid envelopes.
	ErrBadEnvelope = errors.New("grpcregistry: malformed envelope")

	// ErrBadSignature is returned when the signature does not verify.
	ErrBadSignature = errors.New("grpcregistry: signature verification failed")
)

// Envelope wraps a canonical method payload with the caller's key and
// signature. The signature covers keys.RequestDigest(method, Payload), so
// an envelope signed for one method cannot be replayed against another.
//
// Layout: alg (1) | keylen (2 BE) | key | siglen (2 BE) | sig | payload.
type Envelope struct {
	Alg       byte
	PublicKey []byte
	Signature []byte
	Payload   []byte
}

// Encode returns the canonical envelope bytes.
func (e Envelope) Encode() []byte {
	out := make([]byte, 0, 1+2+len(e.PublicKey)+2+len(e.Signature)+len(e.Payload))
	out = append(out, e.Alg)
	out = binary.BigEndian.AppendUint16(out, uint16(len(e.PublicKey)))
	out = append(out, e.PublicKey...)
	out = binary.BigEndian.AppendUint16(out, uint16(len(e.Signature)))
	out = append(out, e.Signature...)
	out = append(out, e.Payload...)
	return out
}

// DecodeEnvelope strictly decodes envelope bytes.
func DecodeEnvelope(b []byte) (Envelope, error) {
	var e Envelope
	if len(b) < 1+2 {
		return e, fmt.Errorf("%w: too short", ErrBadEnvelope)
	}
	e.Alg = b[0]
	b = b[1:]

	keyLen := int(binary.BigEndian.Uint16(b))
	b = b[2:]
	if len(b) < keyLen+2 {
		return e, fmt.Errorf("%w: truncated public key", ErrBadEnvelope)
	}
	e.PublicKey = b[:keyLen]
	b = b[keyLen:]

	sigLen := int(binary.BigEndian.Uint16(b))
	b = b[2:]
	if len(b) < sigLen {
		return e, fmt.Errorf("%w: truncated signature", ErrBadEnvelope)
	}
	e.Signature = b[:sigLen]
	e.Payload = b[sigLen:]
	return e, nil
}

// Verify checks the signature for method and returns the sender address
// derived from the public key.
func (e Envelope) Verify(method string) (addr.Address, error) {
	switch e.Alg {
	case AlgEd25519:
		pub := ed25519.PublicKey(e.PublicKey)
		if !keys.VerifyRequestEd25519(method, e.Payload, e.Signature, pub) {
			return addr.Zero, ErrBadSignature
		}
		return keys.AddressFromPublicKey(pub)
	case AlgDilithium3:
		var pub mode3.PublicKey
		if len(e.PublicKey) != mode3.PublicKeySize {
			return addr.Zero, fmt.Errorf("%w: bad dilithium3 key size", ErrBadEnvelope)
		}
		if err := pub.UnmarshalBinary(e.PublicKey); err != nil {
			return addr.Zero, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
		}
		if !keys.VerifyRequestDilithium3(method, e.Payload, e.Signature, &pub) {
			return addr.Zero, ErrBadSignature
		}
		return keys.AddressFromDilithium3PublicKey(&pub)
	default:
		return addr.Zero, fmt.Errorf("%w: unknown algorithm %d", ErrBadEnvelope, e.Alg)
	}
}

// Signer produces envelopes for privileged requests.
type Signer interface {
	// Sign wraps payload in a verified envelope for method.
	Sign(method string, payload []byte) (Envelope, error)

	// Address is the ledger identity the envelope verifies to.
	Address() addr.Address
}

// Ed25519Signer signs with an Ed25519 private key.
type Ed25519Signer struct {
	priv    ed25519.PrivateKey
	address addr.Address
}

// NewEd25519Signer returns a signer for an Ed25519 seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes", ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	a, err := keys.AddressFromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{priv: priv, address: a}, nil
}

func (s *Ed25519Signer) Sign(method string, payload []byte) (Envelope, error) {
	return Envelope{
		Alg:       AlgEd25519,
		PublicKey: s.priv.Public().(ed25519.PublicKey),
		Signature: keys.SignRequestEd25519(method, payload, s.priv),
		Payload:   payload,
	}, nil
}

func (s *Ed25519Signer) Address() addr.Address { return s.address }

// Dilithium3Signer signs with a Dilithium3 private key.
type Dilithium3Signer struct {
	pub     *mode3.PublicKey
	priv    *mode3.PrivateKey
	address addr.Address
}

// NewDilithium3Signer returns a signer for a Dilithium3 keypair.
func NewDilithium3Signer(pub *mode3.PublicKey, priv *mode3.PrivateKey) (*Dilithium3Signer, error) {
	a, err := keys.AddressFromDilithium3PublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &Dilithium3Signer{pub: pub, priv: priv, address: a}, nil
}

func (s *Dilithium3Signer) Sign(method string, payload []byte) (Envelope, error) {
	sig, err := keys.SignRequestDilithium3(method, payload, s.priv)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Alg:       AlgDilithium3,
		PublicKey: s.pub.Bytes(),
		Signature: sig,
		Payload:   payload,
	}, nil
}

func (s *Dilithium3Signer) Address() addr.Address { return s.address }
