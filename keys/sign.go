package keys

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"xdao.co/proxyreg/addr"
)

// requestDomain separates request digests from every other signed payload.
const requestDomain = "xdao-proxyreg-request-v1"

// RequestDigest returns the canonical sha3-256 digest signed for a
// registry request: domain, method name and payload, NUL-separated.
func RequestDigest(method string, payload []byte) [32]byte {
	h := sha3.New256()
	_, _ = h.Write([]byte(requestDomain))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(method))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(payload)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SignRequestEd25519 signs the canonical request digest.
func SignRequestEd25519(method string, payload []byte, privateKey ed25519.PrivateKey) []byte {
	digest := RequestDigest(method, payload)
	return ed25519.Sign(privateKey, digest[:])
}

// VerifyRequestEd25519 reports whether sig is a valid signature over the
// canonical request digest.
func VerifyRequestEd25519(method string, payload []byte, sig []byte, pub ed25519.PublicKey) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	digest := RequestDigest(method, payload)
	return ed25519.Verify(pub, digest[:], sig)
}

// SignRequestDilithium3 signs the canonical request digest with a
// Dilithium3 key.
func SignRequestDilithium3(method string, payload []byte, privateKey *mode3.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("missing private key")
	}
	digest := RequestDigest(method, payload)
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest[:], sig)
	return sig, nil
}

// VerifyRequestDilithium3 reports whether sig is a valid Dilithium3
// signature over the canonical request digest.
func VerifyRequestDilithium3(method string, payload []byte, sig []byte, pub *mode3.PublicKey) bool {
	if pub == nil {
		return false
	}
	digest := RequestDigest(method, payload)
	return mode3.Verify(pub, digest[:], sig)
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

// AddressFromDilithium3PublicKey derives the ledger address for a
// Dilithium3 public key, same scheme as Ed25519 identities.
func AddressFromDilithium3PublicKey(pub *mode3.PublicKey) (addr.Address, error) {
	if pub == nil {
		return addr.Zero, fmt.Errorf("missing public key")
	}
	return addressFromKeyBytes(pub.Bytes()), nil
}
