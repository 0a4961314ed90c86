package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"

	"xdao.co/proxyreg/addr"
)

// IdentityKeyFromSeed returns the printable identity-key string for an
// Ed25519 seed: "ed25519:" + base64(pubkey).
func IdentityKeyFromSeed(seed []byte) string {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return "ed25519:" + base64.StdEncoding.EncodeToString(pub)
}

// AddressFromPublicKey derives the ledger address for an Ed25519 public
// key: the last 20 bytes of Keccak-256 over the raw key.
func AddressFromPublicKey(pub ed25519.PublicKey) (addr.Address, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return addr.Zero, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return addressFromKeyBytes(pub), nil
}

// AddressFromSeed derives the ledger address for an Ed25519 seed.
func AddressFromSeed(seed []byte) (addr.Address, error) {
	if len(seed) != ed25519.SeedSize {
		return addr.Zero, fmt.Errorf("seed must be %d bytes", ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return AddressFromPublicKey(priv.Public().(ed25519.PublicKey))
}

func addressFromKeyBytes(key []byte) addr.Address {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(key)
	return addr.BytesToAddress(h.Sum(nil))
}

// DeriveRoleSeed deterministically derives a role-specific Ed25519 seed
// from a root seed, so one root identity can hold distinct owner and
// deployer addresses.
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", ed25519.SeedSize)
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("xdao-proxyreg-kms-lite-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:"))
	_, _ = h.Write([]byte(role))
	sum := h.Sum(nil)
	if len(sum) < ed25519.SeedSize {
		return nil, errors.New("kdf output too short")
	}
	out := make([]byte, ed25519.SeedSize)
	copy(out, sum[:ed25519.SeedSize])
	return out, nil
}
