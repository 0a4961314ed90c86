package addr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"golang.org/x/crypto/sha3"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// SaltSize is the length of a deployment salt in bytes.
//
// Implementation identifiers share this width: an identifier doubles as the
// derivation salt for the holder it is bound to.
const SaltSize = 32

// Address identifies an account on the ledger.
//
// The zero value is the null address and never refers to a live account.
type Address [AddressSize]byte

// Salt is a caller-chosen deployment salt (or implementation identifier).
type Salt [SaltSize]byte

// Zero is the null address.
var Zero Address

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool { return a == Zero }

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressSize)
	copy(out, a[:])
	return out
}

// String returns the 0x-prefixed lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String returns the 0x-prefixed lowercase hex form.
func (s Salt) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// IsZero reports whether s is all zero bytes.
func (s Salt) IsZero() bool { return s == Salt{} }

// BytesToAddress converts b to an Address, right-aligned.
//
// Inputs longer than AddressSize keep their trailing bytes; shorter inputs
// are left-padded with zeros.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressSize {
		b = b[len(b)-AddressSize:]
	}
	copy(a[AddressSize-len(b):], b)
	return a
}

// ParseAddress parses a 0x-prefixed or bare hex address.
func ParseAddress(s string) (Address, error) {
	b, err := parseHex(s, AddressSize)
	if err != nil {
		return Zero, fmt.Errorf("addr: invalid address %q: %w", s, err)
	}
	return BytesToAddress(b), nil
}

// ParseSalt parses a 0x-prefixed or bare hex salt. Inputs shorter than
// SaltSize are left-padded with zeros, matching word semantics on the ledger.
func ParseSalt(s string) (Salt, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return Salt{}, fmt.Errorf("addr: invalid salt %q: %w", s, err)
	}
	if len(b) > SaltSize {
		return Salt{}, fmt.Errorf("addr: salt %q longer than %d bytes", s, SaltSize)
	}
	var out Salt
	copy(out[SaltSize-len(b):], b)
	return out, nil
}

func parseHex(s string, want int) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, err
	}
	if len(b) != want {
		return nil, fmt.Errorf("expected %d bytes, got %d", want, len(b))
	}
	return b, nil
}

// derivationDomain separates deployment-address preimages from any other use
// of Keccak-256 in the system.
const derivationDomain = 0xff

// Derive maps (deployer, salt, code fingerprint) to the deployment address.
//
// The mapping is pure: it depends on no ledger state and may be used to
// predict an address before anything is deployed there. The fingerprint's
// multihash bytes enter the preimage whole, so two module kinds can never
// collide under the same salt.
func Derive(deployer Address, salt Salt, fp cid.Cid) Address {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte{derivationDomain})
	_, _ = h.Write(deployer[:])
	_, _ = h.Write(salt[:])
	_, _ = h.Write(fp.Hash())
	return BytesToAddress(h.Sum(nil))
}
