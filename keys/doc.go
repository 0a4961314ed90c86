// Package keys provides caller-identity helpers for the proxy registry.
//
// An identity is a ledger address derived from a signing public key
// (Keccak-256 over the key bytes, last 20 bytes). Off-process callers prove
// an identity by signing the canonical request bytes; the daemon verifies
// the signature and derives the sender address from the key.
//
// API stability:
//
// Stable (SemVer-protected):
//   - Pure, deterministic primitives: address and role-seed derivation,
//     request signing and verification.
//
// Experimental:
//   - Filesystem-backed key storage and convenience helpers (KeyStore and
//     related functions). These are local-first utilities and are not part
//     of the long-term protocol contract.
package keys
