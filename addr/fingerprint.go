package addr

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// fingerprintPrefix is the canonical descriptor prefix hashed into every code
// fingerprint. Versioned so a future descriptor change cannot silently remap
// the whole address space.
const fingerprintPrefix = "xdao-proxyreg-module-v1"

// Fingerprint returns the code fingerprint for a module kind as a CIDv1
// (raw + sha2-256) over the canonical kind descriptor.
//
// Deterministic deployment depends only on this fingerprint and a salt, never
// on construction-time inputs. Returns cid.Undef only if multihash.Sum fails,
// which with SHA2_256 and full-length digests should be unreachable.
func Fingerprint(kind string) cid.Cid {
	descriptor := make([]byte, 0, len(fingerprintPrefix)+1+len(kind))
	descriptor = append(descriptor, fingerprintPrefix...)
	descriptor = append(descriptor, 0)
	descriptor = append(descriptor, kind...)

	sum, err := multihash.Sum(descriptor, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef
	}
	return cid.NewCidV1(cid.Raw, sum)
}
