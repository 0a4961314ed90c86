// Package proxy implements the deployable forwarding modules: the
// implementation holder, the direct (one-to-one) proxy and the shared
// (many-to-one) proxy.
//
// All three construct without arguments so their code fingerprints stay
// fixed; configuration is read back from the deploying manager's staging
// slots during Construct. The staging protocol is the pair of read methods
// named below, which the deployer must answer while its deployment call is
// in flight.
package proxy

import "errors"

// Module kinds. These feed the code fingerprint and must never change.
const (
	KindHolder = "holder/v1"
	KindDirect = "proxy-direct/v1"
	KindShared = "proxy-shared/v1"
)

// Management methods dispatched by the modules in this package. Any other
// method on a proxy is forwarded to the active implementation.
const (
	// MethodImplementation returns the current implementation address.
	MethodImplementation = "implementation"

	// MethodSetImplementation overwrites the implementation address.
	// Restricted to the deploying manager.
	MethodSetImplementation = "setImplementation"

	// MethodHolder returns a shared proxy's holder address.
	MethodHolder = "holder"

	// MethodManager returns the deploying manager's address.
	MethodManager = "manager"
)

// Staging-slot reads answered by the deployer during construction.
const (
	MethodStagedImplementation = "stagedImplementation"
	MethodStagedHolder         = "stagedHolder"
)

// Storage keys shared by the modules in this package.
const (
	keyManager        = "manager"
	keyImplementation = "implementation"
	keyHolder         = "holder"
)

var (
	// ErrNotManager is returned when a restricted entry point is invoked
	// by anyone but the deploying manager.
	ErrNotManager = errors.New("proxy: caller is not the manager")

	// ErrNullAddress is returned when a staged or supplied address is zero.
	ErrNullAddress = errors.New("proxy: null address")

	// ErrCorruptState is returned when required storage is missing or
	// malformed; it indicates a construction-protocol violation.
	ErrCorruptState = errors.New("proxy: corrupt state")
)
