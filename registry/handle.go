package registry

import (
	"fmt"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/proxy"
	"xdao.co/proxyreg/wire"
)

// Handle is a typed in-process facade over a deployed manager. Each method
// issues one top-level ledger call with an explicit sender identity, so the
// manager's authority checks see the real caller.
type Handle struct {
	ledger  *ledger.Ledger
	address addr.Address
	manager *Manager
}

// Deploy deploys a fresh manager owned by owner under salt and returns its
// handle.
func Deploy(l *ledger.Ledger, owner addr.Address, salt addr.Salt) (*Handle, error) {
	m := &Manager{}
	a, err := l.Deploy(owner, salt, m)
	if err != nil {
		return nil, fmt.Errorf("deploy manager: %w", err)
	}
	return &Handle{ledger: l, address: a, manager: m}, nil
}

// Address returns the manager's ledger address.
func (h *Handle) Address() addr.Address { return h.address }

// Ledger returns the ledger the manager is deployed on.
func (h *Handle) Ledger() *ledger.Ledger { return h.ledger }

// Events returns a copy of the append-only event log.
func (h *Handle) Events() []Event {
	out := make([]Event, len(h.manager.events))
	copy(out, h.manager.events)
	return out
}

// Owner returns the current owner identity.
func (h *Handle) Owner() (addr.Address, error) {
	out, err := h.ledger.Call(addr.Zero, h.address, MethodOwner, nil)
	if err != nil {
		return addr.Zero, err
	}
	return wire.DecodeAddress(out)
}

// SetOwner reassigns the owner. Owner-only.
func (h *Handle) SetOwner(sender, next addr.Address) error {
	_, err := h.ledger.Call(sender, h.address, MethodSetOwner, wire.EncodeAddress(next))
	return err
}

// ApproveDeployer adds deployer to the approved set. Owner-only, idempotent.
func (h *Handle) ApproveDeployer(sender, deployer addr.Address) error {
	_, err := h.ledger.Call(sender, h.address, MethodApproveDeployer, wire.EncodeAddress(deployer))
	return err
}

// DisapproveDeployer removes deployer from the approved set. Owner-only,
// idempotent.
func (h *Handle) DisapproveDeployer(sender, deployer addr.Address) error {
	_, err := h.ledger.Call(sender, h.address, MethodDisapproveDeployer, wire.EncodeAddress(deployer))
	return err
}

// IsApprovedDeployer reports approved-set membership.
func (h *Handle) IsApprovedDeployer(deployer addr.Address) (bool, error) {
	out, err := h.ledger.Call(addr.Zero, h.address, MethodIsApprovedDeployer, wire.EncodeAddress(deployer))
	if err != nil {
		return false, err
	}
	return len(out) == 1 && out[0] == 1, nil
}

// CreateSharedRelationship binds id to a fresh holder seeded with impl and
// returns the holder's address. Owner-only.
func (h *Handle) CreateSharedRelationship(sender addr.Address, id addr.Salt, impl addr.Address) (addr.Address, error) {
	payload := wire.NewWriter().Salt(id).Address(impl).Bytes()
	out, err := h.ledger.Call(sender, h.address, MethodCreateSharedRelationship, payload)
	if err != nil {
		return addr.Zero, err
	}
	return wire.DecodeAddress(out)
}

// UpdateSharedImplementation points id's holder at impl. Owner-only.
func (h *Handle) UpdateSharedImplementation(sender addr.Address, id addr.Salt, impl addr.Address) error {
	payload := wire.NewWriter().Salt(id).Address(impl).Bytes()
	_, err := h.ledger.Call(sender, h.address, MethodUpdateSharedImplementation, payload)
	return err
}

// UpdateDirectImplementation retargets the direct proxy at proxyAddr.
// Owner-only.
func (h *Handle) UpdateDirectImplementation(sender, proxyAddr, impl addr.Address) error {
	payload := wire.NewWriter().Address(proxyAddr).Address(impl).Bytes()
	_, err := h.ledger.Call(sender, h.address, MethodUpdateDirectImplementation, payload)
	return err
}

// DeployDirectProxy deploys a direct proxy under salt pointing at impl and
// returns its address. Owner-only.
func (h *Handle) DeployDirectProxy(sender addr.Address, salt addr.Salt, impl addr.Address) (addr.Address, error) {
	payload := wire.NewWriter().Salt(salt).Address(impl).Bytes()
	out, err := h.ledger.Call(sender, h.address, MethodDeployDirectProxy, payload)
	if err != nil {
		return addr.Zero, err
	}
	return wire.DecodeAddress(out)
}

// DeploySharedProxy deploys a shared proxy under salt bound to id's holder
// and returns its address. Owner or approved deployer.
func (h *Handle) DeploySharedProxy(sender addr.Address, id, salt addr.Salt) (addr.Address, error) {
	payload := wire.NewWriter().Salt(id).Salt(salt).Bytes()
	out, err := h.ledger.Call(sender, h.address, MethodDeploySharedProxy, payload)
	if err != nil {
		return addr.Zero, err
	}
	return wire.DecodeAddress(out)
}

// HolderFor returns the holder bound to id, with ok reporting whether the
// binding exists.
func (h *Handle) HolderFor(id addr.Salt) (holder addr.Address, ok bool, err error) {
	out, err := h.ledger.Call(addr.Zero, h.address, MethodHolderFor, wire.EncodeSalt(id))
	if err != nil {
		return addr.Zero, false, err
	}
	a, err := wire.DecodeAddress(out)
	if err != nil {
		return addr.Zero, false, err
	}
	return a, !a.IsZero(), nil
}

// StagedImplementation returns the transient staged implementation slot;
// null except inside a deployment bracket.
func (h *Handle) StagedImplementation() (addr.Address, error) {
	return h.readStaged(proxy.MethodStagedImplementation)
}

// StagedHolder returns the transient staged holder slot; null except inside
// a deployment bracket.
func (h *Handle) StagedHolder() (addr.Address, error) {
	return h.readStaged(proxy.MethodStagedHolder)
}

func (h *Handle) readStaged(method string) (addr.Address, error) {
	out, err := h.ledger.Call(addr.Zero, h.address, method, nil)
	if err != nil {
		return addr.Zero, err
	}
	return wire.DecodeAddress(out)
}

// PredictDirectProxy returns the address a direct-proxy deployment under
// salt would occupy. Pure; callable before the deployment exists.
func (h *Handle) PredictDirectProxy(salt addr.Salt) addr.Address {
	return h.ledger.Predict(h.address, salt, proxy.KindDirect)
}

// PredictSharedProxy returns the address a shared-proxy deployment under
// salt would occupy.
func (h *Handle) PredictSharedProxy(salt addr.Salt) addr.Address {
	return h.ledger.Predict(h.address, salt, proxy.KindShared)
}

// PredictHolder returns the address the holder for id occupies (or would).
func (h *Handle) PredictHolder(id addr.Salt) addr.Address {
	return h.ledger.Predict(h.address, id, proxy.KindHolder)
}
