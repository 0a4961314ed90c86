// Package registry implements the proxy manager: the single privileged
// entry point that publishes implementations, deploys proxies at
// deterministic addresses and moves the pointers both proxy variants
// resolve against.
//
// Authority is two-tier. The owner holds full control; approved deployers
// may only instantiate shared proxies for relationships the owner already
// created. Any approved deployer may deploy against any existing
// identifier: the relationship itself is owner-gated and proxy deployment
// cannot alter bindings, so no per-identifier deployer restriction is kept.
package registry

import (
	"fmt"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/proxy"
	"xdao.co/proxyreg/wire"
)

// KindManager is the manager's module kind.
const KindManager = "proxy-manager/v1"

// Manager methods. Payloads are canonical wire encodings; see each
// operation for its field order.
const (
	MethodOwner                      = "owner"
	MethodSetOwner                   = "setOwner"
	MethodApproveDeployer            = "approveDeployer"
	MethodDisapproveDeployer         = "disapproveDeployer"
	MethodIsApprovedDeployer         = "isApprovedDeployer"
	MethodCreateSharedRelationship   = "createSharedRelationship"
	MethodUpdateSharedImplementation = "updateSharedImplementation"
	MethodUpdateDirectImplementation = "updateDirectImplementation"
	MethodDeployDirectProxy          = "deployDirectProxy"
	MethodDeploySharedProxy          = "deploySharedProxy"
	MethodHolderFor                  = "holderFor"
	MethodPredictDirectProxy         = "predictDirectProxy"
	MethodPredictSharedProxy         = "predictSharedProxy"
)

const (
	keyOwner                = "owner"
	keyStagedImplementation = "staged/implementation"
	keyStagedHolder         = "staged/holder"
	approvedPrefix          = "approved/"
	relationshipPrefix      = "relationship/"
)

// Manager is the proxy-manager module.
//
// All durable state lives in the manager account's storage so that every
// failed operation unwinds completely. The event log is the one exception:
// it is appended only at success points and read through Handle.Events.
type Manager struct {
	events []Event
}

func (*Manager) Kind() string { return KindManager }

// Construct records the deployer as owner.
func (*Manager) Construct(env *ledger.Env) error {
	if env.Caller.IsZero() {
		return newError(KindNullAddress, "manager owner must be non-null")
	}
	env.Store().Put(keyOwner, env.Caller.Bytes())
	return nil
}

func (m *Manager) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	switch method {
	case MethodOwner:
		return readAddress(env, keyOwner), nil
	case MethodSetOwner:
		return nil, m.setOwner(env, input)
	case MethodApproveDeployer:
		return nil, m.setApproval(env, input, true)
	case MethodDisapproveDeployer:
		return nil, m.setApproval(env, input, false)
	case MethodIsApprovedDeployer:
		return m.isApproved(env, input)
	case MethodCreateSharedRelationship:
		return m.createSharedRelationship(env, input)
	case MethodUpdateSharedImplementation:
		return nil, m.updateSharedImplementation(env, input)
	case MethodUpdateDirectImplementation:
		return nil, m.updateDirectImplementation(env, input)
	case MethodDeployDirectProxy:
		return m.deployDirectProxy(env, input)
	case MethodDeploySharedProxy:
		return m.deploySharedProxy(env, input)
	case MethodHolderFor:
		return m.holderFor(env, input)
	case proxy.MethodStagedImplementation:
		return readAddress(env, keyStagedImplementation), nil
	case proxy.MethodStagedHolder:
		return readAddress(env, keyStagedHolder), nil
	case MethodPredictDirectProxy:
		return predict(env, input, proxy.KindDirect)
	case MethodPredictSharedProxy:
		return predict(env, input, proxy.KindShared)
	default:
		return nil, fmt.Errorf("%w: %s.%s", ledger.ErrNoMethod, KindManager, method)
	}
}

// setOwner reassigns the owner. Owner-only; no validation beyond the
// caller check, so ownership can be burned deliberately.
func (m *Manager) setOwner(env *ledger.Env, input []byte) error {
	if err := requireOwner(env); err != nil {
		return err
	}
	next, err := decodeAddress(input)
	if err != nil {
		return err
	}
	env.Store().Put(keyOwner, next.Bytes())
	return nil
}

// setApproval toggles approved-deployer membership. Owner-only, idempotent.
func (m *Manager) setApproval(env *ledger.Env, input []byte, approve bool) error {
	if err := requireOwner(env); err != nil {
		return err
	}
	deployer, err := decodeAddress(input)
	if err != nil {
		return err
	}
	key := approvedPrefix + deployer.String()
	if approve {
		env.Store().Put(key, []byte{1})
	} else {
		env.Store().Delete(key)
	}
	return nil
}

func (m *Manager) isApproved(env *ledger.Env, input []byte) ([]byte, error) {
	deployer, err := decodeAddress(input)
	if err != nil {
		return nil, err
	}
	if env.Store().Has(approvedPrefix + deployer.String()) {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// createSharedRelationship binds an identifier to a fresh holder, seeded
// with the staged implementation. Payload: id salt, implementation address.
// Returns the holder address. The binding is permanent.
func (m *Manager) createSharedRelationship(env *ledger.Env, input []byte) ([]byte, error) {
	if err := requireOwner(env); err != nil {
		return nil, err
	}
	r := wire.NewReader(input)
	id := r.Salt()
	impl := r.Address()
	if err := r.Close(); err != nil {
		return nil, wrapError(KindBadPayload, "createSharedRelationship payload", err)
	}
	if impl.IsZero() {
		return nil, newError(KindNullAddress, "initial implementation is null")
	}
	store := env.Store()
	relKey := relationshipPrefix + id.String()
	if store.Has(relKey) {
		return nil, newError(KindIdInUse, "relationship already created for "+id.String())
	}

	store.Put(keyStagedImplementation, impl.Bytes())
	defer store.Delete(keyStagedImplementation)

	holder, err := env.Deploy(id, proxy.Holder{})
	if err != nil {
		return nil, deployError(err)
	}
	store.Put(relKey, holder.Bytes())
	m.emit(Event{Type: EventRelationshipCreated, ID: id, Holder: holder, Implementation: impl})
	return holder.Bytes(), nil
}

// updateSharedImplementation writes a new implementation into the holder
// bound to id. Payload: id salt, implementation address. Every shared proxy
// bound to the holder retargets on its next call.
func (m *Manager) updateSharedImplementation(env *ledger.Env, input []byte) error {
	if err := requireOwner(env); err != nil {
		return err
	}
	r := wire.NewReader(input)
	id := r.Salt()
	impl := r.Address()
	if err := r.Close(); err != nil {
		return wrapError(KindBadPayload, "updateSharedImplementation payload", err)
	}
	if impl.IsZero() {
		return newError(KindNullAddress, "new implementation is null")
	}
	holder, ok := boundHolder(env, id)
	if !ok {
		return newError(KindUnknownId, "no holder bound to "+id.String())
	}
	if _, err := env.Call(holder, proxy.MethodSetImplementation, wire.EncodeAddress(impl)); err != nil {
		return err
	}
	m.emit(Event{Type: EventSharedImplementationUpdated, ID: id, Holder: holder, Implementation: impl})
	return nil
}

// updateDirectImplementation retargets a direct proxy. Payload: proxy
// address, implementation address. The proxy authenticates this manager as
// caller; the manager only gates on ownership.
func (m *Manager) updateDirectImplementation(env *ledger.Env, input []byte) error {
	if err := requireOwner(env); err != nil {
		return err
	}
	r := wire.NewReader(input)
	target := r.Address()
	impl := r.Address()
	if err := r.Close(); err != nil {
		return wrapError(KindBadPayload, "updateDirectImplementation payload", err)
	}
	if impl.IsZero() {
		return newError(KindNullAddress, "new implementation is null")
	}
	if _, err := env.Call(target, proxy.MethodSetImplementation, wire.EncodeAddress(impl)); err != nil {
		return err
	}
	m.emit(Event{Type: EventDirectImplementationUpdated, Proxy: target, Implementation: impl})
	return nil
}

// deployDirectProxy deploys a direct proxy under salt, initialized to the
// staged implementation. Payload: salt, implementation address. The address
// depends on the salt alone, never on the implementation choice, so a salt
// is spent forever regardless of what it first pointed at.
func (m *Manager) deployDirectProxy(env *ledger.Env, input []byte) ([]byte, error) {
	if err := requireOwner(env); err != nil {
		return nil, err
	}
	r := wire.NewReader(input)
	salt := r.Salt()
	impl := r.Address()
	if err := r.Close(); err != nil {
		return nil, wrapError(KindBadPayload, "deployDirectProxy payload", err)
	}
	if impl.IsZero() {
		return nil, newError(KindNullAddress, "initial implementation is null")
	}
	store := env.Store()
	store.Put(keyStagedImplementation, impl.Bytes())
	defer store.Delete(keyStagedImplementation)

	deployed, err := env.Deploy(salt, proxy.Direct{})
	if err != nil {
		return nil, deployError(err)
	}
	m.emit(Event{Type: EventDirectProxyDeployed, Proxy: deployed, Implementation: impl})
	return deployed.Bytes(), nil
}

// deploySharedProxy deploys a shared proxy bound to id's holder. Payload:
// id salt, deployment salt. Owner or approved deployer.
func (m *Manager) deploySharedProxy(env *ledger.Env, input []byte) ([]byte, error) {
	if err := requireOwnerOrApproved(env); err != nil {
		return nil, err
	}
	r := wire.NewReader(input)
	id := r.Salt()
	salt := r.Salt()
	if err := r.Close(); err != nil {
		return nil, wrapError(KindBadPayload, "deploySharedProxy payload", err)
	}
	holder, ok := boundHolder(env, id)
	if !ok {
		return nil, newError(KindUnknownId, "no holder bound to "+id.String())
	}
	store := env.Store()
	store.Put(keyStagedHolder, holder.Bytes())
	defer store.Delete(keyStagedHolder)

	deployed, err := env.Deploy(salt, proxy.Shared{})
	if err != nil {
		return nil, deployError(err)
	}
	m.emit(Event{Type: EventSharedProxyDeployed, ID: id, Holder: holder, Proxy: deployed})
	return deployed.Bytes(), nil
}

func (m *Manager) holderFor(env *ledger.Env, input []byte) ([]byte, error) {
	id, err := decodeSalt(input)
	if err != nil {
		return nil, err
	}
	if holder, ok := boundHolder(env, id); ok {
		return holder.Bytes(), nil
	}
	return addr.Zero.Bytes(), nil
}

func predict(env *ledger.Env, input []byte, kind string) ([]byte, error) {
	salt, err := decodeSalt(input)
	if err != nil {
		return nil, err
	}
	return addr.Derive(env.Self, salt, addr.Fingerprint(kind)).Bytes(), nil
}

func (m *Manager) emit(e Event) {
	m.events = append(m.events, e)
}

func requireOwner(env *ledger.Env) error {
	owner, _ := env.Store().Get(keyOwner)
	if env.Caller != addr.BytesToAddress(owner) {
		return newError(KindNotOwner, "caller "+env.Caller.String()+" is not the owner")
	}
	return nil
}

func requireOwnerOrApproved(env *ledger.Env) error {
	if requireOwner(env) == nil {
		return nil
	}
	if env.Store().Has(approvedPrefix + env.Caller.String()) {
		return nil
	}
	return newError(KindNotApproved, "caller "+env.Caller.String()+" is not an approved deployer")
}

func boundHolder(env *ledger.Env, id addr.Salt) (addr.Address, bool) {
	v, ok := env.Store().Get(relationshipPrefix + id.String())
	if !ok || len(v) != addr.AddressSize {
		return addr.Zero, false
	}
	return addr.BytesToAddress(v), true
}

// readAddress returns the stored address at key, or the zero address when
// unset. Staging slots rely on this: outside their bracket they read null.
func readAddress(env *ledger.Env, key string) []byte {
	if v, ok := env.Store().Get(key); ok && len(v) == addr.AddressSize {
		return v
	}
	return addr.Zero.Bytes()
}

func decodeAddress(input []byte) (addr.Address, error) {
	a, err := wire.DecodeAddress(input)
	if err != nil {
		return addr.Zero, wrapError(KindBadPayload, "address payload", err)
	}
	return a, nil
}

func decodeSalt(input []byte) (addr.Salt, error) {
	s, err := wire.DecodeSalt(input)
	if err != nil {
		return addr.Salt{}, wrapError(KindBadPayload, "salt payload", err)
	}
	return s, nil
}

func deployError(err error) error {
	if ledger.IsCollision(err) {
		return wrapError(KindCollision, "deterministic address already occupied", err)
	}
	return err
}
