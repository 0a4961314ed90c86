package proxy

import (
	"fmt"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/wire"
)

// Holder is the shared mutable cell behind every many-to-one proxy bound to
// it: one implementation address, writable only by the deploying manager,
// readable by anyone.
type Holder struct{}

func (Holder) Kind() string { return KindHolder }

// Construct stores the deployer as manager and reads the staged
// implementation address back from it. A zero staged address fails the
// deployment.
func (Holder) Construct(env *ledger.Env) error {
	impl, err := readStaged(env, MethodStagedImplementation)
	if err != nil {
		return err
	}
	store := env.Store()
	store.Put(keyManager, env.Caller.Bytes())
	store.Put(keyImplementation, impl.Bytes())
	return nil
}

func (Holder) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	switch method {
	case MethodImplementation:
		return storedAddress(env, keyImplementation)
	case MethodManager:
		return storedAddress(env, keyManager)
	case MethodSetImplementation:
		return nil, setImplementation(env, input)
	default:
		return nil, fmt.Errorf("%w: %s.%s", ledger.ErrNoMethod, KindHolder, method)
	}
}

// readStaged calls the named staging-slot read on the deployer and rejects
// a zero result. Only valid during Construct, while the deployer's staging
// bracket is open.
func readStaged(env *ledger.Env, method string) (addr.Address, error) {
	out, err := env.Call(env.Caller, method, nil)
	if err != nil {
		return addr.Zero, fmt.Errorf("read %s from deployer: %w", method, err)
	}
	a, err := wire.DecodeAddress(out)
	if err != nil {
		return addr.Zero, err
	}
	if a.IsZero() {
		return addr.Zero, fmt.Errorf("%w: %s", ErrNullAddress, method)
	}
	return a, nil
}

func storedAddress(env *ledger.Env, key string) ([]byte, error) {
	v, ok := env.Store().Get(key)
	if !ok || len(v) != addr.AddressSize {
		return nil, fmt.Errorf("%w: missing %s", ErrCorruptState, key)
	}
	return v, nil
}

// setImplementation overwrites keyImplementation, restricted to the
// deploying manager. Shared by Holder and Direct.
func setImplementation(env *ledger.Env, input []byte) error {
	mgr, err := storedAddress(env, keyManager)
	if err != nil {
		return err
	}
	if env.Caller != addr.BytesToAddress(mgr) {
		return ErrNotManager
	}
	next, err := wire.DecodeAddress(input)
	if err != nil {
		return err
	}
	if next.IsZero() {
		return ErrNullAddress
	}
	env.Store().Put(keyImplementation, next.Bytes())
	return nil
}
