package proxy

import (
	"fmt"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/wire"
)

// Shared is the many-to-one proxy: it holds an immutable reference to a
// Holder and re-reads the holder's current implementation on every
// forwarded call. One holder update retargets every bound proxy at once;
// the proxy itself exposes no implementation mutator.
type Shared struct{}

func (Shared) Kind() string { return KindShared }

// Construct stores the staged holder address. The reference is never
// reassigned afterwards.
func (Shared) Construct(env *ledger.Env) error {
	holder, err := readStaged(env, MethodStagedHolder)
	if err != nil {
		return err
	}
	env.Store().Put(keyHolder, holder.Bytes())
	return nil
}

func (Shared) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	switch method {
	case MethodHolder:
		return storedAddress(env, keyHolder)
	case MethodImplementation:
		impl, err := currentImplementation(env)
		if err != nil {
			return nil, err
		}
		return impl.Bytes(), nil
	default:
		impl, err := currentImplementation(env)
		if err != nil {
			return nil, err
		}
		return env.DelegateCall(impl, method, input)
	}
}

// currentImplementation asks the holder, fresh on every call. No caching:
// staleness here would break the single-update-retargets-all contract.
func currentImplementation(env *ledger.Env) (addr.Address, error) {
	holder, err := storedAddress(env, keyHolder)
	if err != nil {
		return addr.Zero, err
	}
	out, err := env.Call(addr.BytesToAddress(holder), MethodImplementation, nil)
	if err != nil {
		return addr.Zero, fmt.Errorf("read holder implementation: %w", err)
	}
	return wire.DecodeAddress(out)
}
