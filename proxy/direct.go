package proxy

import (
	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
)

// Direct is the one-to-one proxy: it owns its implementation pointer and
// forwards every non-management method to it by delegated execution, so the
// implementation's logic runs against the proxy's own storage.
type Direct struct{}

func (Direct) Kind() string { return KindDirect }

// Construct stores the deployer as manager and the staged implementation
// address as the local pointer.
func (Direct) Construct(env *ledger.Env) error {
	impl, err := readStaged(env, MethodStagedImplementation)
	if err != nil {
		return err
	}
	store := env.Store()
	store.Put(keyManager, env.Caller.Bytes())
	store.Put(keyImplementation, impl.Bytes())
	return nil
}

func (Direct) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	switch method {
	case MethodImplementation:
		return storedAddress(env, keyImplementation)
	case MethodManager:
		return storedAddress(env, keyManager)
	case MethodSetImplementation:
		return nil, setImplementation(env, input)
	default:
		impl, err := storedAddress(env, keyImplementation)
		if err != nil {
			return nil, err
		}
		return env.DelegateCall(addr.BytesToAddress(impl), method, input)
	}
}
