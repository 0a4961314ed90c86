// Package counter ships two versions of a small counter implementation,
// mainly to exercise and demonstrate proxy upgrades: a proxy deployed
// against v1 gains the v2 surface the moment its pointer moves, with the
// count it accumulated left intact (state lives in the proxy's storage,
// not the implementation's).
package counter

import (
	"encoding/binary"
	"fmt"

	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/modules"
)

// Module kinds.
const (
	KindV1 = "counter/v1"
	KindV2 = "counter/v2"
)

// Methods.
const (
	MethodValue     = "value"
	MethodIncrement = "increment"

	// MethodDecrement exists only in v2.
	MethodDecrement = "decrement"
)

const keyCount = "count"

func init() {
	modules.MustRegister(modules.Implementation{
		Name:        KindV1,
		Description: "monotonic counter (value, increment)",
		New:         func() ledger.Module { return V1{} },
	})
	modules.MustRegister(modules.Implementation{
		Name:        KindV2,
		Description: "counter with decrement (value, increment, decrement)",
		New:         func() ledger.Module { return V2{} },
	})
}

// V1 is the original counter.
type V1 struct{}

func (V1) Kind() string                    { return KindV1 }
func (V1) Construct(env *ledger.Env) error { return nil }

func (V1) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	switch method {
	case MethodValue:
		return encode(load(env)), nil
	case MethodIncrement:
		next := load(env) + 1
		store(env, next)
		return encode(next), nil
	default:
		return nil, fmt.Errorf("%w: %s.%s", ledger.ErrNoMethod, KindV1, method)
	}
}

// V2 adds decrement, saturating at zero.
type V2 struct{}

func (V2) Kind() string                    { return KindV2 }
func (V2) Construct(env *ledger.Env) error { return nil }

func (V2) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	switch method {
	case MethodValue:
		return encode(load(env)), nil
	case MethodIncrement:
		next := load(env) + 1
		store(env, next)
		return encode(next), nil
	case MethodDecrement:
		v := load(env)
		if v > 0 {
			v--
		}
		store(env, v)
		return encode(v), nil
	default:
		return nil, fmt.Errorf("%w: %s.%s", ledger.ErrNoMethod, KindV2, method)
	}
}

func load(env *ledger.Env) uint64 {
	b, ok := env.Store().Get(keyCount)
	if !ok || len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func store(env *ledger.Env, v uint64) {
	env.Store().Put(keyCount, encode(v))
}

func encode(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
