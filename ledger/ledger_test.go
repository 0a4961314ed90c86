package ledger

import (
	"errors"
	"testing"

	"xdao.co/proxyreg/addr"
)

// kv is a minimal module: "set" stores the input, "get" returns it, "fail"
// stores the input and then errors.
type kv struct{}

func (kv) Kind() string             { return "test-kv/v1" }
func (kv) Construct(env *Env) error { return nil }

func (kv) Invoke(env *Env, method string, input []byte) ([]byte, error) {
	switch method {
	case "set":
		env.Store().Put("v", input)
		return nil, nil
	case "get":
		v, _ := env.Store().Get("v")
		return v, nil
	case "fail":
		env.Store().Put("v", input)
		return nil, errors.New("kv: forced failure")
	default:
		return nil, ErrNoMethod
	}
}

// badConstruct writes storage and then fails construction.
type badConstruct struct{}

func (badConstruct) Kind() string { return "test-bad/v1" }
func (badConstruct) Construct(env *Env) error {
	env.Store().Put("half", []byte{1})
	return errors.New("construct refused")
}
func (badConstruct) Invoke(env *Env, method string, input []byte) ([]byte, error) {
	return nil, ErrNoMethod
}

// spawner deploys a kv under a fixed salt; "spawn-fail" deploys and then
// errors so the nested deployment must unwind.
type spawner struct{}

func (spawner) Kind() string             { return "test-spawner/v1" }
func (spawner) Construct(env *Env) error { return nil }

func (spawner) Invoke(env *Env, method string, input []byte) ([]byte, error) {
	var salt addr.Salt
	copy(salt[:], input)
	switch method {
	case "spawn":
		child, err := env.Deploy(salt, kv{})
		if err != nil {
			return nil, err
		}
		return child.Bytes(), nil
	case "spawn-fail":
		if _, err := env.Deploy(salt, kv{}); err != nil {
			return nil, err
		}
		return nil, errors.New("spawner: abort after deploy")
	default:
		return nil, ErrNoMethod
	}
}

// borrower delegate-calls kv code at the address in input, so the write
// lands in borrower's own storage.
type borrower struct{}

func (borrower) Kind() string             { return "test-borrower/v1" }
func (borrower) Construct(env *Env) error { return nil }

func (borrower) Invoke(env *Env, method string, input []byte) ([]byte, error) {
	switch method {
	case "borrow-set":
		code := addr.BytesToAddress(input[:addr.AddressSize])
		return env.DelegateCall(code, "set", input[addr.AddressSize:])
	case "get":
		v, _ := env.Store().Get("v")
		return v, nil
	default:
		return nil, ErrNoMethod
	}
}

func saltOf(b byte) addr.Salt {
	var s addr.Salt
	s[addr.SaltSize-1] = b
	return s
}

func addrOf(b byte) addr.Address {
	var a addr.Address
	a[addr.AddressSize-1] = b
	return a
}

func TestDeployMatchesPredict(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	salt := saltOf(0x02)

	predicted := l.Predict(creator, salt, kv{}.Kind())
	deployed, err := l.Deploy(creator, salt, kv{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if deployed != predicted {
		t.Fatalf("deployed %s, predicted %s", deployed, predicted)
	}
	if !l.Exists(deployed) {
		t.Fatalf("deployed account does not exist")
	}
	kind, ok := l.KindAt(deployed)
	if !ok || kind != (kv{}).Kind() {
		t.Fatalf("KindAt = %q, %v", kind, ok)
	}
}

func TestDeployCollision(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	salt := saltOf(0x02)

	first, err := l.Deploy(creator, salt, kv{})
	if err != nil {
		t.Fatalf("first Deploy: %v", err)
	}
	if _, err := l.Deploy(creator, salt, kv{}); !IsCollision(err) {
		t.Fatalf("expected collision, got %v", err)
	}
	if !l.Exists(first) {
		t.Fatalf("collision removed the original account")
	}
}

func TestDeployDistinctKindsShareSalt(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	salt := saltOf(0x02)

	a, err := l.Deploy(creator, salt, kv{})
	if err != nil {
		t.Fatalf("Deploy kv: %v", err)
	}
	b, err := l.Deploy(creator, salt, spawner{})
	if err != nil {
		t.Fatalf("Deploy spawner: %v", err)
	}
	if a == b {
		t.Fatalf("distinct kinds derived the same address")
	}
}

func TestFailedConstructLeavesNothing(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	salt := saltOf(0x02)

	target := l.Predict(creator, salt, badConstruct{}.Kind())
	if _, err := l.Deploy(creator, salt, badConstruct{}); err == nil {
		t.Fatalf("expected construct failure")
	}
	if l.Exists(target) {
		t.Fatalf("failed deployment left an account behind")
	}

	// The address is still available for a later successful deployment.
	if _, err := l.Deploy(creator, salt, kv{}); err != nil {
		t.Fatalf("redeploy after failed construct: %v", err)
	}
}

func TestFailedCallRollsBackWrites(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	target, err := l.Deploy(creator, saltOf(0x02), kv{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if _, err := l.Call(creator, target, "set", []byte("stable")); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := l.Call(creator, target, "fail", []byte("poison")); err == nil {
		t.Fatalf("expected forced failure")
	}

	out, err := l.Call(creator, target, "get", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != "stable" {
		t.Fatalf("write survived a failed call: %q", out)
	}
}

func TestFailedCallUnwindsNestedDeploy(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	sp, err := l.Deploy(creator, saltOf(0x02), spawner{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	childSalt := saltOf(0x03)
	child := l.Predict(sp, childSalt, kv{}.Kind())

	if _, err := l.Call(creator, sp, "spawn-fail", childSalt[:]); err == nil {
		t.Fatalf("expected spawn-fail to error")
	}
	if l.Exists(child) {
		t.Fatalf("nested deployment survived a failed call")
	}

	// The same salt still works once the operation succeeds.
	out, err := l.Call(creator, sp, "spawn", childSalt[:])
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if addr.BytesToAddress(out) != child {
		t.Fatalf("spawn landed at %s, predicted %s", addr.BytesToAddress(out), child)
	}
}

func TestCallUnknownTarget(t *testing.T) {
	l := New()
	if _, err := l.Call(addrOf(0x01), addrOf(0x02), "get", nil); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("expected ErrNoAccount, got %v", err)
	}
}

func TestCallUnknownMethod(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	target, err := l.Deploy(creator, saltOf(0x02), kv{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if _, err := l.Call(creator, target, "nope", nil); !errors.Is(err, ErrNoMethod) {
		t.Fatalf("expected ErrNoMethod, got %v", err)
	}
}

func TestDeployNilModule(t *testing.T) {
	l := New()
	if _, err := l.Deploy(addrOf(0x01), saltOf(0x02), nil); !errors.Is(err, ErrNilModule) {
		t.Fatalf("expected ErrNilModule, got %v", err)
	}
}

func TestDelegateCallUsesCallerStorage(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	code, err := l.Deploy(creator, saltOf(0x02), kv{})
	if err != nil {
		t.Fatalf("Deploy kv: %v", err)
	}
	bor, err := l.Deploy(creator, saltOf(0x03), borrower{})
	if err != nil {
		t.Fatalf("Deploy borrower: %v", err)
	}

	input := append(code.Bytes(), []byte("delegated")...)
	if _, err := l.Call(creator, bor, "borrow-set", input); err != nil {
		t.Fatalf("borrow-set: %v", err)
	}

	// The write landed in the borrower's storage, not the code account's.
	out, err := l.Call(creator, bor, "get", nil)
	if err != nil {
		t.Fatalf("borrower get: %v", err)
	}
	if string(out) != "delegated" {
		t.Fatalf("borrower storage = %q", out)
	}
	out, err = l.Call(creator, code, "get", nil)
	if err != nil {
		t.Fatalf("code get: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("code account storage written by delegate call: %q", out)
	}
}

func TestStoreValueCopies(t *testing.T) {
	l := New()
	creator := addrOf(0x01)
	target, err := l.Deploy(creator, saltOf(0x02), kv{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	buf := []byte("original")
	if _, err := l.Call(creator, target, "set", buf); err != nil {
		t.Fatalf("set: %v", err)
	}
	copy(buf, "mutated!")

	out, err := l.Call(creator, target, "get", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != "original" {
		t.Fatalf("stored value aliased caller buffer: %q", out)
	}
}
