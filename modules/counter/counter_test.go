package counter

import (
	"encoding/binary"
	"errors"
	"testing"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/modules"
	"xdao.co/proxyreg/registry"
)

func saltN(b byte) addr.Salt {
	var s addr.Salt
	s[addr.SaltSize-1] = b
	return s
}

func value(t *testing.T, l *ledger.Ledger, sender, target addr.Address, method string) uint64 {
	t.Helper()
	out, err := l.Call(sender, target, method, nil)
	if err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	if len(out) != 8 {
		t.Fatalf("%s returned %d bytes", method, len(out))
	}
	return binary.BigEndian.Uint64(out)
}

func TestV1Counts(t *testing.T) {
	l := ledger.New()
	var owner addr.Address
	owner[addr.AddressSize-1] = 0x01

	c, err := l.Deploy(owner, saltN(0x10), V1{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	if got := value(t, l, owner, c, MethodValue); got != 0 {
		t.Fatalf("initial value = %d", got)
	}
	if got := value(t, l, owner, c, MethodIncrement); got != 1 {
		t.Fatalf("increment = %d", got)
	}
	if got := value(t, l, owner, c, MethodIncrement); got != 2 {
		t.Fatalf("increment = %d", got)
	}

	if _, err := l.Call(owner, c, MethodDecrement, nil); !errors.Is(err, ledger.ErrNoMethod) {
		t.Fatalf("v1 decrement: expected ErrNoMethod, got %v", err)
	}
}

func TestV2DecrementSaturates(t *testing.T) {
	l := ledger.New()
	var owner addr.Address
	owner[addr.AddressSize-1] = 0x01

	c, err := l.Deploy(owner, saltN(0x10), V2{})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	if got := value(t, l, owner, c, MethodDecrement); got != 0 {
		t.Fatalf("decrement at zero = %d, want saturation", got)
	}
	if got := value(t, l, owner, c, MethodIncrement); got != 1 {
		t.Fatalf("increment = %d", got)
	}
	if got := value(t, l, owner, c, MethodDecrement); got != 0 {
		t.Fatalf("decrement = %d", got)
	}
}

// The point of shipping two versions: a proxy upgraded from v1 to v2 keeps
// its count and gains decrement.
func TestUpgradeThroughDirectProxy(t *testing.T) {
	l := ledger.New()
	var owner addr.Address
	owner[addr.AddressSize-1] = 0x01

	v1, err := l.Deploy(owner, saltN(0x10), V1{})
	if err != nil {
		t.Fatalf("deploy v1: %v", err)
	}
	v2, err := l.Deploy(owner, saltN(0x11), V2{})
	if err != nil {
		t.Fatalf("deploy v2: %v", err)
	}

	h, err := registry.Deploy(l, owner, saltN(0x01))
	if err != nil {
		t.Fatalf("deploy manager: %v", err)
	}
	p, err := h.DeployDirectProxy(owner, saltN(0x20), v1)
	if err != nil {
		t.Fatalf("DeployDirectProxy: %v", err)
	}

	if got := value(t, l, owner, p, MethodIncrement); got != 1 {
		t.Fatalf("increment = %d", got)
	}
	if _, err := l.Call(owner, p, MethodDecrement, nil); !errors.Is(err, ledger.ErrNoMethod) {
		t.Fatalf("decrement on v1: expected ErrNoMethod, got %v", err)
	}

	if err := h.UpdateDirectImplementation(owner, p, v2); err != nil {
		t.Fatalf("UpdateDirectImplementation: %v", err)
	}

	// Count survives the upgrade; the new surface appears.
	if got := value(t, l, owner, p, MethodValue); got != 1 {
		t.Fatalf("value after upgrade = %d", got)
	}
	if got := value(t, l, owner, p, MethodDecrement); got != 0 {
		t.Fatalf("decrement after upgrade = %d", got)
	}
}

func TestCatalogRegistration(t *testing.T) {
	for _, name := range []string{KindV1, KindV2} {
		m, err := modules.Open(name)
		if err != nil {
			t.Fatalf("Open(%q): %v", name, err)
		}
		if m.Kind() != name {
			t.Fatalf("Open(%q).Kind() = %q", name, m.Kind())
		}
	}
}
