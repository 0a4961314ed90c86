package modules

import (
	"sort"
	"testing"

	"xdao.co/proxyreg/ledger"
)

type nopModule struct{ kind string }

func (m nopModule) Kind() string                    { return m.kind }
func (m nopModule) Construct(env *ledger.Env) error { return nil }
func (m nopModule) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	return nil, ledger.ErrNoMethod
}

func testImpl(name string) Implementation {
	return Implementation{
		Name: name,
		New:  func() ledger.Module { return nopModule{kind: name} },
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := Register(Implementation{New: func() ledger.Module { return nopModule{} }}); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if err := Register(Implementation{Name: "test-noop/broken"}); err == nil {
		t.Fatalf("expected error for missing constructor")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	name := "test-noop/dup"
	if err := Register(testImpl(name)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(testImpl(name)); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestListSortedAndOpen(t *testing.T) {
	if err := Register(testImpl("test-noop/b")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(testImpl("test-noop/a")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("Names not sorted: %v", names)
	}

	m, err := Open("test-noop/a")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if m.Kind() != "test-noop/a" {
		t.Fatalf("opened kind = %q", m.Kind())
	}

	if _, err := Open("test-noop/missing"); err == nil {
		t.Fatalf("expected error for unknown implementation")
	}
}
