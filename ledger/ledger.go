// Package ledger is a transaction-serial execution substrate for code
// modules with per-account key/value storage and deterministic deployment.
//
// Contract:
//   - Exactly one top-level Call or Deploy executes at a time.
//   - A top-level operation either commits every storage write and account
//     creation it performed, or none of them.
//   - Deployment addresses are a pure function of (deployer, salt, code
//     fingerprint); deploying onto an occupied address fails with
//     ErrCollision and no state change.
//
// Module code must reach the ledger only through its Env. Calling the
// exported Ledger methods from inside a module deadlocks.
package ledger

import (
	"fmt"
	"sync"

	"xdao.co/proxyreg/addr"
)

// Module is the logic of a deployed account.
//
// Modules are stateless: all durable state lives in the executing account's
// store, so one Module value may back many accounts (delegated execution
// relies on this).
type Module interface {
	// Kind names the module's code identity. It is the sole input to the
	// code fingerprint and must be stable across releases.
	Kind() string

	// Construct initializes a freshly deployed account. It runs with the
	// new account as Self and the deployer as Caller, and accepts no
	// explicit arguments; configuration crosses over via calls back to
	// the deployer.
	Construct(env *Env) error

	// Invoke dispatches a named method against env.Self's storage.
	Invoke(env *Env, method string, input []byte) ([]byte, error)
}

type account struct {
	code  Module
	store map[string][]byte
}

type entryKind int

const (
	entryStorage entryKind = iota
	entryCreate
)

type journalEntry struct {
	kind    entryKind
	account addr.Address
	key     string
	prev    []byte
	existed bool
}

// Ledger holds all accounts behind a single mutex.
type Ledger struct {
	mu       sync.Mutex
	accounts map[addr.Address]*account
	journal  []journalEntry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{accounts: make(map[addr.Address]*account)}
}

// Deploy deterministically deploys code under creator's namespace.
//
// The address is addr.Derive(creator, salt, Fingerprint(code.Kind())).
// Construct runs inside the same atomic bracket as the account creation:
// if it fails, the account does not exist afterwards.
func (l *Ledger) Deploy(creator addr.Address, salt addr.Salt, code Module) (addr.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	target, err := l.deploy(creator, creator, salt, code)
	if err != nil {
		l.revert(0)
		return addr.Zero, err
	}
	l.journal = l.journal[:0]
	return target, nil
}

// Call invokes method on the module at target, with sender as both caller
// and origin. All-or-nothing: on error every write performed by the call
// (including nested calls and deployments) is undone.
func (l *Ledger) Call(sender, target addr.Address, method string, input []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out, err := l.invoke(sender, sender, target, method, input)
	if err != nil {
		l.revert(0)
		return nil, err
	}
	l.journal = l.journal[:0]
	return out, nil
}

// Predict returns the address a deployment of kind under (deployer, salt)
// would occupy. Pure; callable before any deployment.
func (l *Ledger) Predict(deployer addr.Address, salt addr.Salt, kind string) addr.Address {
	return addr.Derive(deployer, salt, addr.Fingerprint(kind))
}

// Exists reports whether an account with code occupies a.
func (l *Ledger) Exists(a addr.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[a]
	return ok && acct.code != nil
}

// KindAt returns the module kind deployed at a, if any.
func (l *Ledger) KindAt(a addr.Address) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[a]
	if !ok || acct.code == nil {
		return "", false
	}
	return acct.code.Kind(), true
}

func (l *Ledger) deploy(creator, origin addr.Address, salt addr.Salt, code Module) (addr.Address, error) {
	if code == nil {
		return addr.Zero, ErrNilModule
	}
	target := addr.Derive(creator, salt, addr.Fingerprint(code.Kind()))
	if acct, ok := l.accounts[target]; ok && acct.code != nil {
		return addr.Zero, fmt.Errorf("%w: %s already occupied", ErrCollision, target)
	}

	l.accounts[target] = &account{code: code, store: make(map[string][]byte)}
	l.journal = append(l.journal, journalEntry{kind: entryCreate, account: target})

	env := &Env{ledger: l, Self: target, Caller: creator, Origin: origin}
	if err := code.Construct(env); err != nil {
		return addr.Zero, fmt.Errorf("construct %s at %s: %w", code.Kind(), target, err)
	}
	return target, nil
}

func (l *Ledger) invoke(sender, origin, target addr.Address, method string, input []byte) ([]byte, error) {
	acct, ok := l.accounts[target]
	if !ok || acct.code == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, target)
	}
	env := &Env{ledger: l, Self: target, Caller: sender, Origin: origin}
	return acct.code.Invoke(env, method, input)
}

func (l *Ledger) revert(mark int) {
	for i := len(l.journal) - 1; i >= mark; i-- {
		e := l.journal[i]
		switch e.kind {
		case entryCreate:
			delete(l.accounts, e.account)
		case entryStorage:
			acct, ok := l.accounts[e.account]
			if !ok {
				continue
			}
			if e.existed {
				acct.store[e.key] = e.prev
			} else {
				delete(acct.store, e.key)
			}
		}
	}
	l.journal = l.journal[:mark]
}

func (l *Ledger) putStorage(owner addr.Address, key string, value []byte) {
	acct, ok := l.accounts[owner]
	if !ok {
		return
	}
	prev, existed := acct.store[key]
	l.journal = append(l.journal, journalEntry{
		kind:    entryStorage,
		account: owner,
		key:     key,
		prev:    prev,
		existed: existed,
	})
	if value == nil {
		delete(acct.store, key)
		return
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	acct.store[key] = cp
}

func (l *Ledger) getStorage(owner addr.Address, key string) ([]byte, bool) {
	acct, ok := l.accounts[owner]
	if !ok {
		return nil, false
	}
	v, ok := acct.store[key]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true
}
