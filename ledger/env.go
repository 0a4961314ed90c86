package ledger

import (
	"fmt"

	"xdao.co/proxyreg/addr"
)

// Env is a module's view of the ledger for one invocation.
//
// Self is the executing account, Caller the immediate invoker, and Origin
// the sender that started the top-level operation. Every Env method runs
// under the lock already held by that operation.
type Env struct {
	ledger *Ledger

	Self   addr.Address
	Caller addr.Address
	Origin addr.Address
}

// Store returns the executing account's storage.
func (e *Env) Store() Store {
	return Store{ledger: e.ledger, owner: e.Self}
}

// Call invokes method on the module at target. The callee executes against
// its own storage, with e.Self as its caller.
func (e *Env) Call(target addr.Address, method string, input []byte) ([]byte, error) {
	return e.ledger.invoke(e.Self, e.Origin, target, method, input)
}

// DelegateCall runs the code deployed at code against e.Self's storage,
// preserving Self and Caller. This is how proxies execute an implementation
// in their own storage context.
func (e *Env) DelegateCall(code addr.Address, method string, input []byte) ([]byte, error) {
	acct, ok := e.ledger.accounts[code]
	if !ok || acct.code == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, code)
	}
	inner := &Env{ledger: e.ledger, Self: e.Self, Caller: e.Caller, Origin: e.Origin}
	return acct.code.Invoke(inner, method, input)
}

// Deploy deterministically deploys code with e.Self as the deployer
// namespace, inside the enclosing operation's atomic bracket.
func (e *Env) Deploy(salt addr.Salt, code Module) (addr.Address, error) {
	return e.ledger.deploy(e.Self, e.Origin, salt, code)
}

// Exists reports whether an account with code occupies a.
func (e *Env) Exists(a addr.Address) bool {
	acct, ok := e.ledger.accounts[a]
	return ok && acct.code != nil
}

// Store is journaled per-account key/value storage. Writes made through a
// Store are undone if the enclosing top-level operation fails.
type Store struct {
	ledger *Ledger
	owner  addr.Address
}

// Get returns a copy of the value at key.
func (s Store) Get(key string) ([]byte, bool) {
	return s.ledger.getStorage(s.owner, key)
}

// Has reports whether key is set.
func (s Store) Has(key string) bool {
	_, ok := s.ledger.getStorage(s.owner, key)
	return ok
}

// Put sets key to a copy of value.
func (s Store) Put(key string, value []byte) {
	if value == nil {
		value = []byte{}
	}
	s.ledger.putStorage(s.owner, key, value)
}

// Delete unsets key.
func (s Store) Delete(key string) {
	s.ledger.putStorage(s.owner, key, nil)
}
