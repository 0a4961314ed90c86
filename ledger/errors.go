package ledger

import "errors"

var (
	// ErrCollision is returned when a deterministic deployment targets an
	// address that already holds code.
	ErrCollision = errors.New("ledger: deployment collision")

	// ErrNoAccount is returned when a call or delegate targets an address
	// with no code.
	ErrNoAccount = errors.New("ledger: no code at address")

	// ErrNoMethod is returned by modules for methods they do not dispatch.
	ErrNoMethod = errors.New("ledger: no such method")

	// ErrNilModule is returned when a deployment is attempted with nil code.
	ErrNilModule = errors.New("ledger: nil module")
)

// IsCollision reports whether err is (or wraps) ErrCollision.
func IsCollision(err error) bool { return errors.Is(err, ErrCollision) }
