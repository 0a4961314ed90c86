package registry

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Kinds are intended to remain stable across versions. Callers should
// branch on Kind rather than matching error strings.
//
// NOTE: Error() strings are intentionally human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindNotOwner: the caller is not the manager's owner.
	KindNotOwner Kind = "NotOwner"
	// KindNotApproved: the caller is neither owner nor approved deployer.
	KindNotApproved Kind = "NotApproved"
	// KindNullAddress: a zero address was supplied where a real target is required.
	KindNullAddress Kind = "NullAddress"
	// KindIdInUse: a relationship already exists for this identifier.
	KindIdInUse Kind = "IdInUse"
	// KindUnknownId: no holder is bound to this identifier.
	KindUnknownId Kind = "UnknownId"
	// KindCollision: the deterministic deployment address is already occupied.
	KindCollision Kind = "Collision"
	// KindBadPayload: a method payload failed strict canonical decoding.
	KindBadPayload Kind = "BadPayload"
)

// Error is the registry's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	if cause == nil {
		return newError(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// ErrKind returns the Kind carried by err, or "" if err is not structured.
func ErrKind(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
