// Package guard detects values that skipped their constructor.
//
// A type embeds a ConstructorGuard and sets it with NewConstructorGuard inside its
// constructor. The zero value of the type then fails Validate, so code that received
// an uninitialised value can refuse it instead of acting on empty fields.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no custom error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether its owner was built by a constructor.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns err,
// or ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
