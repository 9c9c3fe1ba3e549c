// Package guard detects zero-value structs that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in queries and commands so handlers can refuse
// values built with a struct literal instead of the validating constructor.
//
// Example:
//
//	var ErrRecomputeNotConstructed = errors.New("command must be created via NewRecomputeItemRatingCommand")
//
//	type RecomputeItemRatingCommand struct {
//	    itemID kernel.UUID
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c RecomputeItemRatingCommand) Validate() error {
//	    return c.guard.Validate(ErrRecomputeNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
