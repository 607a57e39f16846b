package funtype

import (
	"fmt"

	"github.com/funvibe/funtype/internal/dispatch"
	"github.com/funvibe/funtype/internal/signature"
	"github.com/funvibe/funtype/internal/typesystem"
)

// The full error taxonomy, re-exported so callers can errors.As against
// every kind without reaching into internal packages.
type (
	DuplicateTypeError      = typesystem.DuplicateTypeError
	UnknownTypeError        = typesystem.UnknownTypeError
	ConflictError           = typesystem.ConflictError
	SyntaxError             = signature.SyntaxError
	AmbiguousSignatureError = dispatch.AmbiguousSignatureError
	InvalidArityError       = dispatch.InvalidArityError
	AmbiguousCallError      = dispatch.AmbiguousCallError
	NoMatchError            = dispatch.NoMatchError
	SelfReferenceError      = dispatch.SelfReferenceError
)

// MissingDependencyError indicates a declared dependency the provider could
// not supply at bind time.
type MissingDependencyError struct {
	Function   string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("function %s: missing dependency %s", e.Function, e.Dependency)
}

func NewMissingDependencyError(function, dependency string) *MissingDependencyError {
	return &MissingDependencyError{Function: function, Dependency: dependency}
}

// UnboundFunctionError indicates a declared function invoked before Bind
// supplied its dependencies.
type UnboundFunctionError struct {
	Name string
}

func (e *UnboundFunctionError) Error() string {
	return fmt.Sprintf("function %s: invoked before its dependencies were bound", e.Name)
}

func NewUnboundFunctionError(name string) *UnboundFunctionError {
	return &UnboundFunctionError{Name: name}
}
