package dispatch

import (
	"fmt"
	"strings"
)

// AmbiguousSignatureError indicates two declared signatures that accept an
// overlapping set of argument tuples with equal specificity, detected while
// building the table.
type AmbiguousSignatureError struct {
	Name string
	SigA string
	SigB string
}

func (e *AmbiguousSignatureError) Error() string {
	return fmt.Sprintf("function %s: ambiguous signatures %q and %q", e.Name, e.SigA, e.SigB)
}

func NewAmbiguousSignatureError(name, sigA, sigB string) *AmbiguousSignatureError {
	return &AmbiguousSignatureError{Name: name, SigA: sigA, SigB: sigB}
}

// InvalidArityError indicates two signatures declaring the identical
// parameter pattern, so one of them could never be selected.
type InvalidArityError struct {
	Name string
	Sig  string
}

func (e *InvalidArityError) Error() string {
	return fmt.Sprintf("function %s: duplicate signature %q", e.Name, e.Sig)
}

func NewInvalidArityError(name, sig string) *InvalidArityError {
	return &InvalidArityError{Name: name, Sig: sig}
}

// AmbiguousCallError indicates a call whose runtime argument types satisfy
// two signatures equally well, so no deterministic choice exists.
type AmbiguousCallError struct {
	Name     string
	ArgTypes []string
	SigA     string
	SigB     string
}

func (e *AmbiguousCallError) Error() string {
	return fmt.Sprintf("function %s: ambiguous call with (%s), both %q and %q match",
		e.Name, strings.Join(e.ArgTypes, ", "), e.SigA, e.SigB)
}

func NewAmbiguousCallError(name string, argTypes []string, sigA, sigB string) *AmbiguousCallError {
	return &AmbiguousCallError{Name: name, ArgTypes: argTypes, SigA: sigA, SigB: sigB}
}

// NoMatchError indicates a call no signature accepts, even with conversions.
// The message lists the actual argument types and every declared signature so
// a bad call can be diagnosed from the error alone.
type NoMatchError struct {
	Name       string
	ArgTypes   []string
	Signatures []string
}

func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %s: no matching signature for (%s), expected one of:",
		e.Name, strings.Join(e.ArgTypes, ", "))
	for _, sig := range e.Signatures {
		b.WriteString("\n  ")
		if sig == "" {
			sig = "()"
		}
		b.WriteString(sig)
	}
	return b.String()
}

func NewNoMatchError(name string, argTypes, signatures []string) *NoMatchError {
	return &NoMatchError{Name: name, ArgTypes: argTypes, Signatures: signatures}
}

// SelfReferenceError indicates a self handle invoked before the owning typed
// function finished building.
type SelfReferenceError struct {
	Name string
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("function %s: self reference used before construction completed", e.Name)
}

func NewSelfReferenceError(name string) *SelfReferenceError {
	return &SelfReferenceError{Name: name}
}
