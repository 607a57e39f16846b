package funtype

import (
	"github.com/funvibe/funtype/internal/dispatch"
	"github.com/funvibe/funtype/internal/signature"
)

// Handler is the uniform implementation convention for every signature body.
type Handler = dispatch.Handler

// Self is the handle a self-referencing implementation dispatches through.
type Self = dispatch.Self

// Resolution is the outcome of resolving a call without invoking it.
type Resolution = dispatch.Resolution

// TypedFunction is one named multiple-dispatch function: an immutable
// dispatch table plus its declared dependencies and opaque metadata. Safe
// for concurrent calls once returned by its Env.
type TypedFunction struct {
	name  string
	env   *Env
	table *dispatch.Table
	defs  []Sig
	deps  []string
	meta  map[string]bool
	self  *dispatch.Self
	base  *TypedFunction
}

// Name returns the function name.
func (f *TypedFunction) Name() string {
	return f.name
}

// Invoke resolves the call against the runtime argument types and runs the
// winning implementation, converting arguments where a conversion path was
// selected.
func (f *TypedFunction) Invoke(args ...any) (any, error) {
	return f.table.Invoke(args...)
}

// Resolve selects the implementation for the given arguments without
// calling it.
func (f *TypedFunction) Resolve(args []any) (*Resolution, error) {
	return f.table.Resolve(args)
}

// Func adapts the typed function to a plain Handler.
func (f *TypedFunction) Func() Handler {
	return f.Invoke
}

// Signatures returns the declared signatures, normalized, in declaration
// order.
func (f *TypedFunction) Signatures() []string {
	return f.table.SignatureStrings()
}

// ArityBounds returns the smallest and largest accepted argument counts;
// max is -1 when a rest parameter makes the function unbounded.
func (f *TypedFunction) ArityBounds() (min, max int) {
	return f.table.ArityBounds()
}

// CouldMatch reports whether arguments of exactly the named types could ever
// resolve, directly or through conversions. Intended for compile-time call
// diagnostics; runtime resolution stays authoritative.
func (f *TypedFunction) CouldMatch(typeNames []string) bool {
	return f.table.CouldMatch(typeNames)
}

// Dependencies returns the declared dependency names, optional markers
// included, in declaration order.
func (f *TypedFunction) Dependencies() []string {
	out := make([]string, len(f.deps))
	copy(out, f.deps)
	return out
}

// Meta returns a copy of the opaque metadata flags the function was defined
// with. The dispatch core never interprets them.
func (f *TypedFunction) Meta() map[string]bool {
	out := make(map[string]bool, len(f.meta))
	for k, v := range f.meta {
		out[k] = v
	}
	return out
}

// Base returns the function this one was extended from, or nil. The
// reference is for lookup only; the base stays independently usable.
func (f *TypedFunction) Base() *TypedFunction {
	return f.base
}

// Find returns the implementation declared for the given signature source.
// The source is parsed and normalized first, so "number,string" finds the
// entry declared as "number, string". A signature that is declared nowhere
// is reported as a NoMatchError listing every declared signature.
func (f *TypedFunction) Find(source string) (Handler, error) {
	sig, err := signature.Parse(source, f.env.registry)
	if err != nil {
		return nil, err
	}
	if e, ok := f.table.Lookup(sig.String()); ok {
		return e.Impl, nil
	}
	requested := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		requested[i] = p.String()
	}
	return nil, dispatch.NewNoMatchError(f.name, requested, f.table.SignatureStrings())
}

// FindExact returns the implementation declared with exactly the given
// normalized signature, with no parsing involved.
func (f *TypedFunction) FindExact(normalized string) (Handler, bool) {
	e, ok := f.table.Lookup(normalized)
	if !ok {
		return nil, false
	}
	return e.Impl, true
}

// IsTypedFunction reports whether a value is a typed function produced by
// any Env.
func IsTypedFunction(v any) bool {
	_, ok := v.(*TypedFunction)
	return ok
}
