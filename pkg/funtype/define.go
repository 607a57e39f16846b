package funtype

import (
	"fmt"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/dispatch"
	"github.com/funvibe/funtype/internal/signature"
)

// Sig pairs a signature source string with its implementation. Impl is a
// Handler (or any func(...any) (any, error)), a ReferToSelf factory, or a
// ReferTo factory.
type Sig struct {
	Signature string
	Impl      any
}

type selfRef struct {
	factory func(self *Self) Handler
}

// ReferToSelf wraps a factory that receives a handle to the eventual fully
// built function, for recursive and elementwise implementations. The handle
// errors if called before construction completes.
func ReferToSelf(factory func(self *Self) Handler) any {
	return selfRef{factory: factory}
}

type sigRef struct {
	targets []string
	factory func(resolved ...Handler) Handler
}

// ReferTo wraps a factory that receives the implementations declared for the
// named signatures of the same function, in the order given. Targets must be
// declared and already resolvable: a reference to a signature declared later
// that is itself a reference fails construction.
func ReferTo(targets []string, factory func(resolved ...Handler) Handler) any {
	return sigRef{targets: targets, factory: factory}
}

// Metadata flags with meaning to downstream consumers; the dispatch core
// itself never reads them.
const (
	MetaTransformFlag = config.MetaTransformFlag
	MetaClassFlag     = config.MetaClassFlag
)

// Option tweaks a definition.
type Option func(*defineOpts)

type defineOpts struct {
	meta map[string]bool
}

// WithMeta attaches opaque flags to the function, preserved for downstream
// consumers and never interpreted by the dispatch core.
func WithMeta(flags map[string]bool) Option {
	return func(o *defineOpts) {
		o.meta = flags
	}
}

// Define builds a typed function from an ordered signature list and records
// it in the Env under its name. Construction errors are fatal for the
// function: nothing is recorded.
func (e *Env) Define(name string, sigs []Sig, opts ...Option) (*TypedFunction, error) {
	var o defineOpts
	for _, opt := range opts {
		opt(&o)
	}
	f, err := e.buildTyped(name, sigs, o.meta, nil, nil)
	if err != nil {
		return nil, err
	}
	e.funcs[name] = f
	return f, nil
}

// Extend builds a new function from a base plus additional signatures. An
// additional signature declaring the identical parameter pattern overrides
// the base entry in place; anything else joins the table and is revalidated
// against the union. The base function stays usable and unchanged.
func (e *Env) Extend(base *TypedFunction, additional []Sig, opts ...Option) (*TypedFunction, error) {
	if err := e.guardSameInstance("extend", base); err != nil {
		return nil, err
	}
	var o defineOpts
	for _, opt := range opts {
		opt(&o)
	}
	meta := o.meta
	if meta == nil {
		meta = base.meta
	}

	merged := make([]Sig, len(base.defs))
	copy(merged, base.defs)
	norms := make([]string, len(merged))
	for i, def := range merged {
		n, err := e.normalizePattern(def.Signature)
		if err != nil {
			return nil, err
		}
		norms[i] = n
	}
	for _, add := range additional {
		n, err := e.normalizePattern(add.Signature)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i, existing := range norms {
			if existing == n {
				merged[i] = add
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, add)
			norms = append(norms, n)
		}
	}

	f, err := e.buildTyped(base.name, merged, meta, base.deps, base)
	if err != nil {
		return nil, err
	}
	e.funcs[f.name] = f
	return f, nil
}

// Merge unions the signatures of several typed functions under one name,
// left to right, with the same override and conflict rules as Extend.
// Dependencies are united in first-appearance order; metadata flags merge
// with later functions winning per flag.
func (e *Env) Merge(name string, fns ...*TypedFunction) (*TypedFunction, error) {
	if len(fns) == 0 {
		return nil, fmt.Errorf("merge %s: no functions given", name)
	}
	var merged []Sig
	var norms []string
	var deps []string
	seenDep := make(map[string]bool)
	meta := make(map[string]bool)

	for _, fn := range fns {
		if err := e.guardSameInstance("merge", fn); err != nil {
			return nil, err
		}
		for _, def := range fn.defs {
			n, err := e.normalizePattern(def.Signature)
			if err != nil {
				return nil, err
			}
			replaced := false
			for i, existing := range norms {
				if existing == n {
					merged[i] = def
					replaced = true
					break
				}
			}
			if !replaced {
				merged = append(merged, def)
				norms = append(norms, n)
			}
		}
		for _, d := range fn.deps {
			if !seenDep[d] {
				seenDep[d] = true
				deps = append(deps, d)
			}
		}
		for k, v := range fn.meta {
			meta[k] = v
		}
	}

	f, err := e.buildTyped(name, merged, meta, deps, nil)
	if err != nil {
		return nil, err
	}
	e.funcs[name] = f
	return f, nil
}

func (e *Env) normalizePattern(source string) (string, error) {
	sig, err := signature.Parse(source, e.registry)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// buildTyped materializes the implementations, compiles the dispatch table
// and binds the self handle, in that order: a ReferToSelf factory that calls
// through its handle synchronously observes the unbound state.
func (e *Env) buildTyped(name string, defs []Sig, meta map[string]bool, deps []string, base *TypedFunction) (*TypedFunction, error) {
	self := dispatch.NewSelf(name)

	parsed := make([]*signature.Signature, len(defs))
	norms := make([]string, len(defs))
	handlers := make([]Handler, len(defs))
	var deferred []int

	for i, def := range defs {
		sig, err := signature.Parse(def.Signature, e.registry)
		if err != nil {
			return nil, err
		}
		parsed[i] = sig
		norms[i] = sig.String()

		switch impl := def.Impl.(type) {
		case Handler:
			handlers[i] = impl
		case func(args ...any) (any, error):
			handlers[i] = impl
		case selfRef:
			handlers[i] = impl.factory(self)
		case sigRef:
			deferred = append(deferred, i)
		case nil:
			return nil, fmt.Errorf("function %s: signature %q without an implementation", name, norms[i])
		default:
			return nil, fmt.Errorf("function %s: signature %q: unsupported implementation %T", name, norms[i], def.Impl)
		}
	}

	for _, i := range deferred {
		ref := defs[i].Impl.(sigRef)
		resolved := make([]Handler, len(ref.targets))
		for j, target := range ref.targets {
			want, err := e.normalizePattern(target)
			if err != nil {
				return nil, err
			}
			var found Handler
			for k, n := range norms {
				if n == want && handlers[k] != nil {
					found = handlers[k]
					break
				}
			}
			if found == nil {
				return nil, dispatch.NewNoMatchError(name, []string{want}, norms)
			}
			resolved[j] = found
		}
		handlers[i] = ref.factory(resolved...)
		if handlers[i] == nil {
			return nil, fmt.Errorf("function %s: signature %q: reference factory returned no implementation", name, norms[i])
		}
	}

	entries := make([]*dispatch.Entry, len(defs))
	for i := range defs {
		entries[i] = &dispatch.Entry{Sig: parsed[i], Impl: handlers[i]}
	}
	table, err := dispatch.Build(name, entries, e.registry, e.graph, e.buildOptions())
	if err != nil {
		return nil, err
	}
	self.Bind(table)

	defsCopy := make([]Sig, len(defs))
	copy(defsCopy, defs)
	var depsCopy []string
	if len(deps) > 0 {
		depsCopy = append(depsCopy, deps...)
	}

	return &TypedFunction{
		name:  name,
		env:   e,
		table: table,
		defs:  defsCopy,
		deps:  depsCopy,
		meta:  meta,
		self:  self,
		base:  base,
	}, nil
}
