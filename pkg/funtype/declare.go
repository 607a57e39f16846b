package funtype

import (
	"strings"

	"github.com/funvibe/funtype/internal/config"
)

// Provider supplies named capabilities during dependency binding. An Env is
// a Provider over its defined functions and Provide'd values.
type Provider interface {
	Capability(name string) (any, bool)
}

// Deps carries resolved dependencies into a declaration's build function,
// keyed by dependency name with any optional marker stripped. Optional
// dependencies that were absent are present in the map with a nil value.
type Deps map[string]any

// OptionalMarker prefixes a dependency name to make its absence non-fatal.
const OptionalMarker = config.OptionalDepMarker

// Declaration is a typed function whose construction is deferred until its
// dependencies are bound. Invoking it before Bind fails with
// UnboundFunctionError.
type Declaration struct {
	env   *Env
	name  string
	deps  []string
	build func(deps Deps) []Sig
	opts  []Option
	fn    *TypedFunction
}

// Declare records a deferred definition: build runs at Bind time with the
// resolved dependencies and returns the signature list to compile.
func (e *Env) Declare(name string, deps []string, build func(deps Deps) []Sig, opts ...Option) *Declaration {
	d := &Declaration{
		env:   e,
		name:  name,
		deps:  append([]string(nil), deps...),
		build: build,
		opts:  opts,
	}
	return d
}

// Name returns the declared function name.
func (d *Declaration) Name() string { return d.name }

// Dependencies returns the declared dependency names, optional markers
// included.
func (d *Declaration) Dependencies() []string {
	return append([]string(nil), d.deps...)
}

// Bound reports whether Bind has completed.
func (d *Declaration) Bound() bool { return d.fn != nil }

// Fn returns the bound typed function, or nil before Bind.
func (d *Declaration) Fn() *TypedFunction { return d.fn }

// Bind resolves the declared dependencies against the provider, builds the
// signature list and compiles the function into the Env. A missing required
// dependency fails with MissingDependencyError; a missing optional one binds
// as nil.
func (d *Declaration) Bind(p Provider) (*TypedFunction, error) {
	resolved := make(Deps, len(d.deps))
	for _, dep := range d.deps {
		name, optional := strings.CutPrefix(dep, OptionalMarker)
		v, ok := p.Capability(name)
		if !ok {
			if !optional {
				return nil, NewMissingDependencyError(d.name, name)
			}
			resolved[name] = nil
			continue
		}
		resolved[name] = v
	}

	sigs := d.build(resolved)
	var o defineOpts
	for _, opt := range d.opts {
		opt(&o)
	}
	f, err := d.env.buildTyped(d.name, sigs, o.meta, d.deps, nil)
	if err != nil {
		return nil, err
	}
	d.env.funcs[f.name] = f
	d.fn = f
	return f, nil
}

// Invoke calls the bound function, or fails with UnboundFunctionError when
// Bind has not completed.
func (d *Declaration) Invoke(args ...any) (any, error) {
	if d.fn == nil {
		return nil, NewUnboundFunctionError(d.name)
	}
	return d.fn.Invoke(args...)
}
