// Package funtype is the public surface of the typed multiple-dispatch core.
// An Env is one independent library instance: it owns a type registry, a
// conversion graph and a table of named typed functions. Consumers register
// types and conversions during an initialization phase, define functions
// against signature strings, and call them; each call dispatches on the
// runtime types of its arguments.
package funtype

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/dispatch"
	"github.com/funvibe/funtype/internal/object"
	"github.com/funvibe/funtype/internal/typesystem"
)

// TypeTest reports whether a value belongs to a registered type.
type TypeTest = typesystem.TypeTest

// ConvertFunc transforms a value of one registered type into another.
type ConvertFunc = typesystem.ConvertFunc

// Matrix is the capability a consumer matrix value implements to classify
// as the default Matrix type.
type Matrix = object.Matrix

// Valuer lets consumer values carry their own type tag; see ValuerTest.
type Valuer = object.Valuer

// ValuerTest builds a type test matching values tagged with the given name.
func ValuerTest(name string) TypeTest {
	return object.ValuerTest(name)
}

// Env is one library instance. Registration methods belong to a single
// initialization phase and are not safe for concurrent use; everything
// reached through a defined TypedFunction is immutable and safe to share.
type Env struct {
	id       string
	registry *typesystem.Registry
	graph    *typesystem.Graph
	funcs    map[string]*TypedFunction
	caps     map[string]any
	maxHops  int
	noCache  bool
}

// New returns an Env with an empty registry. The caller must register a
// catch-all type before defining functions; most callers want NewDefault.
func New() *Env {
	r := typesystem.NewRegistry()
	return &Env{
		id:       uuid.NewString(),
		registry: r,
		graph:    typesystem.NewGraph(r),
		funcs:    make(map[string]*TypedFunction),
		caps:     make(map[string]any),
		maxHops:  config.DefaultMaxHops,
	}
}

// NewDefault returns an Env with the default type catalog installed: the
// numeric tower, string, Date, Matrix, Array, Object, Function, null and the
// catch-all, plus the safe conversions between them.
func NewDefault() *Env {
	env := New()
	// The catalog cannot conflict with an empty registry.
	if err := object.Install(env.registry, env.graph); err != nil {
		panic(err)
	}
	return env
}

// ID returns the instance identifier. Functions remember the Env they were
// built by; composing functions across instances is rejected.
func (e *Env) ID() string {
	return e.id
}

// RegisterType adds a named type with its test predicate. Lower ranks
// classify first.
func (e *Env) RegisterType(name string, test TypeTest, rank int) error {
	return e.registry.Register(name, test, rank)
}

// RegisterTypeBefore splices a type immediately before an existing one, the
// way a more specific refinement shadows the type it refines.
func (e *Env) RegisterTypeBefore(name string, test TypeTest, beforeName string) error {
	return e.registry.RegisterBefore(name, test, beforeName)
}

// AddConversion registers an automatic conversion edge.
func (e *Env) AddConversion(from, to string, fn ConvertFunc, cost int) error {
	return e.graph.Add(from, to, fn, cost)
}

// SetMaxHops raises the conversion path bound used when building dispatch
// tables. The default considers direct edges only.
func (e *Env) SetMaxHops(n int) {
	if n < 1 {
		n = config.DefaultMaxHops
	}
	e.maxHops = n
}

// SetResolutionCache toggles the per-table resolution memo for functions
// defined afterwards. The memo never changes resolution outcomes.
func (e *Env) SetResolutionCache(enabled bool) {
	e.noCache = !enabled
}

// Types returns the registered type names in classification order.
func (e *Env) Types() []string {
	return e.registry.Names()
}

// Fn returns a previously defined typed function.
func (e *Env) Fn(name string) (*TypedFunction, bool) {
	f, ok := e.funcs[name]
	return f, ok
}

// Provide registers a named capability for dependency binding. Defined
// typed functions are provided under their own names automatically.
func (e *Env) Provide(name string, value any) {
	e.caps[name] = value
}

// Capability implements Provider over the Env's functions and provided
// values.
func (e *Env) Capability(name string) (any, bool) {
	if f, ok := e.funcs[name]; ok {
		return f, true
	}
	v, ok := e.caps[name]
	return v, ok
}

// Convert converts a value to the named type: identity when the value
// already classifies as it, otherwise the cheapest registered conversion
// path within the instance's hop bound.
func (e *Env) Convert(value any, typeName string) (any, error) {
	if _, ok := e.registry.Lookup(typeName); !ok {
		return nil, typesystem.NewUnknownTypeError(typeName)
	}
	classes := e.registry.Classify(value)
	for _, d := range classes {
		if d.Name == typeName {
			return value, nil
		}
	}
	for _, d := range classes {
		if edge, ok := e.graph.Path(d.Name, typeName, e.maxHops); ok {
			return edge.Convert(value)
		}
	}
	actual := "?"
	if len(classes) > 0 {
		actual = classes[0].Name
	}
	return nil, dispatch.NewNoMatchError("convert", []string{actual}, []string{typeName})
}

// buildOptions snapshots the Env's dispatch settings.
func (e *Env) buildOptions() dispatch.Options {
	return dispatch.Options{MaxHops: e.maxHops, DisableCache: e.noCache}
}

func (e *Env) guardSameInstance(op string, f *TypedFunction) error {
	if f == nil {
		return fmt.Errorf("%s: nil typed function", op)
	}
	if f.env != e {
		return fmt.Errorf("%s: function %s belongs to a different instance", op, f.name)
	}
	return nil
}
