package funtype_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/funvibe/funtype/pkg/funtype"
)

func TestDeclareBind(t *testing.T) {
	env := funtype.NewDefault()
	_, err := env.Define("sqrt", []funtype.Sig{
		{Signature: "number", Impl: func(args ...any) (any, error) {
			return math.Sqrt(args[0].(float64)), nil
		}},
	})
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}

	decl := env.Declare("hypot", []string{"sqrt"}, func(deps funtype.Deps) []funtype.Sig {
		sqrt := deps["sqrt"].(*funtype.TypedFunction)
		return []funtype.Sig{
			{Signature: "number, number", Impl: func(args ...any) (any, error) {
				a, b := args[0].(float64), args[1].(float64)
				return sqrt.Invoke(a*a + b*b)
			}},
		}
	})

	if decl.Name() != "hypot" {
		t.Errorf("Expected name hypot, got %s", decl.Name())
	}
	if decl.Bound() {
		t.Errorf("Expected a fresh declaration to be unbound")
	}
	if !reflect.DeepEqual(decl.Dependencies(), []string{"sqrt"}) {
		t.Errorf("Expected [sqrt], got %v", decl.Dependencies())
	}

	// The Env itself is a Provider over its defined functions.
	hypot, err := decl.Bind(env)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if !decl.Bound() || decl.Fn() != hypot {
		t.Errorf("Expected the declaration to hold its bound function")
	}

	res, err := decl.Invoke(3.0, 4.0)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res != 5.0 {
		t.Errorf("Expected 5.0, got %v", res)
	}

	// The bound function is recorded and exposes its dependency list.
	if f, ok := env.Fn("hypot"); !ok || f != hypot {
		t.Errorf("Expected Fn(hypot) to return the bound function")
	}
	if !reflect.DeepEqual(hypot.Dependencies(), []string{"sqrt"}) {
		t.Errorf("Expected dependencies [sqrt], got %v", hypot.Dependencies())
	}
}

func TestDeclareMissingDependency(t *testing.T) {
	env := funtype.NewDefault()
	decl := env.Declare("f", []string{"absent"}, func(deps funtype.Deps) []funtype.Sig {
		return nil
	})
	_, err := decl.Bind(env)
	if err == nil {
		t.Fatal("Expected Bind to fail")
	}
	var missing *funtype.MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingDependencyError, got %T: %v", err, err)
	}
	if missing.Function != "f" || missing.Dependency != "absent" {
		t.Errorf("Expected f/absent, got %s/%s", missing.Function, missing.Dependency)
	}
	if decl.Bound() {
		t.Errorf("Expected a failed bind to leave the declaration unbound")
	}
}

func TestDeclareOptionalDependency(t *testing.T) {
	env := funtype.NewDefault()
	env.Provide("precision", 2.0)

	var seen funtype.Deps
	decl := env.Declare("fmtnum", []string{"precision", "?rounding"}, func(deps funtype.Deps) []funtype.Sig {
		seen = deps
		return []funtype.Sig{
			{Signature: "number", Impl: func(args ...any) (any, error) {
				return deps["precision"], nil
			}},
		}
	})

	f, err := decl.Bind(env)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// The optional dependency is present in the map, bound to nil.
	if v, ok := seen["rounding"]; !ok || v != nil {
		t.Errorf("Expected rounding to bind as nil, got %v (%v)", v, ok)
	}
	if seen["precision"] != 2.0 {
		t.Errorf("Expected precision 2.0, got %v", seen["precision"])
	}

	// Dependency names keep their optional markers for the assembler, on the
	// declaration and on the bound function alike.
	if !reflect.DeepEqual(decl.Dependencies(), []string{"precision", "?rounding"}) {
		t.Errorf("Expected declared names, got %v", decl.Dependencies())
	}
	if !reflect.DeepEqual(f.Dependencies(), []string{"precision", "?rounding"}) {
		t.Errorf("Expected bound dependencies, got %v", f.Dependencies())
	}

	res, err := f.Invoke(1.0)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res != 2.0 {
		t.Errorf("Expected 2.0, got %v", res)
	}
}

func TestDeclareInvokeBeforeBind(t *testing.T) {
	env := funtype.NewDefault()
	decl := env.Declare("late", nil, func(deps funtype.Deps) []funtype.Sig {
		return []funtype.Sig{{Signature: "any", Impl: func(args ...any) (any, error) { return nil, nil }}}
	})

	_, err := decl.Invoke(1)
	if err == nil {
		t.Fatal("Expected Invoke before Bind to fail")
	}
	var unbound *funtype.UnboundFunctionError
	if !errors.As(err, &unbound) {
		t.Fatalf("Expected UnboundFunctionError, got %T: %v", err, err)
	}
	if unbound.Name != "late" {
		t.Errorf("Expected name late, got %s", unbound.Name)
	}
}

func TestMergePreservesDependencies(t *testing.T) {
	env := funtype.NewDefault()
	env.Provide("config", "cfg")
	env.Provide("logger", "log")

	first, err := env.Declare("first", []string{"config"}, func(deps funtype.Deps) []funtype.Sig {
		return []funtype.Sig{{Signature: "number", Impl: func(args ...any) (any, error) { return "first", nil }}}
	}).Bind(env)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	second, err := env.Declare("second", []string{"logger", "config"}, func(deps funtype.Deps) []funtype.Sig {
		return []funtype.Sig{{Signature: "string", Impl: func(args ...any) (any, error) { return "second", nil }}}
	}).Bind(env)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	merged, err := env.Merge("both", first, second)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	// Dependencies unite in first-appearance order.
	if !reflect.DeepEqual(merged.Dependencies(), []string{"config", "logger"}) {
		t.Errorf("Expected [config logger], got %v", merged.Dependencies())
	}
}
