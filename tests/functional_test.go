package tests

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/funtype/pkg/funtype"
)

// fixture describes one end-to-end dispatch scenario: optional extra types,
// a set of typed functions, and the calls to run against them.
type fixture struct {
	Name      string        `yaml:"name"`
	Types     []fixtureType `yaml:"types"`
	Functions []fixtureFunc `yaml:"functions"`
	Calls     []fixtureCall `yaml:"calls"`
}

type fixtureType struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Rank int    `yaml:"rank"`
}

type fixtureFunc struct {
	Name       string       `yaml:"name"`
	Signatures []fixtureSig `yaml:"signatures"`
}

// fixtureSig maps a signature to a canned implementation: either a constant
// result or an echo of one (converted) argument.
type fixtureSig struct {
	Signature string `yaml:"signature"`
	Result    any    `yaml:"result"`
	Echo      *int   `yaml:"echo"`
}

type fixtureCall struct {
	Function string `yaml:"function"`
	Args     []any  `yaml:"args"`
	Want     any    `yaml:"want"`
	Error    string `yaml:"error"`
}

// typeKinds are the test predicates fixtures may register, since a predicate
// cannot be expressed in YAML itself.
var typeKinds = map[string]funtype.TypeTest{
	"even-int": func(v any) bool {
		n, ok := v.(int)
		return ok && n%2 == 0
	},
	"small-int": func(v any) bool {
		n, ok := v.(int)
		return ok && n > -10 && n < 10
	},
	"positive-number": func(v any) bool {
		f, ok := v.(float64)
		return ok && f > 0
	},
	"negative-number": func(v any) bool {
		f, ok := v.(float64)
		return ok && f < 0
	},
}

// TestFunctional runs every testdata fixture through the public API and
// compares call outcomes with the declared expectations.
func TestFunctional(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("Failed to list fixtures: %v", err)
	}
	if len(files) == 0 {
		t.Skip("No fixtures found")
	}

	for _, file := range files {
		file := file
		testName := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(testName, func(t *testing.T) {
			raw, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("Failed to read fixture: %v", err)
			}
			var fx fixture
			if err := yaml.Unmarshal(raw, &fx); err != nil {
				t.Fatalf("Failed to parse fixture: %v", err)
			}
			runFixture(t, &fx)
		})
	}
}

func runFixture(t *testing.T, fx *fixture) {
	env := funtype.NewDefault()

	for _, ft := range fx.Types {
		test, ok := typeKinds[ft.Kind]
		if !ok {
			t.Fatalf("Fixture type %s uses unknown kind %q", ft.Name, ft.Kind)
		}
		if err := env.RegisterType(ft.Name, test, ft.Rank); err != nil {
			t.Fatalf("RegisterType(%s) failed: %v", ft.Name, err)
		}
	}

	for _, ff := range fx.Functions {
		sigs := make([]funtype.Sig, len(ff.Signatures))
		for i, fs := range ff.Signatures {
			sigs[i] = funtype.Sig{Signature: fs.Signature, Impl: fixtureImpl(fs)}
		}
		if _, err := env.Define(ff.Name, sigs); err != nil {
			t.Fatalf("Define(%s) failed: %v", ff.Name, err)
		}
	}

	for i, call := range fx.Calls {
		call := call
		t.Run(fmt.Sprintf("call-%d", i), func(t *testing.T) {
			fn, ok := env.Fn(call.Function)
			if !ok {
				t.Fatalf("Unknown function %s", call.Function)
			}
			got, err := fn.Invoke(call.Args...)

			if call.Error != "" {
				if err == nil {
					t.Fatalf("Expected %s error, got result %v", call.Error, got)
				}
				if !errorKindMatches(err, call.Error) {
					t.Fatalf("Expected %s error, got %T: %v", call.Error, err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Invoke(%v) failed: %v", call.Args, err)
			}
			if !reflect.DeepEqual(got, call.Want) {
				t.Errorf("Invoke(%v) = %v (%T), want %v (%T)", call.Args, got, got, call.Want, call.Want)
			}
		})
	}
}

func fixtureImpl(fs fixtureSig) funtype.Handler {
	if fs.Echo != nil {
		at := *fs.Echo
		return func(args ...any) (any, error) {
			if at >= len(args) {
				return nil, fmt.Errorf("echo position %d out of range for %d args", at, len(args))
			}
			return args[at], nil
		}
	}
	result := fs.Result
	return func(args ...any) (any, error) {
		return result, nil
	}
}

func errorKindMatches(err error, kind string) bool {
	switch kind {
	case "no-match":
		var e *funtype.NoMatchError
		return errors.As(err, &e)
	case "ambiguous-call":
		var e *funtype.AmbiguousCallError
		return errors.As(err, &e)
	default:
		return false
	}
}
