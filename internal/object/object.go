// Package object ships the default type catalog: the numeric tower, the
// container and callable types, and the safe conversions between them. It
// registers type tests and conversion edges only; arithmetic on the values
// belongs to the consumers dispatching over them.
package object

import (
	"math/big"
	"reflect"
	"time"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Matrix is the capability a consumer's matrix value implements to be
// classified as one. Conformance is checked once per classification, never
// probed method by method.
type Matrix interface {
	Size() []int
	ToArray() []any
}

// Valuer lets a consumer value carry its own type tag. ValuerTest builds a
// registry predicate from it.
type Valuer interface {
	TypeName() string
}

// ValuerTest returns a type test matching values that tag themselves with
// the given name.
func ValuerTest(name string) typesystem.TypeTest {
	return func(v any) bool {
		tagged, ok := v.(Valuer)
		return ok && tagged.TypeName() == name
	}
}

// invoker matches typed functions without importing the package defining
// them.
type invoker interface {
	Invoke(args ...any) (any, error)
}

func isBoolean(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int32, int64:
		return true
	}
	return false
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func isBigNumber(v any) bool {
	_, ok := v.(*big.Float)
	return ok
}

func isFraction(v any) bool {
	_, ok := v.(*big.Rat)
	return ok
}

func isComplex(v any) bool {
	_, ok := v.(complex128)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isDate(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func isMatrix(v any) bool {
	_, ok := v.(Matrix)
	return ok
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isFunction(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(invoker); ok {
		return true
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

func isNull(v any) bool {
	return v == nil
}

func isAny(v any) bool {
	return true
}

// descriptor rows, in ascending rank. Rank spacing leaves room for consumers
// to splice their own types between the defaults.
var descriptors = []struct {
	name string
	test typesystem.TypeTest
	rank int
}{
	{config.BooleanTypeName, isBoolean, 10},
	{config.IntTypeName, isInt, 20},
	{config.NumberTypeName, isNumber, 30},
	{config.BigNumberTypeName, isBigNumber, 40},
	{config.FractionTypeName, isFraction, 50},
	{config.ComplexTypeName, isComplex, 60},
	{config.StringTypeName, isString, 70},
	{config.DateTypeName, isDate, 80},
	{config.MatrixTypeName, isMatrix, 90},
	{config.ArrayTypeName, isArray, 100},
	{config.ObjectTypeName, isObject, 110},
	{config.FunctionTypeName, isFunction, 120},
	{config.NullTypeName, isNull, 130},
	{config.AnyTypeName, isAny, config.AnyTypeRank},
}

// Install registers the default descriptors and conversions. The registry
// must be empty of conflicting names; a partial catalog is reported through
// the usual registration errors.
func Install(registry *typesystem.Registry, graph *typesystem.Graph) error {
	for _, d := range descriptors {
		if err := registry.Register(d.name, d.test, d.rank); err != nil {
			return err
		}
	}
	for _, c := range conversions {
		if err := graph.Add(c.from, c.to, c.convert, c.cost); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the default type names in rank order.
func Names() []string {
	out := make([]string, len(descriptors))
	for i, d := range descriptors {
		out[i] = d.name
	}
	return out
}
