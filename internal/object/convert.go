package object

import (
	"fmt"
	"math"
	"math/big"

	"fortio.org/safecast"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Default conversion edges, all climbing the tower. Costs are unique per
// source type so the default graph never produces a cost tie on its own.
// Narrowing conversions are deliberately absent; a consumer that wants them
// registers its own edges.
var conversions = []struct {
	from    string
	to      string
	convert typesystem.ConvertFunc
	cost    int
}{
	{config.BooleanTypeName, config.IntTypeName, booleanToInt, 1},
	{config.BooleanTypeName, config.NumberTypeName, booleanToNumber, 2},
	{config.BooleanTypeName, config.BigNumberTypeName, booleanToBigNumber, 3},

	{config.IntTypeName, config.NumberTypeName, intToNumber, 1},
	{config.IntTypeName, config.BigNumberTypeName, intToBigNumber, 2},
	{config.IntTypeName, config.FractionTypeName, intToFraction, 3},
	{config.IntTypeName, config.ComplexTypeName, intToComplex, 4},

	{config.NumberTypeName, config.BigNumberTypeName, numberToBigNumber, 1},
	{config.NumberTypeName, config.ComplexTypeName, numberToComplex, 2},
	{config.NumberTypeName, config.FractionTypeName, numberToFraction, 3},

	{config.FractionTypeName, config.BigNumberTypeName, fractionToBigNumber, 1},
	{config.FractionTypeName, config.ComplexTypeName, fractionToComplex, 2},

	{config.BigNumberTypeName, config.ComplexTypeName, bigNumberToComplex, 1},

	{config.MatrixTypeName, config.ArrayTypeName, matrixToArray, 1},
}

func booleanToInt(v any) (any, error) {
	if v.(bool) {
		return 1, nil
	}
	return 0, nil
}

func booleanToNumber(v any) (any, error) {
	if v.(bool) {
		return 1.0, nil
	}
	return 0.0, nil
}

func booleanToBigNumber(v any) (any, error) {
	if v.(bool) {
		return big.NewFloat(1), nil
	}
	return big.NewFloat(0), nil
}

// asInt64 widens any accepted integer kind.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, fmt.Errorf("not an int: %v", v)
}

func intToNumber(v any) (any, error) {
	n, err := asInt64(v)
	if err != nil {
		return nil, err
	}
	// Exactness-checked: an int64 beyond the float64 mantissa is an error,
	// not a silent rounding.
	f, err := safecast.Convert[float64](n)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func intToBigNumber(v any) (any, error) {
	n, err := asInt64(v)
	if err != nil {
		return nil, err
	}
	return new(big.Float).SetInt64(n), nil
}

func intToFraction(v any) (any, error) {
	n, err := asInt64(v)
	if err != nil {
		return nil, err
	}
	return big.NewRat(n, 1), nil
}

func intToComplex(v any) (any, error) {
	f, err := intToNumber(v)
	if err != nil {
		return nil, err
	}
	return complex(f.(float64), 0), nil
}

func numberToBigNumber(v any) (any, error) {
	return big.NewFloat(v.(float64)), nil
}

func numberToComplex(v any) (any, error) {
	return complex(v.(float64), 0), nil
}

func numberToFraction(v any) (any, error) {
	f := v.(float64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("cannot convert %v to %s", f, config.FractionTypeName)
	}
	return new(big.Rat).SetFloat64(f), nil
}

func fractionToBigNumber(v any) (any, error) {
	return new(big.Float).SetRat(v.(*big.Rat)), nil
}

func fractionToComplex(v any) (any, error) {
	f, _ := v.(*big.Rat).Float64()
	return complex(f, 0), nil
}

func bigNumberToComplex(v any) (any, error) {
	f, _ := v.(*big.Float).Float64()
	return complex(f, 0), nil
}

func matrixToArray(v any) (any, error) {
	return v.(Matrix).ToArray(), nil
}
