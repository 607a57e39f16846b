package config

// Signature syntax markers
const (
	ParamSeparator = ","
	UnionSeparator = "|"
	RestMarker     = "..."
	OptionalMarker = "?"
)

// OptionalDepMarker is the leading marker on dependency names
// ("?format" means format is injected when present, nil otherwise).
const OptionalDepMarker = "?"

// AnyTypeName is the catch-all type every frozen registry must contain.
const AnyTypeName = "any"

// AnyTypeRank places the catch-all far above every concrete type so it
// never outranks a real classification.
const AnyTypeRank = 1000

// DefaultMaxHops bounds composed conversion chains planted at build time.
// 1 means direct edges only.
const DefaultMaxHops = 1

// Canonical type names of the default catalog
const (
	BooleanTypeName   = "boolean"
	IntTypeName       = "int"
	NumberTypeName    = "number"
	BigNumberTypeName = "BigNumber"
	FractionTypeName  = "Fraction"
	ComplexTypeName   = "Complex"
	StringTypeName    = "string"
	DateTypeName      = "Date"
	MatrixTypeName    = "Matrix"
	ArrayTypeName     = "Array"
	ObjectTypeName    = "Object"
	FunctionTypeName  = "Function"
	NullTypeName      = "null"
)

// Metadata flag names preserved verbatim on typed functions for
// downstream consumers (an expression compiler reads these).
const (
	MetaTransformFlag = "isTransformFunction"
	MetaClassFlag     = "isClass"
)
