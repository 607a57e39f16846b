package generators

import (
	"math/big"
	"math/rand"
	"strings"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness, so the fuzzer's
// input bytes steer generation deterministically.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0.0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 255.0
}

// DefaultTypeNames is the catalog the generator draws parameter types from.
// It mirrors the default registry of the library.
var DefaultTypeNames = []string{
	"boolean", "int", "number", "BigNumber", "Fraction", "Complex",
	"string", "Array", "Object", "any",
}

// Generator generates random signature strings and argument values.
type Generator struct {
	src RandomSource
}

const (
	MaxParams       = 4
	MaxUnionMembers = 3
	MaxArrayLen     = 4
)

func New(seed int64) *Generator {
	return &Generator{src: &RandSource{rand.New(rand.NewSource(seed))}}
}

func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}}
}

// Intn exposes the random source's Intn method.
func (g *Generator) Intn(n int) int {
	return g.src.Intn(n)
}

// TypeName picks a random registered type name.
func (g *Generator) TypeName() string {
	return DefaultTypeNames[g.src.Intn(len(DefaultTypeNames))]
}

// Union builds a random union of distinct type names.
func (g *Generator) Union() string {
	n := 1 + g.src.Intn(MaxUnionMembers)
	seen := make(map[string]bool)
	var members []string
	for len(members) < n {
		name := g.TypeName()
		if seen[name] {
			break
		}
		seen[name] = true
		members = append(members, name)
	}
	return strings.Join(members, "|")
}

// Signature builds a random well-formed signature string: up to MaxParams
// union parameters, optionally a tail of optional parameters or a final rest
// parameter, with random whitespace around separators.
func (g *Generator) Signature() string {
	n := g.src.Intn(MaxParams + 1)
	if n == 0 {
		return ""
	}
	params := make([]string, n)
	for i := range params {
		params[i] = g.Union()
	}

	switch g.src.Intn(4) {
	case 0:
		// Rest tail.
		params[n-1] = "..." + params[n-1]
	case 1:
		// Optional tail of random length.
		from := g.src.Intn(n)
		for i := from; i < n; i++ {
			params[i] += "?"
		}
	}

	sep := ","
	if g.src.Intn(2) == 0 {
		sep = ", "
	}
	out := strings.Join(params, sep)
	if g.src.Intn(3) == 0 {
		out = " " + out + " "
	}
	return out
}

// Value produces a random runtime value classifiable by the default
// registry. Depth bounds nested arrays.
func (g *Generator) Value(depth int) any {
	choices := 8
	if depth > 0 {
		choices = 9
	}
	switch g.src.Intn(choices) {
	case 0:
		return g.src.Intn(2) == 0
	case 1:
		return g.src.Intn(1000) - 500
	case 2:
		return (g.src.Float64() - 0.5) * 1000
	case 3:
		return big.NewFloat(g.src.Float64() * 100)
	case 4:
		return big.NewRat(int64(g.src.Intn(100)), int64(1+g.src.Intn(100)))
	case 5:
		return complex(g.src.Float64(), g.src.Float64())
	case 6:
		return g.word()
	case 7:
		return map[string]any{g.word(): g.Value(0)}
	default:
		n := g.src.Intn(MaxArrayLen + 1)
		arr := make([]any, n)
		for i := range arr {
			arr[i] = g.Value(depth - 1)
		}
		return arr
	}
}

// Args produces a random argument list.
func (g *Generator) Args(max int) []any {
	n := g.src.Intn(max + 1)
	args := make([]any, n)
	for i := range args {
		args[i] = g.Value(2)
	}
	return args
}

var words = []string{"alpha", "beta", "x", "sum", "value", ""}

func (g *Generator) word() string {
	return words[g.src.Intn(len(words))]
}
