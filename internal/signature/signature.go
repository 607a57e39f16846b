// Package signature holds the parsed form of dispatch signatures: an ordered
// list of per-parameter accepted-type constraints, with union, optional and
// rest markers resolved against a type registry.
package signature

import (
	"strings"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Param is one parameter constraint. Types lists the accepted type names in
// declaration order; declaration order breaks ties when several union members
// could satisfy the same argument.
type Param struct {
	Types    []string
	Variadic bool
	Optional bool
}

// Accepts reports whether the parameter accepts the named type directly.
// A parameter listing the catch-all accepts everything.
func (p Param) Accepts(name string) bool {
	for _, t := range p.Types {
		if t == name || t == config.AnyTypeName {
			return true
		}
	}
	return false
}

// IsAny reports whether the parameter is an unconstrained placeholder.
func (p Param) IsAny() bool {
	for _, t := range p.Types {
		if t == config.AnyTypeName {
			return true
		}
	}
	return false
}

func (p Param) String() string {
	var b strings.Builder
	if p.Variadic {
		b.WriteString(config.RestMarker)
	}
	b.WriteString(strings.Join(p.Types, config.UnionSeparator))
	if p.Optional {
		b.WriteString(config.OptionalMarker)
	}
	return b.String()
}

// Signature is an ordered parameter list plus the source it was parsed from.
// Immutable once built.
type Signature struct {
	Params []Param
	Source string
}

// MinArity returns the fewest arguments the signature accepts. A rest
// parameter requires at least one argument; optional parameters require none.
func (s *Signature) MinArity() int {
	n := 0
	for _, p := range s.Params {
		if p.Optional {
			continue
		}
		n++
	}
	return n
}

// MaxArity returns the most arguments the signature accepts, or -1 when a
// rest parameter makes it unbounded.
func (s *Signature) MaxArity() int {
	for _, p := range s.Params {
		if p.Variadic {
			return -1
		}
	}
	return len(s.Params)
}

// AcceptsArity reports whether a call with k arguments is within the
// signature's arity window.
func (s *Signature) AcceptsArity(k int) bool {
	if k < s.MinArity() {
		return false
	}
	max := s.MaxArity()
	return max == -1 || k <= max
}

// String returns the normalized source: one space after each comma, no other
// whitespace. Two signatures with equal normalized strings declare the
// identical parameter pattern.
func (s *Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	return strings.Join(parts, config.ParamSeparator+" ")
}

// ParamAt returns the parameter constraining position i, following the rest
// parameter past the end of the list. The second result is false when i is
// beyond a fixed-arity signature.
func (s *Signature) ParamAt(i int) (Param, bool) {
	if i < len(s.Params) {
		return s.Params[i], true
	}
	if n := len(s.Params); n > 0 && s.Params[n-1].Variadic {
		return s.Params[n-1], true
	}
	return Param{}, false
}

// FromParams validates a structured parameter list against the registry and
// wraps it as a Signature. It enforces the same rules as Parse: known type
// names, rest only in final position, optional parameters forming a tail and
// never combined with a rest parameter.
func FromParams(params []Param, registry *typesystem.Registry) (*Signature, error) {
	sig := &Signature{Params: params}
	sig.Source = sig.String()
	if err := validate(sig, registry); err != nil {
		return nil, err
	}
	return sig, nil
}

func validate(s *Signature, registry *typesystem.Registry) error {
	seenOptional := false
	for i, p := range s.Params {
		if len(p.Types) == 0 {
			return NewSyntaxError(s.Source, "empty parameter")
		}
		if p.Variadic && p.Optional {
			return NewSyntaxError(s.Source, "a rest parameter cannot be optional")
		}
		if p.Variadic && i != len(s.Params)-1 {
			return NewSyntaxError(s.Source, "rest parameter must be the last parameter")
		}
		if p.Variadic && seenOptional {
			return NewSyntaxError(s.Source, "a rest parameter cannot follow an optional parameter")
		}
		if seenOptional && !p.Optional {
			return NewSyntaxError(s.Source, "optional parameters must form the tail of the signature")
		}
		if p.Optional {
			seenOptional = true
		}
		seen := make(map[string]bool, len(p.Types))
		for _, name := range p.Types {
			if name == "" {
				return NewSyntaxError(s.Source, "empty union member")
			}
			if seen[name] {
				return NewSyntaxError(s.Source, "duplicate union member "+name)
			}
			seen[name] = true
			if _, ok := registry.Lookup(name); !ok {
				return NewSyntaxError(s.Source, "unknown type "+name)
			}
		}
	}
	return nil
}
