package signature

import (
	"strings"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Parse turns a signature source string into a Signature validated against
// the registry. Parameters are separated by commas, union members by pipes,
// a rest parameter is prefixed with "..." and an optional parameter carries a
// trailing "?". The empty string is the niladic signature. Whitespace around
// tokens is ignored; type names match the registry case-sensitively.
func Parse(source string, registry *typesystem.Registry) (*Signature, error) {
	sig := &Signature{Source: source}
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return sig, nil
	}

	parts := strings.Split(trimmed, config.ParamSeparator)
	sig.Params = make([]Param, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return nil, NewSyntaxError(source, "empty parameter")
		}

		var p Param
		if strings.HasPrefix(token, config.RestMarker) {
			p.Variadic = true
			token = strings.TrimSpace(strings.TrimPrefix(token, config.RestMarker))
			if token == "" {
				return nil, NewSyntaxError(source, "rest marker without a type")
			}
		}
		if strings.HasSuffix(token, config.OptionalMarker) {
			p.Optional = true
			token = strings.TrimSpace(strings.TrimSuffix(token, config.OptionalMarker))
			if token == "" {
				return nil, NewSyntaxError(source, "optional marker without a type")
			}
		}

		for _, member := range strings.Split(token, config.UnionSeparator) {
			name := strings.TrimSpace(member)
			if name == "" {
				return nil, NewSyntaxError(source, "empty union member")
			}
			p.Types = append(p.Types, name)
		}
		sig.Params = append(sig.Params, p)
	}

	if err := validate(sig, registry); err != nil {
		return nil, err
	}
	return sig, nil
}

// MustParse is like Parse but panics on error.
func MustParse(source string, registry *typesystem.Registry) *Signature {
	sig, err := Parse(source, registry)
	if err != nil {
		panic(err)
	}
	return sig
}
