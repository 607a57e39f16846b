package targets

import (
	"errors"
	"fmt"

	"github.com/funvibe/funtype/pkg/funtype"
	"github.com/funvibe/funtype/tests/fuzz/generators"
)

// BuildRandomFunction defines a typed function from randomly generated
// signatures, with tag implementations that identify which signature ran.
// Construction errors (duplicates, ambiguous pairs) are returned as-is: for
// random signature sets they are legitimate outcomes, not failures.
func BuildRandomFunction(env *funtype.Env, g *generators.Generator) (*funtype.TypedFunction, []funtype.Sig, error) {
	n := 1 + g.Intn(4)
	sigs := make([]funtype.Sig, 0, n)
	for i := 0; i < n; i++ {
		tag := fmt.Sprintf("impl-%d", i)
		sigs = append(sigs, funtype.Sig{
			Signature: g.Signature(),
			Impl: func(args ...any) (any, error) {
				return tag, nil
			},
		})
	}
	fn, err := env.Define("fuzz", sigs)
	if err != nil {
		return nil, sigs, err
	}
	return fn, sigs, nil
}

// DefineFromSigs replays a signature list on a fresh Env.
func DefineFromSigs(env *funtype.Env, sigs []funtype.Sig) (*funtype.TypedFunction, error) {
	return env.Define("fuzz", sigs)
}

// IsDispatchError reports whether an error is one of the call-time kinds the
// resolver is allowed to produce for arbitrary arguments.
func IsDispatchError(err error) bool {
	var noMatch *funtype.NoMatchError
	var ambiguous *funtype.AmbiguousCallError
	return errors.As(err, &noMatch) || errors.As(err, &ambiguous)
}
