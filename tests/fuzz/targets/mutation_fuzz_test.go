package targets

import (
	"errors"
	"testing"

	"github.com/funvibe/funtype/internal/signature"
	"github.com/funvibe/funtype/tests/fuzz/generators"
	"github.com/funvibe/funtype/tests/fuzz/mutator"
)

// FuzzSignatureMutations starts from a generated valid signature and applies
// random mutations, steering the parser into its error paths. Mutants must
// either parse cleanly or fail with a SyntaxError; nothing may panic.
func FuzzSignatureMutations(f *testing.F) {
	f.Add([]byte{1, 2, 3}, int64(1))
	f.Add([]byte{9, 8, 7, 6, 5}, int64(42))
	f.Add([]byte{0}, int64(0))

	registry := newSignatureRegistry()

	f.Fuzz(func(t *testing.T, data []byte, seed int64) {
		g := generators.NewFromData(data)
		m := mutator.NewSignatureMutator(seed)

		src := g.Signature()
		for round := 0; round < 4; round++ {
			src = m.Mutate(src)
			sig, err := signature.Parse(src, registry)
			if err != nil {
				var syn *signature.SyntaxError
				if !errors.As(err, &syn) {
					t.Fatalf("mutant %q produced a non-syntax error %T: %v", src, err, err)
				}
				continue
			}
			// A mutant that still parses must round-trip like any other
			// valid signature.
			if again, err := signature.Parse(sig.String(), registry); err != nil {
				t.Fatalf("normalized mutant %q does not reparse: %v", sig.String(), err)
			} else if again.String() != sig.String() {
				t.Errorf("mutant normalization unstable: %q -> %q", sig.String(), again.String())
			}
		}
	})
}
