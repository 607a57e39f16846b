package targets

import (
	"testing"

	"github.com/funvibe/funtype/pkg/funtype"
	"github.com/funvibe/funtype/tests/fuzz/generators"
)

// FuzzDispatch builds a random dispatch table and calls it with random
// arguments. The invariants: resolution never panics, failures are always
// the declared call-time error kinds, repeated resolution is deterministic,
// and disabling the resolution cache never changes the outcome.
func FuzzDispatch(f *testing.F) {
	f.Add([]byte{1})
	f.Add([]byte{3, 1, 4, 1, 5, 9, 2, 6})
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{255, 127, 63, 31, 15, 7, 3, 1, 200, 100, 50, 25})

	f.Fuzz(func(t *testing.T, data []byte) {
		g := generators.NewFromData(data)
		env := funtype.NewDefault()
		fn, sigs, err := BuildRandomFunction(env, g)
		if err != nil {
			// Random signature sets may legitimately collide or overlap.
			return
		}
		args := g.Args(5)

		res, err := fn.Resolve(args)
		if err != nil {
			if !IsDispatchError(err) {
				t.Fatalf("Resolve returned an unexpected error kind %T: %v", err, err)
			}
			// Invoke must fail the same way.
			if _, invokeErr := fn.Invoke(args...); invokeErr == nil {
				t.Fatalf("Resolve failed but Invoke succeeded for %v", args)
			}
			return
		}

		// Same argument types resolve to the same signature every time.
		again, err := fn.Resolve(args)
		if err != nil {
			t.Fatalf("second Resolve failed after the first succeeded: %v", err)
		}
		if res.Sig != again.Sig {
			t.Fatalf("resolution is not deterministic: %s vs %s", res.Sig, again.Sig)
		}

		first, err1 := fn.Invoke(args...)
		second, err2 := fn.Invoke(args...)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("invocation outcome flipped: %v vs %v", err1, err2)
		}
		if err1 == nil && first != second {
			t.Fatalf("invocation picked different implementations: %v vs %v", first, second)
		}

		// The memo is a pure fast path: the uncached outcome is identical.
		bare := funtype.NewDefault()
		bare.SetResolutionCache(false)
		uncachedFn, err := DefineFromSigs(bare, sigs)
		if err != nil {
			t.Fatalf("replaying the same signatures failed: %v", err)
		}
		uncached, err3 := uncachedFn.Invoke(args...)
		if (err1 == nil) != (err3 == nil) {
			t.Fatalf("cache changed the outcome: %v vs %v", err1, err3)
		}
		if err1 == nil && first != uncached {
			t.Fatalf("cache changed the selected implementation: %v vs %v", first, uncached)
		}
	})
}
