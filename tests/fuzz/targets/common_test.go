package targets

import (
	"testing"

	"github.com/funvibe/funtype/pkg/funtype"
	"github.com/funvibe/funtype/tests/fuzz/generators"
)

// TestRandomTablesSmoke runs the dispatch fuzz invariants over a fixed seed
// sweep, so the properties are exercised on every plain test run, not only
// under -fuzz.
func TestRandomTablesSmoke(t *testing.T) {
	built, called := 0, 0
	for seed := int64(0); seed < 300; seed++ {
		g := generators.New(seed)
		env := funtype.NewDefault()
		fn, _, err := BuildRandomFunction(env, g)
		if err != nil {
			continue
		}
		built++

		args := g.Args(5)
		res, err := fn.Invoke(args...)
		if err != nil {
			if !IsDispatchError(err) {
				t.Fatalf("seed %d: unexpected error kind %T: %v", seed, err, err)
			}
			continue
		}
		called++
		if _, ok := res.(string); !ok {
			t.Fatalf("seed %d: implementation tag lost, got %T", seed, res)
		}
	}

	// The sweep must exercise both construction and successful dispatch;
	// if these drop to zero the generator has regressed.
	if built == 0 {
		t.Error("no random table ever built")
	}
	if called == 0 {
		t.Error("no random call ever resolved")
	}
}
