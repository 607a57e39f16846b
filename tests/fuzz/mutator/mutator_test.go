package mutator

import "testing"

func TestMutateIsDeterministic(t *testing.T) {
	a := NewSignatureMutator(42)
	b := NewSignatureMutator(42)
	sig := "number, Array|Matrix, ...string"
	for i := 0; i < 100; i++ {
		ma, mb := a.Mutate(sig), b.Mutate(sig)
		if ma != mb {
			t.Fatalf("round %d: same seed produced %q and %q", i, ma, mb)
		}
		sig = ma
	}
}

func TestMutateNeverPanics(t *testing.T) {
	m := NewSignatureMutator(7)
	seeds := []string{"", "number", "a|b, c?", "...any", ",,,", "|||"}
	for _, s := range seeds {
		sig := s
		for i := 0; i < 200; i++ {
			sig = m.Mutate(sig)
		}
	}
}
