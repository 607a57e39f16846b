package dispatch

import (
	"errors"
	"math"
	"testing"

	"github.com/funvibe/funtype/internal/signature"
)

func TestSelfUnbound(t *testing.T) {
	s := NewSelf("abs")
	if s.Bound() {
		t.Fatal("fresh handle should be unbound")
	}

	_, err := s.Call(1)
	var serr *SelfReferenceError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %T (%v), want *SelfReferenceError", err, err)
	}
	if serr.Name != "abs" {
		t.Errorf("Name = %q", serr.Name)
	}

	if _, err := s.Resolve([]any{1}); !errors.As(err, &serr) {
		t.Fatalf("Resolve error = %T, want *SelfReferenceError", err)
	}
}

func TestSelfElementwise(t *testing.T) {
	f := newNumericFixture(t)
	s := NewSelf("abs")

	entries := []*Entry{
		{
			Sig: signature.MustParse("number", f.registry),
			Impl: func(args ...any) (any, error) {
				switch n := args[0].(type) {
				case int:
					if n < 0 {
						return -n, nil
					}
					return n, nil
				case float64:
					return math.Abs(n), nil
				}
				return nil, errors.New("not a number")
			},
		},
		{
			Sig: signature.MustParse("Array", f.registry),
			Impl: func(args ...any) (any, error) {
				in := args[0].([]any)
				out := make([]any, len(in))
				for i, v := range in {
					mapped, err := s.Call(v)
					if err != nil {
						return nil, err
					}
					out[i] = mapped
				}
				return out, nil
			},
		},
	}

	tbl, err := Build("abs", entries, f.registry, f.graph, Options{})
	if err != nil {
		t.Fatal(err)
	}
	s.Bind(tbl)
	if !s.Bound() {
		t.Fatal("handle should be bound after Bind")
	}

	got, err := tbl.Invoke([]any{1, -2.0, []any{-3}})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	out := got.([]any)
	if out[0] != 1 || out[1] != 2.0 {
		t.Errorf("elementwise result = %v", out)
	}
	nested := out[2].([]any)
	if nested[0] != 3 {
		t.Errorf("nested result = %v", nested)
	}
}

func TestSelfBindOnce(t *testing.T) {
	f := newNumericFixture(t)
	s := NewSelf("id")

	first := f.build(t, "id", "any")
	second := f.build(t, "other", "number")

	s.Bind(first)
	s.Bind(second)

	res, err := s.Resolve([]any{[]any{}})
	if err != nil {
		t.Fatalf("the first bound table should still serve: %v", err)
	}
	if res.Sig.String() != "any" {
		t.Errorf("resolved against %q, want the first table", res.Sig.String())
	}
}
