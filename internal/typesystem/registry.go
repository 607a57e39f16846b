// Package typesystem holds the runtime type catalog of a library instance:
// named type descriptors with test predicates and specificity ranks, and the
// directed conversion graph between them. Everything here is built once during
// instance construction and is read-only afterwards, so concurrent readers
// need no locking.
package typesystem

import (
	"fmt"
	"sort"

	"github.com/funvibe/funtype/internal/config"
)

// TypeTest reports whether a runtime value belongs to a type.
type TypeTest func(value any) bool

// TypeDescriptor describes one registered runtime type. Rank orders
// overlapping classifications: lower is more specific. Descriptors are
// immutable once registered.
type TypeDescriptor struct {
	Name string
	Test TypeTest
	Rank int

	seq int // position in classification order, breaks rank ties
}

// Registry is an ordered catalog of named runtime types. One registry exists
// per library instance; there is no process-global state.
type Registry struct {
	byName  map[string]*TypeDescriptor
	ordered []*TypeDescriptor // sorted by (Rank, seq)
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*TypeDescriptor)}
}

// Register adds a type at the end of its rank group. The catch-all type
// (config.AnyTypeName) should be registered with config.AnyTypeRank so it
// always classifies last.
func (r *Registry) Register(name string, test TypeTest, rank int) error {
	if name == "" {
		return fmt.Errorf("type name must not be empty")
	}
	if test == nil {
		return fmt.Errorf("type %s: test predicate must not be nil", name)
	}
	if _, ok := r.byName[name]; ok {
		return NewDuplicateTypeError(name)
	}
	d := &TypeDescriptor{Name: name, Test: test, Rank: rank}
	r.byName[name] = d
	r.ordered = append(r.ordered, d)
	r.resequence()
	return nil
}

// RegisterBefore adds a type that classifies directly before an existing one,
// taking the same rank. This is how consumers splice a more specific type in
// front of a broader test that would otherwise shadow it.
func (r *Registry) RegisterBefore(name string, test TypeTest, beforeName string) error {
	before, ok := r.byName[beforeName]
	if !ok {
		return NewUnknownTypeError(beforeName)
	}
	if name == "" {
		return fmt.Errorf("type name must not be empty")
	}
	if test == nil {
		return fmt.Errorf("type %s: test predicate must not be nil", name)
	}
	if _, ok := r.byName[name]; ok {
		return NewDuplicateTypeError(name)
	}
	d := &TypeDescriptor{Name: name, Test: test, Rank: before.Rank}
	r.byName[name] = d
	at := 0
	for i, existing := range r.ordered {
		if existing == before {
			at = i
			break
		}
	}
	r.ordered = append(r.ordered, nil)
	copy(r.ordered[at+1:], r.ordered[at:])
	r.ordered[at] = d
	r.resequence()
	return nil
}

// resequence re-derives the tie-break sequence from list positions and keeps
// the list sorted by (Rank, seq). Register and RegisterBefore both preserve
// relative order inside a rank group, so the sort is stable in effect.
func (r *Registry) resequence() {
	for i, d := range r.ordered {
		d.seq = i
	}
	sort.SliceStable(r.ordered, func(i, j int) bool {
		if r.ordered[i].Rank != r.ordered[j].Rank {
			return r.ordered[i].Rank < r.ordered[j].Rank
		}
		return r.ordered[i].seq < r.ordered[j].seq
	})
	for i, d := range r.ordered {
		d.seq = i
	}
}

// Lookup returns the descriptor for a name.
func (r *Registry) Lookup(name string) (*TypeDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Rank returns the specificity rank of a registered type.
func (r *Registry) Rank(name string) (int, error) {
	d, ok := r.byName[name]
	if !ok {
		return 0, NewUnknownTypeError(name)
	}
	return d.Rank, nil
}

// Classify returns every registered type whose test accepts the value,
// most specific first. With a catch-all registered the result is never empty.
func (r *Registry) Classify(value any) []*TypeDescriptor {
	var matches []*TypeDescriptor
	for _, d := range r.ordered {
		if d.Test(value) {
			matches = append(matches, d)
		}
	}
	return matches
}

// ClassifyName returns the most specific type name of a value, or the
// catch-all name when nothing else matches and a catch-all exists.
func (r *Registry) ClassifyName(value any) (string, bool) {
	for _, d := range r.ordered {
		if d.Test(value) {
			return d.Name, true
		}
	}
	return "", false
}

// HasCatchAll reports whether the catch-all type is registered. Dispatch
// table construction refuses registries without one, because classification
// must never come back empty at call time.
func (r *Registry) HasCatchAll() bool {
	_, ok := r.byName[config.AnyTypeName]
	return ok
}

// Names lists registered type names in classification order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, d := range r.ordered {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.ordered)
}
