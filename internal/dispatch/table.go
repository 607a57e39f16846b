// Package dispatch builds immutable dispatch tables from parsed signatures
// and resolves calls against them: classify the arguments, walk a decision
// tree keyed by arity and positional type, and pick the most specific match,
// inserting registered conversions where no exact signature fits.
package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/signature"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Handler is the uniform implementation convention: every registered body
// takes the resolved argument list and returns one value or an error.
type Handler func(args ...any) (any, error)

// Entry pairs one parsed signature with its implementation. Entry order is
// declaration order and is semantic: it breaks conversion ties inside a
// union and decides which entry an override replaces.
type Entry struct {
	Sig  *signature.Signature
	Impl Handler
}

// Options tune table construction.
type Options struct {
	// MaxHops bounds composed conversion paths planted in the tree.
	// Zero means the default of config.DefaultMaxHops (direct edges only).
	MaxHops int
	// DisableCache turns off the resolution memo.
	DisableCache bool
}

// Table is the immutable dispatch structure for one named function. Safe for
// concurrent use once Build returns.
type Table struct {
	name     string
	entries  []*Entry
	sources  []string
	registry *typesystem.Registry
	graph    *typesystem.Graph
	maxHops  int

	fixed    map[int]*node
	variadic *node

	minArity int
	maxArity int

	cache *sync.Map
}

// Build validates the entries against each other and compiles the decision
// tree. Construction errors are fatal for the function being defined; the
// table is never partially usable.
func Build(name string, entries []*Entry, registry *typesystem.Registry, graph *typesystem.Graph, opts Options) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("function %s: no signatures provided", name)
	}
	if !registry.HasCatchAll() {
		return nil, fmt.Errorf("function %s: registry has no catch-all %s type", name, config.AnyTypeName)
	}
	for _, e := range entries {
		if e.Sig == nil {
			return nil, fmt.Errorf("function %s: entry without a signature", name)
		}
		if e.Impl == nil {
			return nil, fmt.Errorf("function %s: signature %q without an implementation", name, e.Sig.String())
		}
	}

	if err := checkDuplicates(name, entries); err != nil {
		return nil, err
	}
	if err := checkAmbiguity(name, entries); err != nil {
		return nil, err
	}

	t := &Table{
		name:     name,
		entries:  entries,
		registry: registry,
		graph:    graph,
		maxHops:  opts.MaxHops,
		fixed:    make(map[int]*node),
		minArity: -1,
		maxArity: 0,
	}
	if t.maxHops <= 0 {
		t.maxHops = config.DefaultMaxHops
	}
	if !opts.DisableCache {
		t.cache = &sync.Map{}
	}

	t.sources = make([]string, len(entries))
	for i, e := range entries {
		t.sources[i] = e.Sig.String()

		if min := e.Sig.MinArity(); t.minArity == -1 || min < t.minArity {
			t.minArity = min
		}
		switch max := e.Sig.MaxArity(); {
		case max == -1:
			t.maxArity = -1
		case t.maxArity != -1 && max > t.maxArity:
			t.maxArity = max
		}

		for _, v := range expandOptionals(e) {
			if err := t.insert(v); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// variant is one arity-concrete form of an entry: optional parameters are
// expanded away at build time, so a variant is either fully fixed or a fixed
// prefix plus one rest parameter.
type variant struct {
	entry    *Entry
	source   string
	params   []signature.Param
	rest     bool
	minArity int
	window   int
}

// expandOptionals produces one variant per accepted arity of the entry's
// optional tail. The scoring metadata (minArity, window) stays that of the
// declaring signature, so a one-argument call prefers a plain "number" over
// the short form of "number, string?".
func expandOptionals(e *Entry) []*variant {
	sig := e.Sig
	window := 0
	if max := sig.MaxArity(); max == -1 {
		window = -1
	} else {
		window = max - sig.MinArity()
	}
	base := &variant{
		entry:    e,
		source:   sig.String(),
		minArity: sig.MinArity(),
		window:   window,
	}

	required := 0
	for _, p := range sig.Params {
		if p.Optional {
			break
		}
		required++
	}
	if required == len(sig.Params) {
		base.params = sig.Params
		base.rest = required > 0 && sig.Params[required-1].Variadic
		return []*variant{base}
	}

	variants := make([]*variant, 0, len(sig.Params)-required+1)
	for n := required; n <= len(sig.Params); n++ {
		v := *base
		v.params = sig.Params[:n]
		variants = append(variants, &v)
	}
	return variants
}

// checkDuplicates rejects entries declaring the identical parameter pattern.
// Identity ignores union member order: "number|string" and "string|number"
// accept exactly the same tuples with the same specificity.
func checkDuplicates(name string, entries []*Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := patternKey(e.Sig)
		if seen[key] {
			return NewInvalidArityError(name, e.Sig.String())
		}
		seen[key] = true
	}
	return nil
}

func patternKey(sig *signature.Signature) string {
	parts := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		types := make([]string, len(p.Types))
		copy(types, p.Types)
		sort.Strings(types)
		key := strings.Join(types, config.UnionSeparator)
		if p.Variadic {
			key = config.RestMarker + key
		}
		if p.Optional {
			key += config.OptionalMarker
		}
		parts[i] = key
	}
	return strings.Join(parts, config.ParamSeparator)
}

// checkAmbiguity sweeps every entry pair for overlapping tuple sets with
// equal specificity. The sweep intersects accepted-type sets positionally at
// the smallest arity both signatures cover; conversions never participate
// (conversion ties are guarded per call, where costs are known).
func checkAmbiguity(name string, entries []*Entry) error {
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i].Sig, entries[j].Sig
			if !ambiguousPair(a, b) {
				continue
			}
			return NewAmbiguousSignatureError(name, a.String(), b.String())
		}
	}
	return nil
}

func ambiguousPair(a, b *signature.Signature) bool {
	if a.MinArity() != b.MinArity() {
		return false
	}
	windowOf := func(s *signature.Signature) int {
		if s.MaxArity() == -1 {
			return -1
		}
		return s.MaxArity() - s.MinArity()
	}
	if windowOf(a) != windowOf(b) {
		return false
	}
	// Equal arity coverage: the smallest covered arity is the witness. If
	// every position up to it admits a shared type with equal specificity,
	// a call at that arity could not be ordered deterministically.
	k := a.MinArity()
	for i := 0; i < k; i++ {
		pa, _ := a.ParamAt(i)
		pb, _ := b.ParamAt(i)
		if !paramsInterchangeable(pa, pb) {
			return false
		}
	}
	return true
}

// paramsInterchangeable reports whether two parameter constraints admit a
// shared witness type with equal specificity on it.
func paramsInterchangeable(a, b signature.Param) bool {
	if a.IsAny() || b.IsAny() {
		return a.IsAny() && b.IsAny()
	}
	if len(a.Types) != len(b.Types) {
		return false
	}
	for _, t := range a.Types {
		if b.Accepts(t) {
			return true
		}
	}
	return false
}

// Name returns the function name the table was built for.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of declared signatures.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the declared entries in declaration order. The slice is
// shared; callers must not mutate it.
func (t *Table) Entries() []*Entry {
	return t.entries
}

// Signatures returns the parsed signatures in declaration order.
func (t *Table) Signatures() []*signature.Signature {
	sigs := make([]*signature.Signature, len(t.entries))
	for i, e := range t.entries {
		sigs[i] = e.Sig
	}
	return sigs
}

// SignatureStrings returns the normalized signature sources in declaration
// order, as listed in NoMatchError messages.
func (t *Table) SignatureStrings() []string {
	out := make([]string, len(t.sources))
	copy(out, t.sources)
	return out
}

// Lookup returns the entry declaring the given parameter pattern. The key is
// the normalized signature string.
func (t *Table) Lookup(normalized string) (*Entry, bool) {
	for i, s := range t.sources {
		if s == normalized {
			return t.entries[i], true
		}
	}
	return nil, false
}

// ArityBounds returns the smallest and largest argument counts any signature
// accepts; max is -1 when a rest parameter makes the table unbounded.
func (t *Table) ArityBounds() (min, max int) {
	return t.minArity, t.maxArity
}

// CouldMatch reports whether a call whose arguments have exactly the named
// types could ever resolve, directly or through registered conversions. Type
// names unknown to the registry match nothing. Used by compilers for static
// call-site diagnostics; runtime resolution stays authoritative.
func (t *Table) CouldMatch(typeNames []string) bool {
	for _, e := range t.entries {
		if !e.Sig.AcceptsArity(len(typeNames)) {
			continue
		}
		ok := true
		for i, name := range typeNames {
			p, _ := e.Sig.ParamAt(i)
			if !t.paramReachable(p, name) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (t *Table) paramReachable(p signature.Param, from string) bool {
	if _, ok := t.registry.Lookup(from); !ok {
		return false
	}
	if p.Accepts(from) {
		return true
	}
	for _, member := range p.Types {
		if _, ok := t.graph.Path(from, member, t.maxHops); ok {
			return true
		}
	}
	return false
}
