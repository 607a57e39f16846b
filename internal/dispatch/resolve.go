package dispatch

import (
	"strings"

	"github.com/funvibe/funtype/internal/signature"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Resolution is the outcome of a successful dispatch: the implementation to
// run, the signature that declared it, and the conversions to apply per
// position before invoking.
type Resolution struct {
	Impl  Handler
	Sig   *signature.Signature
	convs []*typesystem.ConversionEdge
}

// ConvertArgs applies the resolved conversions, returning a fresh argument
// slice. A failing conversion returns its own error untouched.
func (r *Resolution) ConvertArgs(args []any) ([]any, error) {
	converted := false
	for _, c := range r.convs {
		if c != nil {
			converted = true
			break
		}
	}
	if !converted {
		return args, nil
	}
	out := make([]any, len(args))
	copy(out, args)
	for i, c := range r.convs {
		if c == nil {
			continue
		}
		v, err := c.Convert(args[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Converts reports whether the resolution applies any conversion.
func (r *Resolution) Converts() bool {
	for _, c := range r.convs {
		if c != nil {
			return true
		}
	}
	return false
}

type cacheEntry struct {
	res *Resolution
	err error
}

// Resolve classifies the arguments and selects the most specific matching
// implementation. Exact matches beat converting ones; among converting
// matches the lowest total cost wins, then specificity; remaining ties are
// ambiguous. The decision depends only on the argument classifications, so
// it is memoized on them when the cache is enabled.
func (t *Table) Resolve(args []any) (*Resolution, error) {
	classes := make([][]*typesystem.TypeDescriptor, len(args))
	names := make([]string, len(args))
	for i, a := range args {
		cl := t.registry.Classify(a)
		if len(cl) == 0 {
			return nil, NewNoMatchError(t.name, names[:i], t.SignatureStrings())
		}
		classes[i] = cl
		names[i] = cl[0].Name
	}

	if t.cache == nil {
		return t.resolveClasses(classes, names)
	}
	key := fingerprint(classes)
	if v, ok := t.cache.Load(key); ok {
		e := v.(*cacheEntry)
		return e.res, e.err
	}
	res, err := t.resolveClasses(classes, names)
	t.cache.Store(key, &cacheEntry{res: res, err: err})
	return res, err
}

// Invoke resolves the call, converts the arguments and runs the winning
// implementation.
func (t *Table) Invoke(args ...any) (any, error) {
	res, err := t.Resolve(args)
	if err != nil {
		return nil, err
	}
	converted, err := res.ConvertArgs(args)
	if err != nil {
		return nil, err
	}
	return res.Impl(converted...)
}

func (t *Table) resolveClasses(classes [][]*typesystem.TypeDescriptor, names []string) (*Resolution, error) {
	w := &walker{
		k:       len(classes),
		classes: classes,
		found:   make(map[*terminal]*candidate),
		convs:   make([]*typesystem.ConversionEdge, len(classes)),
		score:   make([]posScore, len(classes)),
	}
	w.walk(t.fixed[w.k], 0)
	w.walk(t.variadic, 0)

	cands := make([]*candidate, len(w.order))
	for i, term := range w.order {
		cands[i] = w.found[term]
	}
	best, err := t.selectCandidate(cands, names)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Impl:  best.term.entry.Impl,
		Sig:   best.term.entry.Sig,
		convs: best.convs,
	}, nil
}

type posScore struct {
	rank int
	size int
}

// candidate is one way a call can resolve: a terminal plus the conversion
// set and per-position specificity accumulated on the walk that reached it.
type candidate struct {
	term  *terminal
	cost  int
	convs []*typesystem.ConversionEdge
	score []posScore
}

type walker struct {
	k       int
	classes [][]*typesystem.TypeDescriptor
	found   map[*terminal]*candidate
	order   []*terminal

	convs []*typesystem.ConversionEdge
	score []posScore
	cost  int
}

func (w *walker) walk(n *node, depth int) {
	if n == nil {
		return
	}
	if depth == w.k {
		for _, term := range n.terms {
			w.emit(term)
		}
		return
	}
	for _, rt := range n.rests {
		w.walkRest(rt, depth)
	}
	for _, desc := range w.classes[depth] {
		for _, l := range n.children[desc.Name] {
			w.step(l, depth)
		}
	}
	for _, l := range n.wild {
		w.step(l, depth)
	}
}

func (w *walker) step(l *link, depth int) {
	w.convs[depth] = l.conv
	w.score[depth] = posScore{rank: l.rank, size: l.size}
	if l.conv != nil {
		w.cost += l.conv.Cost
	}
	w.walk(l.to, depth+1)
	if l.conv != nil {
		w.cost -= l.conv.Cost
	}
	w.convs[depth] = nil
}

// walkRest consumes every remaining argument through the rest terminal,
// choosing per element the cheapest matching link (then most specific). Per
// element choices are independent, so the greedy pick minimizes the total.
func (w *walker) walkRest(rt *restTerminal, depth int) {
	if w.k-depth < 1 {
		return
	}
	saved := w.cost
	matched := true
	for i := depth; i < w.k; i++ {
		var best *restLink
		for _, desc := range w.classes[i] {
			for _, l := range rt.links[desc.Name] {
				if betterRestLink(l, best) {
					best = l
				}
			}
		}
		for _, l := range rt.wild {
			if betterRestLink(l, best) {
				best = l
			}
		}
		if best == nil {
			matched = false
			break
		}
		w.convs[i] = best.conv
		w.score[i] = posScore{rank: best.rank, size: best.size}
		if best.conv != nil {
			w.cost += best.conv.Cost
		}
	}
	if matched {
		w.emit(&rt.terminal)
	}
	w.cost = saved
	for i := depth; i < w.k; i++ {
		w.convs[i] = nil
	}
}

func betterRestLink(l, best *restLink) bool {
	if best == nil {
		return true
	}
	lc, bc := 0, 0
	if l.conv != nil {
		lc = l.conv.Cost
	}
	if best.conv != nil {
		bc = best.conv.Cost
	}
	if lc != bc {
		return lc < bc
	}
	if l.rank != best.rank {
		return l.rank < best.rank
	}
	return l.size < best.size
}

// emit records the current walk state as a candidate for the terminal,
// keeping only the best walk per terminal. Walks are explored most specific
// classification first and union members in declaration order, so ties keep
// the earliest find.
func (w *walker) emit(term *terminal) {
	if prev, ok := w.found[term]; ok {
		if w.cost > prev.cost {
			return
		}
		if w.cost == prev.cost && !scoreLess(w.score, prev.score) {
			return
		}
		prev.cost = w.cost
		copy(prev.convs, w.convs)
		copy(prev.score, w.score)
		return
	}
	cand := &candidate{
		term:  term,
		cost:  w.cost,
		convs: make([]*typesystem.ConversionEdge, w.k),
		score: make([]posScore, w.k),
	}
	copy(cand.convs, w.convs)
	copy(cand.score, w.score)
	w.found[term] = cand
	w.order = append(w.order, term)
}

func scoreLess(a, b []posScore) bool {
	for i := range a {
		if a[i].rank != b[i].rank {
			return a[i].rank < b[i].rank
		}
		if a[i].size != b[i].size {
			return a[i].size < b[i].size
		}
	}
	return false
}

// selectCandidate picks the winner: exact candidates only if any exist, best
// specificity among them; otherwise every converting candidate competes on
// total cost first. An unresolvable tie is reported with both signatures.
func (t *Table) selectCandidate(cands []*candidate, argTypes []string) (*candidate, error) {
	pool := make([]*candidate, 0, len(cands))
	for _, c := range cands {
		if c.cost == 0 {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = cands
	}
	if len(pool) == 0 {
		return nil, NewNoMatchError(t.name, argTypes, t.SignatureStrings())
	}

	best := pool[0]
	var tied *candidate
	for _, c := range pool[1:] {
		switch compareCandidates(c, best) {
		case -1:
			best, tied = c, nil
		case 0:
			tied = c
		}
	}
	if tied != nil {
		return nil, NewAmbiguousCallError(t.name, argTypes, best.term.source, tied.term.source)
	}
	return best, nil
}

// compareCandidates orders two candidates for the same call: total cost,
// then per-position specificity, then fixed arity over variadic, then the
// tighter arity coverage. Zero means genuinely ambiguous.
func compareCandidates(a, b *candidate) int {
	if a.cost != b.cost {
		if a.cost < b.cost {
			return -1
		}
		return 1
	}
	for i := range a.score {
		if a.score[i].rank != b.score[i].rank {
			if a.score[i].rank < b.score[i].rank {
				return -1
			}
			return 1
		}
		if a.score[i].size != b.score[i].size {
			if a.score[i].size < b.score[i].size {
				return -1
			}
			return 1
		}
	}
	if a.term.variadic != b.term.variadic {
		if !a.term.variadic {
			return -1
		}
		return 1
	}
	if a.term.minArity != b.term.minArity {
		if a.term.minArity > b.term.minArity {
			return -1
		}
		return 1
	}
	if a.term.window != b.term.window {
		if a.term.window < b.term.window {
			return -1
		}
		return 1
	}
	return 0
}

func fingerprint(classes [][]*typesystem.TypeDescriptor) string {
	var b strings.Builder
	for i, cl := range classes {
		if i > 0 {
			b.WriteByte(';')
		}
		for j, d := range cl {
			if j > 0 {
				b.WriteByte('|')
			}
			b.WriteString(d.Name)
		}
	}
	return b.String()
}
