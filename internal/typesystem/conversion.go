package typesystem

import "fmt"

// ConvertFunc transforms a value of one type into another. Conversions must
// be pure: no mutation of the source value, deterministic output. A failing
// conversion returns its own error, which dispatch propagates unwrapped.
type ConvertFunc func(value any) (any, error)

// ConversionEdge is one registered conversion. Cost weighs edges against each
// other when several conversions could satisfy a call; costs are >= 1.
type ConversionEdge struct {
	From    string
	To      string
	Convert ConvertFunc
	Cost    int

	hops int // 1 for registered edges, >1 for composed paths
}

// Hops returns the number of registered edges composed into this edge.
func (e *ConversionEdge) Hops() int {
	if e.hops == 0 {
		return 1
	}
	return e.hops
}

// Graph is the directed conversion graph over a registry's types.
// Built during instance construction, read-only afterwards.
type Graph struct {
	registry *Registry
	outgoing map[string][]*ConversionEdge // from -> edges, registration order
	incoming map[string][]*ConversionEdge // to -> edges, registration order
}

func NewGraph(registry *Registry) *Graph {
	return &Graph{
		registry: registry,
		outgoing: make(map[string][]*ConversionEdge),
		incoming: make(map[string][]*ConversionEdge),
	}
}

// Add registers a conversion edge. Re-registering an identical from/to pair
// with the same cost is a no-op; a different cost is a conflict. Both type
// names must already be registered.
func (g *Graph) Add(from, to string, fn ConvertFunc, cost int) error {
	if _, ok := g.registry.Lookup(from); !ok {
		return NewUnknownTypeError(from)
	}
	if _, ok := g.registry.Lookup(to); !ok {
		return NewUnknownTypeError(to)
	}
	if from == to {
		return NewConflictError(from, to, "a type cannot convert to itself")
	}
	if fn == nil {
		return fmt.Errorf("conversion %s -> %s: convert function must not be nil", from, to)
	}
	if cost < 1 {
		return fmt.Errorf("conversion %s -> %s: cost must be >= 1, got %d", from, to, cost)
	}
	if existing, ok := g.Find(from, to); ok {
		if existing.Cost == cost {
			return nil
		}
		return NewConflictError(from, to, fmt.Sprintf("already registered with cost %d, got %d", existing.Cost, cost))
	}
	edge := &ConversionEdge{From: from, To: to, Convert: fn, Cost: cost, hops: 1}
	g.outgoing[from] = append(g.outgoing[from], edge)
	g.incoming[to] = append(g.incoming[to], edge)
	return nil
}

// Find returns the direct edge from one type to another.
func (g *Graph) Find(from, to string) (*ConversionEdge, bool) {
	for _, e := range g.outgoing[from] {
		if e.To == to {
			return e, true
		}
	}
	return nil, false
}

// From returns the edges leaving a type, in registration order.
func (g *Graph) From(from string) []*ConversionEdge {
	return g.outgoing[from]
}

// Into returns the edges entering a type, in registration order. The dispatch
// table builder uses this to plant conversion branches next to each exact
// branch.
func (g *Graph) Into(to string) []*ConversionEdge {
	return g.incoming[to]
}

// Path returns the cheapest conversion from one type to another using at most
// maxHops registered edges, composing the conversion functions when the best
// path is longer than one edge. Edges are relaxed in registration order and
// only strict improvements are kept, so equal-cost alternatives resolve to the
// earliest-registered path, deterministically.
func (g *Graph) Path(from, to string, maxHops int) (*ConversionEdge, bool) {
	if maxHops <= 1 {
		return g.Find(from, to)
	}
	type state struct {
		cost int
		via  []*ConversionEdge
	}
	best := map[string]state{from: {cost: 0}}
	frontier := []string{from}
	for hop := 0; hop < maxHops; hop++ {
		var next []string
		for _, node := range frontier {
			cur := best[node]
			for _, e := range g.outgoing[node] {
				cand := cur.cost + e.Cost
				if prev, seen := best[e.To]; seen && prev.cost <= cand {
					continue
				}
				via := make([]*ConversionEdge, len(cur.via)+1)
				copy(via, cur.via)
				via[len(cur.via)] = e
				best[e.To] = state{cost: cand, via: via}
				next = append(next, e.To)
			}
		}
		frontier = next
	}
	found, ok := best[to]
	if !ok || len(found.via) == 0 {
		return nil, false
	}
	if len(found.via) == 1 {
		return found.via[0], true
	}
	return composeEdges(found.via), true
}

// PathsInto returns, for every source type, the cheapest bounded path into
// the target type. Used at build time; never consulted during resolution.
func (g *Graph) PathsInto(to string, maxHops int) []*ConversionEdge {
	if maxHops <= 1 {
		return g.incoming[to]
	}
	var edges []*ConversionEdge
	for _, name := range g.registry.Names() {
		if name == to {
			continue
		}
		if e, ok := g.Path(name, to, maxHops); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

func composeEdges(via []*ConversionEdge) *ConversionEdge {
	chain := make([]*ConversionEdge, len(via))
	copy(chain, via)
	total := 0
	for _, e := range chain {
		total += e.Cost
	}
	return &ConversionEdge{
		From: chain[0].From,
		To:   chain[len(chain)-1].To,
		Cost: total,
		hops: len(chain),
		Convert: func(value any) (any, error) {
			v := value
			var err error
			for _, e := range chain {
				v, err = e.Convert(v)
				if err != nil {
					return nil, err
				}
			}
			return v, nil
		},
	}
}
