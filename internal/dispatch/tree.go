package dispatch

import (
	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/signature"
	"github.com/funvibe/funtype/internal/typesystem"
)

// The decision tree has one root per fixed arity plus one variadic root.
// Each variant contributes a spine of nodes, one per parameter position,
// reached through a link per acceptable label: union members become sibling
// links, conversion edges become links carrying their edge, and a catch-all
// parameter becomes a wildcard link. Every link records the rank and
// accepted-set size used for specificity scoring, so resolution never
// consults the registry beyond classification.

type node struct {
	children map[string][]*link
	wild     []*link
	terms    []*terminal
	rests    []*restTerminal
}

func newNode() *node {
	return &node{children: make(map[string][]*link)}
}

// link is one way to consume the argument at the current position.
type link struct {
	conv *typesystem.ConversionEdge // nil for an exact match
	rank int
	size int
	to   *node
}

// terminal marks a variant completing at its node, with the scoring metadata
// of the declaring signature.
type terminal struct {
	entry    *Entry
	source   string
	variadic bool
	minArity int
	window   int
}

// restTerminal marks a variant whose rest parameter consumes every remaining
// argument, each through one of the recorded per-element links.
type restTerminal struct {
	terminal
	links map[string][]*restLink
	wild  []*restLink
}

type restLink struct {
	conv *typesystem.ConversionEdge
	rank int
	size int
}

// labelOpt is one computed branch label for a parameter.
type labelOpt struct {
	label string // empty for the wildcard
	conv  *typesystem.ConversionEdge
	rank  int
	size  int
}

func (t *Table) insert(v *variant) error {
	m := len(v.params)
	var root *node
	prefix := v.params
	if v.rest {
		if t.variadic == nil {
			t.variadic = newNode()
		}
		root = t.variadic
		prefix = v.params[:m-1]
	} else {
		root = t.fixed[m]
		if root == nil {
			root = newNode()
			t.fixed[m] = root
		}
	}

	cur := root
	for _, p := range prefix {
		opts, err := t.labelOptions(p)
		if err != nil {
			return err
		}
		next := newNode()
		for _, o := range opts {
			l := &link{conv: o.conv, rank: o.rank, size: o.size, to: next}
			if o.label == "" {
				cur.wild = append(cur.wild, l)
			} else {
				cur.children[o.label] = append(cur.children[o.label], l)
			}
		}
		cur = next
	}

	term := terminal{
		entry:    v.entry,
		source:   v.source,
		variadic: v.rest,
		minArity: v.minArity,
		window:   v.window,
	}
	if !v.rest {
		cur.terms = append(cur.terms, &term)
		return nil
	}

	opts, err := t.labelOptions(v.params[m-1])
	if err != nil {
		return err
	}
	rt := &restTerminal{terminal: term, links: make(map[string][]*restLink)}
	for _, o := range opts {
		l := &restLink{conv: o.conv, rank: o.rank, size: o.size}
		if o.label == "" {
			rt.wild = append(rt.wild, l)
		} else {
			rt.links[o.label] = append(rt.links[o.label], l)
		}
	}
	cur.rests = append(cur.rests, rt)
	return nil
}

// labelOptions computes the branch labels for one parameter: an exact label
// per union member (the wildcard for the catch-all), then a conversion label
// for every graph path into a member, bounded by the table's hop limit.
// Conversions into types the parameter already accepts are skipped, so an
// exact branch always shadows a pointless conversion.
func (t *Table) labelOptions(p signature.Param) ([]labelOpt, error) {
	size := len(p.Types)
	if p.IsAny() {
		size = t.registry.Len()
	}

	var opts []labelOpt
	for _, name := range p.Types {
		rank, err := t.registry.Rank(name)
		if err != nil {
			return nil, err
		}
		if name == config.AnyTypeName {
			opts = append(opts, labelOpt{label: "", rank: rank, size: size})
			continue
		}
		opts = append(opts, labelOpt{label: name, rank: rank, size: size})
		for _, e := range t.graph.PathsInto(name, t.maxHops) {
			if p.Accepts(e.From) {
				continue
			}
			opts = append(opts, labelOpt{label: e.From, conv: e, rank: rank, size: size})
		}
	}
	return opts, nil
}
