package crdt

import (
	"github.com/nimbusdb/crdt/pkg/causal"

	"github.com/google/btree"
)

// wireDot is the canonical on-wire form of a causal.Dot, and also
// doubles as one (actor, counter) entry of a wire-encoded version
// vector — the two shapes coincide.
type wireDot struct {
	Actor   string `codec:"actor"`
	Counter uint64 `codec:"counter"`
}

func toWireDot(d causal.Dot) wireDot {
	return wireDot{Actor: string(d.Actor), Counter: d.Counter}
}

func fromWireDot(w wireDot) causal.Dot {
	return causal.Dot{Actor: causal.Actor(w.Actor), Counter: w.Counter}
}

// dotItem adapts causal.Dot to btree.Item so a set of dots can be
// walked in canonical (actor, counter) order before encoding — two
// equal logical states must always produce byte-identical wire bytes
// (spec.md §8's round-trip law), which an unordered map range cannot
// guarantee.
type dotItem causal.Dot

func (a dotItem) Less(than btree.Item) bool {
	b := than.(dotItem)
	if a.Actor != b.Actor {
		return a.Actor < b.Actor
	}
	return a.Counter < b.Counter
}

// sortDots returns dots in canonical wire order.
func sortDots(dots []causal.Dot) []wireDot {
	tree := btree.New(32)
	for _, d := range dots {
		tree.ReplaceOrInsert(dotItem(d))
	}
	out := make([]wireDot, 0, tree.Len())
	tree.Ascend(func(item btree.Item) bool {
		out = append(out, toWireDot(causal.Dot(item.(dotItem))))
		return true
	})
	return out
}

// vvToWire flattens a version vector into canonically ordered entries.
func vvToWire(v causal.VV) []wireDot {
	dots := make([]causal.Dot, 0, len(v))
	for a, c := range v {
		dots = append(dots, causal.Dot{Actor: a, Counter: c})
	}
	return sortDots(dots)
}

// vvFromWire rebuilds a version vector from wire entries.
func vvFromWire(entries []wireDot) causal.VV {
	v := causal.Fresh()
	for _, w := range entries {
		d := fromWireDot(w)
		v[d.Actor] = d.Counter
	}
	return v
}

// dotSetToWire flattens a dot set into canonical order.
func dotSetToWire(ds causal.DotSet) []wireDot {
	dots := make([]causal.Dot, 0, len(ds))
	for d := range ds {
		dots = append(dots, d)
	}
	return sortDots(dots)
}

// dotSetFromWire rebuilds a dot set from wire entries.
func dotSetFromWire(entries []wireDot) causal.DotSet {
	ds := causal.NewDotSet()
	for _, w := range entries {
		ds = ds.Add(fromWireDot(w))
	}
	return ds
}
