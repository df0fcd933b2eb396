// Package causal implements the dotted-version-vector algebra shared
// by every CRDT in this module: dots, version vectors, dot sets, and
// the dominance/descends relation they are built on.
package causal

import "fmt"

// Actor is an opaque, equality-comparable replica identity. Callers
// that want binary actor IDs encode them as strings before use (see
// internal/actorid); this package never assumes any ordering on
// actors beyond equality.
type Actor string

// Dot is an (actor, counter) pair uniquely naming a single update
// event. Counter is always >= 1.
type Dot struct {
	Actor   Actor
	Counter uint64
}

// String renders a Dot as "actor#counter", for debug output.
func (d Dot) String() string {
	return fmt.Sprintf("%s#%d", d.Actor, d.Counter)
}
