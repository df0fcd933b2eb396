package orswot

import "github.com/nimbusdb/crdt/pkg/causal"

// OpKind distinguishes the two sub-ops an Update batch may contain.
type OpKind int

const (
	OpAdd OpKind = iota
	OpRemove
)

// Op is one sub-operation within an Update batch.
type Op[E comparable] struct {
	Kind    OpKind
	Element E
}

// AddOp builds an add sub-op.
func AddOp[E comparable](e E) Op[E] { return Op[E]{Kind: OpAdd, Element: e} }

// RemoveOp builds a remove sub-op.
func RemoveOp[E comparable](e E) Op[E] { return Op[E]{Kind: OpRemove, Element: e} }

// Update atomically applies ops in order against a single src. With a
// pre-stamped dot (how Map invokes nested updates) every add in the
// batch gets that same dot; with an actor, each add allocates its own
// fresh dot. On the first error, every change made so far by this call
// is rolled back and the error is returned; the set is left exactly
// as it was before the call.
func (s *Set[E]) Update(ops []Op[E], src causal.Source) error {
	working := s.clone()
	for _, op := range ops {
		switch op.Kind {
		case OpAdd:
			working.Add(op.Element, src)
		case OpRemove:
			if err := working.Remove(op.Element); err != nil {
				return err
			}
		}
	}
	*s = *working
	return nil
}
