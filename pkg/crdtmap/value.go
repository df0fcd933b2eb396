package crdtmap

import (
	"fmt"

	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/odflag"
	"github.com/nimbusdb/crdt/pkg/orswot"
)

// TypeTag names one of the closed set of CRDT kinds a Map field may
// hold. Spec.md §9 explicitly discourages open plugin registration;
// the set below is closed at build time, matching that guidance.
type TypeTag uint8

const (
	TypeORSWOT TypeTag = iota + 1
	TypeODFlag
	TypeMap
)

func (t TypeTag) String() string {
	switch t {
	case TypeORSWOT:
		return "orswot"
	case TypeODFlag:
		return "odflag"
	case TypeMap:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Field identifies a map entry's schema slot: a name paired with a
// type tag. Two fields with the same name but different tags are
// different fields (spec.md §3) — e.g. "tags" as an ORSWOT and
// "tags" as a Map can coexist.
type Field struct {
	Name string
	Type TypeTag
}

// Value is the polymorphic nested-CRDT contract every field value
// satisfies (spec.md §4.5, restricted to the subset a Map needs:
// merge and equality — updates are dispatched through InnerOp, not
// through this interface, so each concrete type keeps its own
// natural Update signature instead of being forced through a common
// one).
type Value interface {
	typeTag() TypeTag
	cloneValue() Value
	mergeValue(other Value) Value
	equalValue(other Value) bool
}

// ValueTypeTag returns v's type tag, for codecs that need to dispatch
// on a Value without access to its concrete (unexported) type.
func ValueTypeTag(v Value) TypeTag { return v.typeTag() }

// NewORSWOTValue wraps set as a Value, for decoders rebuilding a field
// from wire bytes.
func NewORSWOTValue(set *orswot.Set[string]) Value { return &orswotValue{set: set} }

// NewODFlagValue wraps flag as a Value.
func NewODFlagValue(flag *odflag.Flag) Value { return &odflagValue{flag: flag} }

// NewMapValue wraps m as a Value.
func NewMapValue(m *Map) Value { return &mapValue{m: m} }

// newEmptyValue builds a fresh, empty value of the given kind — used
// by the Add sub-op (applyAdd), which (per spec.md §4.4/§9) always
// stamps a brand new empty value regardless of any prior content, and
// by applyUpdate when the field has no entry yet.
func newEmptyValue(tag TypeTag) Value {
	switch tag {
	case TypeORSWOT:
		return &orswotValue{set: orswot.New[string]()}
	case TypeODFlag:
		return &odflagValue{flag: odflag.New()}
	case TypeMap:
		return &mapValue{m: New()}
	default:
		panic(fmt.Sprintf("crdtmap: unknown type tag %d", tag))
	}
}

// orswotValue adapts *orswot.Set[string] to Value. Nested sets are
// fixed to string elements — the common case for a schema field (a
// set of tags, members, or opaque IDs) — rather than parameterizing
// Map itself over an element type, which spec.md's "closed tagged
// variant" design (§9) does not call for.
type orswotValue struct {
	set *orswot.Set[string]
}

func (v *orswotValue) typeTag() TypeTag { return TypeORSWOT }
func (v *orswotValue) cloneValue() Value {
	return &orswotValue{set: v.set.PreconditionContext()}
}
func (v *orswotValue) mergeValue(other Value) Value {
	o, ok := other.(*orswotValue)
	if !ok {
		panic("crdtmap: mergeValue called across mismatched types")
	}
	return &orswotValue{set: v.set.Merge(o.set)}
}
func (v *orswotValue) equalValue(other Value) bool {
	o, ok := other.(*orswotValue)
	return ok && v.set.Equal(o.set)
}

// ORSWOT returns the underlying set, for reading (Value()) or for
// building an InnerOp against it.
func (v *orswotValue) ORSWOT() *orswot.Set[string] { return v.set }

// odflagValue adapts *odflag.Flag to Value.
type odflagValue struct {
	flag *odflag.Flag
}

func (v *odflagValue) typeTag() TypeTag       { return TypeODFlag }
func (v *odflagValue) cloneValue() Value      { return &odflagValue{flag: v.flag.PreconditionContext()} }
func (v *odflagValue) mergeValue(other Value) Value {
	o, ok := other.(*odflagValue)
	if !ok {
		panic("crdtmap: mergeValue called across mismatched types")
	}
	return &odflagValue{flag: v.flag.Merge(o.flag)}
}
func (v *odflagValue) equalValue(other Value) bool {
	o, ok := other.(*odflagValue)
	return ok && v.flag.Equal(o.flag)
}

// Flag returns the underlying flag.
func (v *odflagValue) Flag() *odflag.Flag { return v.flag }

// mapValue adapts a nested *Map to Value, giving Map the ability to
// embed another Map as a field value (supplementing the distilled
// spec, which never forbids nesting and whose §9 describes the
// dispatch as a closed tagged variant "of all supported value
// kinds" — a nested map is one of riak_dt_map's own supported kinds).
type mapValue struct {
	m *Map
}

func (v *mapValue) typeTag() TypeTag  { return TypeMap }
func (v *mapValue) cloneValue() Value { return &mapValue{m: v.m.PreconditionContext()} }
func (v *mapValue) mergeValue(other Value) Value {
	o, ok := other.(*mapValue)
	if !ok {
		panic("crdtmap: mergeValue called across mismatched types")
	}
	return &mapValue{m: v.m.Merge(o.m)}
}
func (v *mapValue) equalValue(other Value) bool {
	o, ok := other.(*mapValue)
	return ok && v.m.Equal(o.m)
}

// Map returns the underlying nested map.
func (v *mapValue) Map() *Map { return v.m }

// ErrTypeMismatch is returned when an InnerOp built for one TypeTag
// is applied against a field declared with a different TypeTag.
var ErrTypeMismatch = fmt.Errorf("crdtmap: inner op type does not match field type")

// InnerOp is a closure over the specific sub-operation to apply to a
// field's current (already-merged) value, sharing the batch's single
// dot (spec.md §4.4). Built by ORSWOTUpdate, FlagEnable, FlagDisable,
// or MapUpdate below — the closed set spec.md §9 calls for.
type InnerOp struct {
	tag   TypeTag
	apply func(v Value, src causal.Source) (Value, error)
}

func (op InnerOp) run(v Value, src causal.Source) (Value, error) {
	if v.typeTag() != op.tag {
		return nil, fmt.Errorf("field has type %s, op expects %s: %w", v.typeTag(), op.tag, ErrTypeMismatch)
	}
	return op.apply(v, src)
}

// ORSWOTUpdate builds an InnerOp that runs ops against the field's
// nested ORSWOT.
func ORSWOTUpdate(ops []orswot.Op[string]) InnerOp {
	return InnerOp{
		tag: TypeORSWOT,
		apply: func(v Value, src causal.Source) (Value, error) {
			ov := v.(*orswotValue)
			working := &orswotValue{set: ov.set.PreconditionContext()}
			if err := working.set.Update(ops, src); err != nil {
				return nil, err
			}
			return working, nil
		},
	}
}

// FlagEnable builds an InnerOp that enables the field's nested flag.
func FlagEnable() InnerOp {
	return InnerOp{
		tag: TypeODFlag,
		apply: func(v Value, src causal.Source) (Value, error) {
			ov := v.(*odflagValue)
			working := &odflagValue{flag: ov.flag.PreconditionContext()}
			working.flag.Enable(src)
			return working, nil
		},
	}
}

// FlagDisable builds an InnerOp that disables the field's nested flag.
func FlagDisable() InnerOp {
	return InnerOp{
		tag: TypeODFlag,
		apply: func(v Value, _ causal.Source) (Value, error) {
			ov := v.(*odflagValue)
			working := &odflagValue{flag: ov.flag.PreconditionContext()}
			working.flag.Disable()
			return working, nil
		},
	}
}

// MapUpdate builds an InnerOp that applies a nested batch of sub-ops
// to the field's nested Map, sharing the same dot (src).
func MapUpdate(ops []SubOp) InnerOp {
	return InnerOp{
		tag: TypeMap,
		apply: func(v Value, src causal.Source) (Value, error) {
			mv := v.(*mapValue)
			working := mv.m.PreconditionContext()
			if err := working.apply(ops, src); err != nil {
				return nil, err
			}
			return &mapValue{m: working}, nil
		},
	}
}
