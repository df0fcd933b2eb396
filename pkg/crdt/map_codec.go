package crdt

import (
	"fmt"
	"sort"

	"github.com/nimbusdb/crdt/internal/config"
	"github.com/nimbusdb/crdt/pkg/crdtmap"
	"github.com/nimbusdb/crdt/pkg/odflag"
	"github.com/nimbusdb/crdt/pkg/orswot"
)

type wireMapEntry struct {
	FieldName string  `codec:"field_name"`
	FieldType uint8   `codec:"field_type"`
	Dot       wireDot `codec:"dot"`
	// Value holds the field's inner value, msgpack-encoded against its
	// own wire struct (wireORSWOT/wireODFlag/wireMap, per FieldType).
	// It is never re-enveloped: nesting one tag/version/flags header
	// inside another would buy nothing, since the outer envelope
	// already pins the version for the whole blob.
	Value []byte `codec:"value"`
}

type wireMap struct {
	Clock   []wireDot      `codec:"clock"`
	Entries []wireMapEntry `codec:"entries"`
}

// orswotGetter, odflagGetter and mapGetter let this package pull the
// concrete nested CRDT out of a crdtmap.Value without crdtmap exposing
// its unexported wrapper types — every concrete wrapper already
// implements one of these via an exported accessor method.
type orswotGetter interface {
	ORSWOT() *orswot.Set[string]
}

type odflagGetter interface {
	Flag() *odflag.Flag
}

type mapGetter interface {
	Map() *crdtmap.Map
}

// MapToBinary encodes m into spec.md §6's tagged wire format (tag 101,
// version 1), optionally gzip-compressed per cfg. Nested Map, ORSWOT
// and OD-Flag field values are encoded recursively.
func MapToBinary(m *crdtmap.Map, cfg *config.CompressionConfig) ([]byte, error) {
	w, err := mapToWire(m)
	if err != nil {
		return nil, err
	}
	body, err := msgpackEncode(w)
	if err != nil {
		return nil, fmt.Errorf("crdt: encode map: %w", err)
	}
	return encodeEnvelope(TagMap, body, cfg)
}

// MapFromBinary decodes raw bytes produced by MapToBinary.
func MapFromBinary(raw []byte) (*crdtmap.Map, error) {
	tag, body, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if err := checkTag(tag, TagMap); err != nil {
		return nil, err
	}
	var w wireMap
	if err := msgpackDecode(body, &w); err != nil {
		return nil, fmt.Errorf("crdt: decode map: %w", err)
	}
	return mapFromWire(w)
}

func mapToWire(m *crdtmap.Map) (wireMap, error) {
	raw := m.RawEntries()
	entries := make([]wireMapEntry, 0, len(raw))
	for _, e := range raw {
		valueBytes, err := encodeFieldValue(e.Value)
		if err != nil {
			return wireMap{}, fmt.Errorf("crdt: encode field %q: %w", e.Field.Name, err)
		}
		entries = append(entries, wireMapEntry{
			FieldName: e.Field.Name,
			FieldType: uint8(e.Field.Type),
			Dot:       toWireDot(e.Dot),
			Value:     valueBytes,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.FieldName != b.FieldName {
			return a.FieldName < b.FieldName
		}
		if a.FieldType != b.FieldType {
			return a.FieldType < b.FieldType
		}
		if a.Dot.Actor != b.Dot.Actor {
			return a.Dot.Actor < b.Dot.Actor
		}
		return a.Dot.Counter < b.Dot.Counter
	})
	return wireMap{Clock: vvToWire(m.Clock()), Entries: entries}, nil
}

func mapFromWire(w wireMap) (*crdtmap.Map, error) {
	entries := make([]crdtmap.Entry, 0, len(w.Entries))
	for _, we := range w.Entries {
		tag := crdtmap.TypeTag(we.FieldType)
		value, err := decodeFieldValue(tag, we.Value)
		if err != nil {
			return nil, fmt.Errorf("crdt: decode field %q: %w", we.FieldName, err)
		}
		entries = append(entries, crdtmap.Entry{
			Field: crdtmap.Field{Name: we.FieldName, Type: tag},
			Value: value,
			Dot:   fromWireDot(we.Dot),
		})
	}
	return crdtmap.FromRaw(vvFromWire(w.Clock), entries), nil
}

// encodeFieldValue dispatches on v's closed type tag — a plain type
// switch, per spec.md §9's guidance against open plugin registration.
func encodeFieldValue(v crdtmap.Value) ([]byte, error) {
	switch crdtmap.ValueTypeTag(v) {
	case crdtmap.TypeORSWOT:
		set := v.(orswotGetter).ORSWOT()
		return msgpackEncode(orswotToWire(set))
	case crdtmap.TypeODFlag:
		flag := v.(odflagGetter).Flag()
		return msgpackEncode(odflagToWire(flag))
	case crdtmap.TypeMap:
		nested := v.(mapGetter).Map()
		w, err := mapToWire(nested)
		if err != nil {
			return nil, err
		}
		return msgpackEncode(w)
	default:
		return nil, fmt.Errorf("crdt: unknown field type tag %d", crdtmap.ValueTypeTag(v))
	}
}

func decodeFieldValue(tag crdtmap.TypeTag, data []byte) (crdtmap.Value, error) {
	switch tag {
	case crdtmap.TypeORSWOT:
		var w wireORSWOT
		if err := msgpackDecode(data, &w); err != nil {
			return nil, err
		}
		return crdtmap.NewORSWOTValue(orswotFromWire(w)), nil
	case crdtmap.TypeODFlag:
		var w wireODFlag
		if err := msgpackDecode(data, &w); err != nil {
			return nil, err
		}
		return crdtmap.NewODFlagValue(odflagFromWire(w)), nil
	case crdtmap.TypeMap:
		var w wireMap
		if err := msgpackDecode(data, &w); err != nil {
			return nil, err
		}
		nested, err := mapFromWire(w)
		if err != nil {
			return nil, err
		}
		return crdtmap.NewMapValue(nested), nil
	default:
		return nil, fmt.Errorf("crdt: unknown field type tag %d", tag)
	}
}
