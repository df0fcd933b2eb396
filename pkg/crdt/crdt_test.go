package crdt

import (
	"testing"

	"github.com/nimbusdb/crdt/internal/config"
	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/crdtmap"
	"github.com/nimbusdb/crdt/pkg/odflag"
	"github.com/nimbusdb/crdt/pkg/orswot"
)

func TestORSWOTRoundTrip(t *testing.T) {
	s := orswot.New[string]()
	s.Add("go", causal.ByActor("a"))
	s.Add("crdt", causal.ByActor("b"))

	for _, cfg := range []*config.CompressionConfig{nil, {Enabled: false}, {Enabled: true, Level: 6}} {
		raw, err := ORSWOTToBinary(s, cfg)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		back, err := ORSWOTFromBinary(raw)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !s.Equal(back) {
			t.Fatalf("round trip mismatch: %v vs %v", s.Value(), back.Value())
		}
	}
}

func TestORSWOTFromBinaryRejectsWrongTag(t *testing.T) {
	f := odflag.New()
	f.Enable(causal.ByActor("a"))
	raw, err := ODFlagToBinary(f, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ORSWOTFromBinary(raw); err == nil {
		t.Fatalf("expected error decoding an OD-Flag blob as an ORSWOT")
	}
}

func TestODFlagRoundTrip(t *testing.T) {
	f := odflag.New()
	f.Enable(causal.ByActor("a"))

	raw, err := ODFlagToBinary(f, &config.CompressionConfig{Enabled: true, Level: 9})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := ODFlagFromBinary(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !f.Equal(back) {
		t.Fatalf("round trip mismatch")
	}
}

func TestMapRoundTripFlatFields(t *testing.T) {
	m := crdtmap.New()
	tagsField := crdtmap.Field{Name: "tags", Type: crdtmap.TypeORSWOT}
	activeField := crdtmap.Field{Name: "active", Type: crdtmap.TypeODFlag}

	mustUpdate(t, m, []crdtmap.SubOp{crdtmap.Add(tagsField), crdtmap.Add(activeField)})
	mustUpdate(t, m, []crdtmap.SubOp{
		crdtmap.Update(tagsField, crdtmap.ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("x")})),
		crdtmap.Update(activeField, crdtmap.FlagEnable()),
	})

	raw, err := MapToBinary(m, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := MapFromBinary(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !m.Equal(back) {
		t.Fatalf("round trip mismatch")
	}
}

func TestMapRoundTripNestedMap(t *testing.T) {
	outer := crdtmap.New()
	inner := crdtmap.Field{Name: "profile", Type: crdtmap.TypeMap}
	nestedTags := crdtmap.Field{Name: "roles", Type: crdtmap.TypeORSWOT}

	mustUpdate(t, outer, []crdtmap.SubOp{crdtmap.Add(inner)})
	mustUpdate(t, outer, []crdtmap.SubOp{
		crdtmap.Update(inner, crdtmap.MapUpdate([]crdtmap.SubOp{crdtmap.Add(nestedTags)})),
	})
	mustUpdate(t, outer, []crdtmap.SubOp{
		crdtmap.Update(inner, crdtmap.MapUpdate([]crdtmap.SubOp{
			crdtmap.Update(nestedTags, crdtmap.ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("admin")})),
		})),
	})

	raw, err := MapToBinary(outer, &config.CompressionConfig{Enabled: true, Level: 6})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := MapFromBinary(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !outer.Equal(back) {
		t.Fatalf("round trip mismatch for nested map")
	}
}

func mustUpdate(t *testing.T, m *crdtmap.Map, ops []crdtmap.SubOp) {
	t.Helper()
	if err := m.Update(ops, causal.ByActor("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeRejectsShortEnvelope(t *testing.T) {
	if _, err := ORSWOTFromBinary([]byte{1, 2}); err == nil {
		t.Fatalf("expected error decoding a too-short envelope")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	raw := []byte{byte(TagORSWOT), 99, 0}
	if _, err := ORSWOTFromBinary(raw); err == nil {
		t.Fatalf("expected error decoding an unknown wire version")
	}
}
