package crdt

import (
	"fmt"
	"sort"

	"github.com/nimbusdb/crdt/internal/config"
	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/orswot"
)

type wireORSWOTEntry struct {
	Element string    `codec:"element"`
	Dots    []wireDot `codec:"dots"`
}

type wireORSWOT struct {
	Clock   []wireDot         `codec:"clock"`
	Entries []wireORSWOTEntry `codec:"entries"`
}

// ORSWOTToBinary encodes set into spec.md §6's tagged wire format
// (tag 75, version 1), optionally gzip-compressed per cfg.
func ORSWOTToBinary(set *orswot.Set[string], cfg *config.CompressionConfig) ([]byte, error) {
	body, err := msgpackEncode(orswotToWire(set))
	if err != nil {
		return nil, fmt.Errorf("crdt: encode orswot: %w", err)
	}
	return encodeEnvelope(TagORSWOT, body, cfg)
}

// ORSWOTFromBinary decodes raw bytes produced by ORSWOTToBinary,
// transparent to compression.
func ORSWOTFromBinary(raw []byte) (*orswot.Set[string], error) {
	tag, body, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if err := checkTag(tag, TagORSWOT); err != nil {
		return nil, err
	}
	var w wireORSWOT
	if err := msgpackDecode(body, &w); err != nil {
		return nil, fmt.Errorf("crdt: decode orswot: %w", err)
	}
	return orswotFromWire(w), nil
}

func orswotToWire(set *orswot.Set[string]) wireORSWOT {
	entries := set.RawEntries()
	names := make([]string, 0, len(entries))
	for e := range entries {
		names = append(names, e)
	}
	sort.Strings(names)

	wireEntries := make([]wireORSWOTEntry, 0, len(names))
	for _, e := range names {
		wireEntries = append(wireEntries, wireORSWOTEntry{
			Element: e,
			Dots:    dotSetToWire(entries[e]),
		})
	}
	return wireORSWOT{Clock: vvToWire(set.Clock()), Entries: wireEntries}
}

func orswotFromWire(w wireORSWOT) *orswot.Set[string] {
	entries := make(map[string]causal.DotSet, len(w.Entries))
	for _, we := range w.Entries {
		entries[we.Element] = dotSetFromWire(we.Dots)
	}
	return orswot.FromRaw(vvFromWire(w.Clock), entries)
}
