// Command crdtbench runs one small demo per CRDT type against real
// actor IDs — ORSWOT add and merge, OD-Flag enable, Map add and nested
// update — and round-trips each result through the binary codec. It
// does not exercise removes, disables or the merge scenarios covered
// by the tests. A demo/bench CLI, not a production server, the same
// role the teacher's own main.go played for the gossip agent this
// module replaces.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nimbusdb/crdt/internal/actorid"
	"github.com/nimbusdb/crdt/internal/config"
	"github.com/nimbusdb/crdt/internal/crdtlog"
	"github.com/nimbusdb/crdt/internal/telemetry"
	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/crdt"
	"github.com/nimbusdb/crdt/pkg/crdtmap"
	"github.com/nimbusdb/crdt/pkg/odflag"
	"github.com/nimbusdb/crdt/pkg/orswot"
)

func main() {
	scenario := flag.String("scenario", "all", "which demo scenario to run: orswot, odflag, map, all")
	compress := flag.Bool("compress", false, "gzip-compress binary encodings")
	flag.Parse()

	sink, err := telemetry.NewSink("crdtbench")
	if err != nil {
		log.Fatalf("crdtbench: telemetry sink: %v", err)
	}
	logger := crdtlog.New("crdtbench")

	cfg := config.DefaultCompressionConfig()
	cfg.Enabled = *compress

	switch *scenario {
	case "orswot":
		runORSWOT(logger, sink, cfg)
	case "odflag":
		runODFlag(logger, sink, cfg)
	case "map":
		runMap(logger, sink, cfg)
	case "all":
		runORSWOT(logger, sink, cfg)
		runODFlag(logger, sink, cfg)
		runMap(logger, sink, cfg)
	default:
		fmt.Fprintf(os.Stderr, "crdtbench: unknown scenario %q\n", *scenario)
		os.Exit(1)
	}
}

func runORSWOT(logger *crdtlog.Logger, sink *telemetry.Sink, cfg *config.CompressionConfig) {
	a, b := actorid.New(), actorid.New()

	replicaA := orswot.NewWithSink[string](sink)
	replicaA.Add("tag:go", causal.ByActor(a))
	logger.LogUpdate("orswot", "replica-a", 1)

	replicaB := orswot.NewWithSink[string](sink)
	replicaB.Add("tag:crdt", causal.ByActor(b))
	logger.LogUpdate("orswot", "replica-b", 1)

	merged := replicaA.Merge(replicaB)
	logger.LogMerge("orswot", "replica-a+b")

	raw, err := crdt.ORSWOTToBinary(merged, cfg)
	if err != nil {
		logger.LogError("orswot_to_binary", err)
		return
	}
	logger.LogEncode("orswot", len(raw), cfg.Enabled)

	back, err := crdt.ORSWOTFromBinary(raw)
	if err != nil {
		logger.LogError("orswot_from_binary", err)
		return
	}
	logger.LogDecode("orswot", len(raw), cfg.Enabled)

	fmt.Printf("orswot: value=%v round_trip_equal=%t stats=%v\n",
		valueKeys(back.Value()), merged.Equal(back), merged.Stats())
}

func valueKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func runODFlag(logger *crdtlog.Logger, sink *telemetry.Sink, cfg *config.CompressionConfig) {
	a := actorid.New()

	flag := odflag.NewWithSink(sink)
	flag.Enable(causal.ByActor(a))
	logger.LogUpdate("odflag", "feature-x", 1)

	raw, err := crdt.ODFlagToBinary(flag, cfg)
	if err != nil {
		logger.LogError("odflag_to_binary", err)
		return
	}
	logger.LogEncode("odflag", len(raw), cfg.Enabled)

	back, err := crdt.ODFlagFromBinary(raw)
	if err != nil {
		logger.LogError("odflag_from_binary", err)
		return
	}
	logger.LogDecode("odflag", len(raw), cfg.Enabled)

	fmt.Printf("odflag: value=%t round_trip_equal=%t stats=%v\n",
		back.Value(), flag.Equal(back), flag.Stats())
}

func runMap(logger *crdtlog.Logger, sink *telemetry.Sink, cfg *config.CompressionConfig) {
	a := actorid.New()

	m := crdtmap.NewWithSink(sink)
	tagsField := crdtmap.Field{Name: "tags", Type: crdtmap.TypeORSWOT}
	activeField := crdtmap.Field{Name: "active", Type: crdtmap.TypeODFlag}

	err := m.Update([]crdtmap.SubOp{
		crdtmap.Add(tagsField),
		crdtmap.Add(activeField),
	}, causal.ByActor(a))
	if err != nil {
		logger.LogError("map_update_add", err)
		return
	}
	logger.LogUpdate("map", "doc-1", 2)

	err = m.Update([]crdtmap.SubOp{
		crdtmap.Update(tagsField, crdtmap.ORSWOTUpdate([]orswot.Op[string]{
			orswot.AddOp("go"), orswot.AddOp("crdt"),
		})),
		crdtmap.Update(activeField, crdtmap.FlagEnable()),
	}, causal.ByActor(a))
	if err != nil {
		logger.LogError("map_update_inner", err)
		return
	}
	logger.LogUpdate("map", "doc-1", 2)

	raw, err := crdt.MapToBinary(m, cfg)
	if err != nil {
		logger.LogError("map_to_binary", err)
		return
	}
	logger.LogEncode("map", len(raw), cfg.Enabled)

	back, err := crdt.MapFromBinary(raw)
	if err != nil {
		logger.LogError("map_from_binary", err)
		return
	}
	logger.LogDecode("map", len(raw), cfg.Enabled)

	fmt.Printf("map: round_trip_equal=%t stats=%v\n", m.Equal(back), m.Stats())
}
