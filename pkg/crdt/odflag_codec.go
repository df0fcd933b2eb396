package crdt

import (
	"fmt"

	"github.com/nimbusdb/crdt/internal/config"
	"github.com/nimbusdb/crdt/pkg/odflag"
)

type wireODFlag struct {
	Clock   []wireDot `codec:"clock"`
	Enabled []wireDot `codec:"enabled"`
}

// ODFlagToBinary encodes flag into spec.md §6's tagged wire format
// (tag 73, version 1), optionally gzip-compressed per cfg.
func ODFlagToBinary(flag *odflag.Flag, cfg *config.CompressionConfig) ([]byte, error) {
	body, err := msgpackEncode(odflagToWire(flag))
	if err != nil {
		return nil, fmt.Errorf("crdt: encode odflag: %w", err)
	}
	return encodeEnvelope(TagODFlag, body, cfg)
}

// ODFlagFromBinary decodes raw bytes produced by ODFlagToBinary.
func ODFlagFromBinary(raw []byte) (*odflag.Flag, error) {
	tag, body, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if err := checkTag(tag, TagODFlag); err != nil {
		return nil, err
	}
	var w wireODFlag
	if err := msgpackDecode(body, &w); err != nil {
		return nil, fmt.Errorf("crdt: decode odflag: %w", err)
	}
	return odflagFromWire(w), nil
}

func odflagToWire(flag *odflag.Flag) wireODFlag {
	return wireODFlag{
		Clock:   vvToWire(flag.Clock()),
		Enabled: dotSetToWire(flag.RawEnabled()),
	}
}

func odflagFromWire(w wireODFlag) *odflag.Flag {
	return odflag.FromRaw(vvFromWire(w.Clock), dotSetFromWire(w.Enabled))
}
