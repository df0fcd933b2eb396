package crdt

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/nimbusdb/crdt/internal/config"
	"github.com/nimbusdb/crdt/pkg/crdterr"
)

// TypeTag is the one-byte discriminator spec.md §6 puts at the front
// of every encoded value.
type TypeTag uint8

const (
	TagORSWOT TypeTag = 75
	TagODFlag TypeTag = 73
	TagMap    TypeTag = 101
)

func (t TypeTag) String() string {
	switch t {
	case TagORSWOT:
		return "orswot"
	case TagODFlag:
		return "odflag"
	case TagMap:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

const wireVersion = 1

const flagCompressed = 1 << 0

// encodeEnvelope wraps a msgpack body with the header spec.md §6
// requires: tag byte, version byte, and a flags byte recording whether
// the body that follows is gzip-compressed. cfg may be nil, meaning no
// compression regardless of the configured default — callers that want
// spec.md §6's "enabled by default" behavior pass
// config.DefaultCompressionConfig() rather than nil.
func encodeEnvelope(tag TypeTag, body []byte, cfg *config.CompressionConfig) ([]byte, error) {
	flags := byte(0)
	payload := body
	if cfg != nil && cfg.Enabled {
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("crdt: new gzip writer: %w", err)
		}
		if _, err := w.Write(body); err != nil {
			return nil, fmt.Errorf("crdt: gzip write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("crdt: gzip close: %w", err)
		}
		payload = buf.Bytes()
		flags |= flagCompressed
	}
	out := make([]byte, 0, 3+len(payload))
	out = append(out, byte(tag), byte(wireVersion), flags)
	out = append(out, payload...)
	return out, nil
}

// decodeEnvelope splits raw wire bytes into their tag and decompressed
// msgpack body, transparent to whether the sender compressed it.
func decodeEnvelope(raw []byte) (TypeTag, []byte, error) {
	if len(raw) < 3 {
		return 0, nil, fmt.Errorf("crdt: envelope too short (%d bytes): %w", len(raw), crdterr.ErrInvalidBinary)
	}
	tag := TypeTag(raw[0])
	version := raw[1]
	if version != wireVersion {
		return 0, nil, fmt.Errorf("crdt: unsupported wire version %d: %w", version, crdterr.ErrInvalidBinary)
	}
	flags := raw[2]
	body := raw[3:]
	if flags&flagCompressed != 0 {
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return 0, nil, fmt.Errorf("crdt: new gzip reader: %v: %w", err, crdterr.ErrInvalidBinary)
		}
		decompressed, err := io.ReadAll(r)
		if err != nil {
			return 0, nil, fmt.Errorf("crdt: gzip read: %v: %w", err, crdterr.ErrInvalidBinary)
		}
		body = decompressed
	}
	return tag, body, nil
}

// checkTag returns crdterr.ErrInvalidBinary if got does not match want.
func checkTag(got, want TypeTag) error {
	if got != want {
		return fmt.Errorf("crdt: tag %s where %s was expected: %w", got, want, crdterr.ErrInvalidBinary)
	}
	return nil
}
