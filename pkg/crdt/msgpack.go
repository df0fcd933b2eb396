package crdt

import (
	"bytes"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

var mpHandle = &codec.MsgpackHandle{}

// msgpackEncode serializes v — the teacher's own wire format, used
// directly here instead of through memberlist's gossip layer.
func msgpackEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, mpHandle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func msgpackDecode(data []byte, v interface{}) error {
	dec := codec.NewDecoder(bytes.NewReader(data), mpHandle)
	return dec.Decode(v)
}
