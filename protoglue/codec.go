// Package protoglue is the wire-codec layer: a minimal,
// hand-rolled message codec used in place of full protoc codegen (which
// is explicitly out of scope). Every message is carried as a
// single length-delimited protobuf field (field 1, wire type 2) whose
// payload is a JSON document — a valid use of
// google.golang.org/protobuf/encoding/protowire's low-level primitives
// without requiring generated .pb.go types for every RPC. Concrete
// request/response shapes live in messages.go.
package protoglue

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const bodyFieldNumber = protowire.Number(1)

// Encode marshals v as JSON and wraps it in a one-field protobuf message.
func Encode(v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protoglue: marshaling body: %w", err)
	}
	var out []byte
	out = protowire.AppendTag(out, bodyFieldNumber, protowire.BytesType)
	out = protowire.AppendBytes(out, body)
	return out, nil
}

// Decode reverses Encode into v (a pointer).
func Decode(data []byte, v interface{}) error {
	num, typ, n := protowire.ConsumeTag(data)
	if n < 0 {
		return fmt.Errorf("protoglue: invalid tag: %w", protowire.ParseError(n))
	}
	if num != bodyFieldNumber || typ != protowire.BytesType {
		return fmt.Errorf("protoglue: unexpected field %d wire type %d", num, typ)
	}
	body, n := protowire.ConsumeBytes(data[n:])
	if n < 0 {
		return fmt.Errorf("protoglue: invalid body: %w", protowire.ParseError(n))
	}
	return json.Unmarshal(body, v)
}
