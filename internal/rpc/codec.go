// Package rpc is the minimal gRPC read surface over the business layer.
// Messages travel as plain JSON rather than hand-maintained protobuf
// reflection glue (see api/proto/iot.proto for the documented wire shape
// a future protoc pass would compile).
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
