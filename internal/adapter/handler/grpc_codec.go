package handler

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// JSONCodecName is the content-subtype clients select with
// grpc.CallContentSubtype to talk to the cart service.
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return JSONCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
