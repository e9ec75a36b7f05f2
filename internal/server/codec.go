package server

import "encoding/json"

// jsonCodec lets Connect handlers speak plain JSON. The service carries no
// proto schema, so the default protojson codec is replaced with encoding/json
// over ordinary structs.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
