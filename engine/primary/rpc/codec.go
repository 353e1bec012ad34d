package rpc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CodecName is the content subtype announced by clients using Codec.
const CodecName = "cbor"

// Codec encodes the worker messages with CBOR. Both the server and the client
// force this codec on every call of the service.
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", v, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	err := cbor.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("could not decode %T: %w", v, err)
	}
	return nil
}

func (Codec) Name() string {
	return CodecName
}
