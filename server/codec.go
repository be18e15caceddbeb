package server

import (
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/net/websocket"
)

// Frame encodings selectable with ?format= on /subscribe.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Msgpack encodes values as binary websocket frames.
var Msgpack = websocket.Codec{Marshal: msgpackMarshal, Unmarshal: msgpackUnmarshal}

func msgpackMarshal(v interface{}) ([]byte, byte, error) {
	data, err := msgpack.Marshal(v)
	return data, websocket.BinaryFrame, err
}

func msgpackUnmarshal(data []byte, _ byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// frameCodec picks the outbound codec for a requested format. Unknown
// formats fall back to JSON.
func frameCodec(format string) (websocket.Codec, string) {
	if format == FormatMsgpack {
		return Msgpack, FormatMsgpack
	}
	return websocket.JSON, FormatJSON
}
