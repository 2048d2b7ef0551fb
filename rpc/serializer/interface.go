package serializer

import (
	"errors"
	"github.com/ValentinKolb/rpclink/rpc/common"
)

// ErrIncomplete is returned by Deserialize when the buffer ends in the middle of a message.
// The caller should keep the remaining bytes and retry once more data arrived.
var ErrIncomplete = errors.New("incomplete message")

// IRPCSerializer is the interface for all Message Serializers (the codec adapter of a link)
type IRPCSerializer interface {
	// Serialize serializes a Message into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes one Message from the front of b into msg.
	// It returns the number of bytes that belong to the decoded (or skipped) message.
	// On failure n is the span that can safely be skipped, which may be 0 if
	// no such span can be determined. Truncated input yields ErrIncomplete, n then
	// counts leading bytes that carry no data (e.g. whitespace) and may be dropped.
	Deserialize(b []byte, msg *common.Message) (n int, err error)
	// Name returns the name of the format (e.g. "msgpack")
	Name() string
}
