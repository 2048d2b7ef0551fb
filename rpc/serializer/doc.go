// Package serializer provides the codec adapters of a link. A codec turns a
// common.Message into the bytes of one frame and back. Frames are self-delimiting,
// so a codec can also tell where the next frame in a stream begins.
//
// The package focuses on:
//   - Providing a consistent interface for different wire formats
//   - Decoding frames from the front of a byte stream that may hold several frames,
//     a truncated frame or garbage
//   - Normalizing dynamically typed payloads so procedures see the same Go types
//     regardless of the format
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//     Deserialize reports how many bytes it consumed, which lets the frame reader skip
//     malformed frames and keep truncated ones for the next read.
//
//   - msgpackSerializerImpl: MessagePack implementation. A frame is the array
//     [kind, id, selector, payload] with nil as the empty selector. This is the format
//     spoken by microcontroller firmware and the default of the module.
//
//   - jsonSerializerImpl: Newline delimited JSON arrays with the same layout. Useful for
//     debugging with a terminal or for peers without a MessagePack library.
//
// Decoded Types:
//
//	Both implementations decode integers to int64 (uint64 when the value does not fit
//	into int64 or was sent as an unsigned MessagePack integer), other numbers to float64,
//	lists to []any and maps to map[string]any. MessagePack binary values become strings.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	  s := serializer.NewMsgpackSerializer()
//	  data, err := s.Serialize(*common.NewRequest(0, "add", []any{2, 3}))
//	  // ... send data ...
//	  var msg common.Message
//	  n, err := s.Deserialize(received, &msg)
//	  received = received[n:]
package serializer
