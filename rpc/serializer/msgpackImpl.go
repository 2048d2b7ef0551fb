package serializer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// NewMsgpackSerializer creates a new serializer using the MessagePack encoding.
// This is the wire format spoken by embedded peers and the default of the module.
func NewMsgpackSerializer() IRPCSerializer {
	return &msgpackSerializerImpl{}
}

// msgpackSerializerImpl implements the IRPCSerializer interface using MessagePack.
// A message is written as a 4 element array [kind, id, selector, payload] where an
// empty selector is encoded as nil.
type msgpackSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (s msgpackSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("invalid message kind %d", msg.Kind)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeArrayLen(4); err != nil {
		return nil, err
	}
	if err := enc.EncodeUint(uint64(msg.Kind)); err != nil {
		return nil, err
	}
	if err := enc.EncodeUint(msg.ID); err != nil {
		return nil, err
	}

	var err error
	if msg.Selector == "" {
		err = enc.EncodeNil()
	} else {
		err = enc.EncodeString(msg.Selector)
	}
	if err != nil {
		return nil, err
	}

	if err := enc.Encode(msg.Payload); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	return buf.Bytes(), nil
}

func (s msgpackSerializerImpl) Deserialize(b []byte, msg *common.Message) (int, error) {
	if len(b) == 0 {
		return 0, ErrIncomplete
	}

	// first find out where the value at the front of the buffer ends
	r := bytes.NewReader(b)
	dec := msgpack.NewDecoder(r)
	if err := dec.Skip(); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrIncomplete
		}
		return len(b) - r.Len(), err
	}
	span := len(b) - r.Len()

	// the value is complete, anything that fails from here on can be skipped as a whole
	if err := s.decodeFrame(b[:span], msg); err != nil {
		return span, err
	}
	return span, nil
}

func (s msgpackSerializerImpl) Name() string {
	return "msgpack"
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// decodeFrame decodes exactly one complete frame
func (s msgpackSerializerImpl) decodeFrame(frame []byte, msg *common.Message) error {
	dec := msgpack.NewDecoder(bytes.NewReader(frame))
	dec.UseLooseInterfaceDecoding(true)

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("frame is not an array: %w", err)
	}
	if n != 4 {
		return fmt.Errorf("frame has %d elements, expected 4", n)
	}

	kind, err := dec.DecodeInt64()
	if err != nil {
		return fmt.Errorf("failed to decode kind: %w", err)
	}
	if kind < 0 || kind > int64(common.MsgKindNotify) {
		return fmt.Errorf("unknown message kind %d", kind)
	}

	// signed encodings are legal on the wire, negative values are not
	rawID, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}
	id, err := common.ToUint64(rawID)
	if err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}

	var selector string
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if code == msgpcode.Nil {
		err = dec.DecodeNil()
	} else {
		selector, err = dec.DecodeString()
	}
	if err != nil {
		return fmt.Errorf("failed to decode selector: %w", err)
	}

	payload, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	*msg = common.Message{
		Kind:     common.MessageKind(kind),
		ID:       id,
		Selector: selector,
		Payload:  payload,
	}
	return nil
}
