package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ValentinKolb/rpclink/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Frames are json arrays [kind, id, selector, payload], optionally separated by whitespace.
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("invalid message kind %d", msg.Kind)
	}

	var selector any
	if msg.Selector != "" {
		selector = msg.Selector
	}

	b, err := json.Marshal([]any{uint8(msg.Kind), msg.ID, selector, msg.Payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	// newline delimited, makes the stream readable in a terminal
	return append(b, '\n'), nil
}

func (j jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) (int, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return len(b), ErrIncomplete
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrIncomplete
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return max(int(syntaxErr.Offset), 1), err
		}
		return 0, err
	}
	span := int(dec.InputOffset())

	// consume trailing whitespace so the next frame starts at a token
	for span < len(b) && isSpace(b[span]) {
		span++
	}

	if err := j.decodeFrame(raw, msg); err != nil {
		return span, err
	}
	return span, nil
}

func (j jsonSerializerImpl) Name() string {
	return "json"
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) decodeFrame(raw any, msg *common.Message) error {
	fields, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("frame is not an array but %T", raw)
	}
	if len(fields) != 4 {
		return fmt.Errorf("frame has %d elements, expected 4", len(fields))
	}

	kind, err := common.ToInt64(normalizeJSON(fields[0]))
	if err != nil {
		return fmt.Errorf("failed to decode kind: %w", err)
	}
	if kind < 0 || kind > int64(common.MsgKindNotify) {
		return fmt.Errorf("unknown message kind %d", kind)
	}

	id, err := common.ToUint64(normalizeJSON(fields[1]))
	if err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}

	var selector string
	switch s := fields[2].(type) {
	case nil:
	case string:
		selector = s
	default:
		return fmt.Errorf("failed to decode selector: expected string or null, got %T", fields[2])
	}

	*msg = common.Message{
		Kind:     common.MessageKind(kind),
		ID:       id,
		Selector: selector,
		Payload:  normalizeJSON(fields[3]),
	}
	return nil
}

// normalizeJSON replaces json.Number values with int64 (or uint64 if they do not
// fit) for integers and float64 otherwise, so both formats yield the same types.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeJSON(t[i])
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeJSON(e)
		}
		return t
	default:
		return v
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
