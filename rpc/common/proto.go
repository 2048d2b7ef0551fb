package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is the wire-level unit exchanged over a link. On the wire it is the
// ordered 4-tuple [kind, id, selector, payload].
// Which fields carry meaning depends on the kind of message.
type Message struct {
	// Kind of message (request, response or notify)
	Kind MessageKind `json:"kind"`

	// ID correlates a response with the request that caused it. Ignored for notify.
	ID uint64 `json:"id"`

	// Selector is the procedure name for requests and notifications and the
	// error description for responses (empty means success).
	Selector string `json:"selector,omitempty"`

	// Payload is the argument list ([]any) for requests and notifications and
	// the single result value for responses (nil on error).
	Payload any `json:"payload,omitempty"`
}

// IsError reports whether the message is a response that carries an error description
func (m *Message) IsError() bool {
	return m.Kind == MsgKindResponse && m.Selector != ""
}

// Args returns the argument list of a request or notification.
// A nil payload is an empty argument list, anything that is not a list is rejected.
func (m *Message) Args() ([]any, error) {
	switch args := m.Payload.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return args, nil
	default:
		return nil, fmt.Errorf("%w: expected argument list, got %T", ErrInvalidArguments, m.Payload)
	}
}

// String returns a compact representation used in log lines
func (m Message) String() string {
	return fmt.Sprintf("[%s %d %q %v]", m.Kind, m.ID, m.Selector, m.Payload)
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewRequest creates a new request for the given procedure
func NewRequest(id uint64, procedure string, args []any) *Message {
	if args == nil {
		args = []any{}
	}
	return &Message{
		Kind:     MsgKindRequest,
		ID:       id,
		Selector: procedure,
		Payload:  args,
	}
}

// NewResponse creates a new successful response carrying result
func NewResponse(id uint64, result any) *Message {
	return &Message{
		Kind:    MsgKindResponse,
		ID:      id,
		Payload: result,
	}
}

// NewErrorResponse creates a new response carrying the description of err and no payload
func NewErrorResponse(id uint64, err error) *Message {
	msg := &Message{
		Kind: MsgKindResponse,
		ID:   id,
	}
	if err != nil {
		msg.Selector = err.Error()
	}
	// an empty description would read as success on the other side
	if msg.Selector == "" {
		msg.Selector = "unknown error"
	}
	return msg
}

// NewNotify creates a new one-way notification, it never gets a response
func NewNotify(procedure string, args []any) *Message {
	if args == nil {
		args = []any{}
	}
	return &Message{
		Kind:     MsgKindNotify,
		Selector: procedure,
		Payload:  args,
	}
}

// --------------------------------------------------------------------------
// Message Kind Definition
// --------------------------------------------------------------------------

// MessageKind is the first element of every frame
type MessageKind uint8

const (
	MsgKindRequest  MessageKind = 0 // The sender wants the receiver to execute a procedure
	MsgKindResponse MessageKind = 1 // Result of an earlier request
	MsgKindNotify   MessageKind = 2 // One-way message, never answered
)

// Valid reports whether k is one of the kinds defined by the wire format
func (k MessageKind) Valid() bool {
	return k <= MsgKindNotify
}

// String returns the string representation of a MessageKind.
func (k MessageKind) String() string {
	switch k {
	case MsgKindRequest:
		return "request"
	case MsgKindResponse:
		return "response"
	case MsgKindNotify:
		return "notify"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Procedure Naming
// --------------------------------------------------------------------------

// ProcedureName returns the wire name of a method of class: lower(class)+"_"+method
func ProcedureName(class, method string) string {
	return strings.ToLower(class) + "_" + method
}

// ConstructorName returns the wire name of the constructor of class: lower(class)+"_new"
func ConstructorName(class string) string {
	return ProcedureName(class, "new")
}
