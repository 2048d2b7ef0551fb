package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Sentinel Errors
// --------------------------------------------------------------------------

var (
	// ErrUnknownProcedure is reported when a request names a procedure that is not bound
	ErrUnknownProcedure = errors.New("unknown procedure")

	// ErrInvalidArguments is reported when the argument list of a request does not fit the procedure
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrTimeout is returned by a blocking call whose deadline elapsed without a response
	ErrTimeout = errors.New("call timed out")

	// ErrTransport marks read or write failures of the underlying link. They are fatal to a link.
	ErrTransport = errors.New("transport error")

	// ErrLinkClosed is returned by operations on a link that has been shut down
	ErrLinkClosed = errors.New("link closed")
)

// --------------------------------------------------------------------------
// Error Types
// --------------------------------------------------------------------------

// RemoteProcedureError is returned by a blocking call when the peer answered
// with an error description instead of a result.
type RemoteProcedureError struct {
	Procedure   string
	ID          uint64
	Description string
}

func (e *RemoteProcedureError) Error() string {
	return fmt.Sprintf("remote procedure %q (id %d) failed: %s", e.Procedure, e.ID, e.Description)
}

// DecodeError describes a malformed frame that the frame reader skipped
type DecodeError struct {
	// Skipped is the number of bytes that were dropped to get past the frame
	Skipped int
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error (skipped %d bytes): %v", e.Skipped, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err so that it matches both ErrTransport and err itself
func NewTransportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
