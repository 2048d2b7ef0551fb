package transport

import (
	"github.com/ValentinKolb/rpclink/rpc/common"
)

// IRPCTransport is the interface for the byte stream a link runs on.
// A transport connects exactly two peers, delivery must be ordered and reliable.
// Frames are not delimited by the transport, a single Read may return a partial
// frame or several frames at once.
type IRPCTransport interface {
	// Connect establishes the connection with the given configuration.
	// For listening transports this blocks until the peer connected.
	Connect(config common.TransportConfig) error
	// Read blocks until bytes are available and returns them.
	// The result may be empty (e.g. a serial read timed out). The returned slice
	// is only valid until the next call to Read.
	// Any error is fatal and matches common.ErrTransport.
	Read() ([]byte, error)
	// Write writes the complete frame. It is safe for concurrent use, frames are never interleaved.
	Write(frame []byte) error
	// Close closes the connection and unblocks a pending Read
	Close() error
	// GetName returns the name of the transport type (e.g., "tcp", "serial")
	GetName() string
}
