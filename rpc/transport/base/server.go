package base

import (
	"fmt"
	"net"
	"sync"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener on config.Endpoint and returns it
	Listen(config common.TransportConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.TransportConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the listening side of a link.
// It accepts exactly one peer, a link is point-to-point.
type serverTransport struct {
	connector IServerConnector
	config    common.TransportConfig
	mu        sync.Mutex
	listener  net.Listener
	conn      *connection
	closed    bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with the specified connector
func NewBaseServerTransport(connector IServerConnector) transport.IRPCTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) Connect(config common.TransportConfig) error {
	t.config = config

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return common.NewTransportError("listen", err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		listener.Close()
		return common.NewTransportError("listen", net.ErrClosed)
	}
	t.listener = listener
	t.mu.Unlock()

	Logger.Infof("Waiting for peer on %s (%s)", listener.Addr(), t.connector.GetName())

	// Accept exactly one connection, then stop listening
	conn, err := listener.Accept()
	t.mu.Lock()
	t.listener = nil
	t.mu.Unlock()
	listener.Close()

	if err != nil {
		if isClosedErr(err) {
			return common.NewTransportError("accept", fmt.Errorf("closed while waiting for peer: %w", err))
		}
		return common.NewTransportError("accept", err)
	}

	if err := t.connector.UpgradeConnection(conn, config); err != nil {
		conn.Close()
		return common.NewTransportError("upgrade", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		conn.Close()
		return common.NewTransportError("accept", net.ErrClosed)
	}
	t.conn = newConnection(conn, config.ReadBufferSize, config.WriteTimeout)

	Logger.Infof("Peer %s connected", conn.RemoteAddr())
	return nil
}

func (t *serverTransport) Read() ([]byte, error) {
	conn, err := t.current()
	if err != nil {
		return nil, err
	}
	return conn.read()
}

func (t *serverTransport) Write(frame []byte) error {
	conn, err := t.current()
	if err != nil {
		return err
	}
	return conn.write(frame)
}

func (t *serverTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true

	// unblock a pending Accept
	if t.listener != nil {
		t.listener.Close()
	}
	if t.conn != nil {
		return t.conn.close()
	}
	return nil
}

func (t *serverTransport) GetName() string {
	return t.connector.GetName()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (t *serverTransport) current() (*connection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, common.NewTransportError("use", fmt.Errorf("no peer connected"))
	}
	return t.conn, nil
}
