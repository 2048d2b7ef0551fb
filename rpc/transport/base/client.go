package base

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect opens a single stream to config.Endpoint
	Connect(config common.TransportConfig) (io.ReadWriteCloser, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established stream
	UpgradeConnection(conn io.ReadWriteCloser, config common.TransportConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the dialing side of a link
// independent of the specific transport medium (unix, tcp, ws, serial)
type clientTransport struct {
	connector IClientConnector
	config    common.TransportConfig
	mu        sync.RWMutex
	conn      *connection
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, serial)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.TransportConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}
	t.config = config

	// We always try at least once, and up to RetryCount times
	maxRetries := config.RetryCount
	if maxRetries < 1 {
		maxRetries = 1
	}

	// Initial backoff duration in milliseconds
	backoffMs := 50

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		rw, err := t.dial()
		if err == nil {
			t.mu.Lock()
			t.conn = newConnection(rw, config.ReadBufferSize, config.WriteTimeout)
			t.mu.Unlock()

			Logger.Infof("Connected to %s using %s transport", config.Endpoint, t.connector.GetName())
			return nil
		}

		lastErr = err
		Logger.Debugf("Connect attempt %d/%d to %s failed: %v", i+1, maxRetries, config.Endpoint, err)

		if i < maxRetries-1 {
			// Exponential backoff with a small random jitter (+-10%)
			jitter := float64(backoffMs) * (0.9 + 0.2*rand.Float64())
			time.Sleep(time.Duration(jitter) * time.Millisecond)
			backoffMs *= 2
		}
	}

	return common.NewTransportError("connect",
		fmt.Errorf("failed to connect to %s after %d attempts: %w", config.Endpoint, maxRetries, lastErr))
}

func (t *clientTransport) Read() ([]byte, error) {
	conn, err := t.current()
	if err != nil {
		return nil, err
	}
	return conn.read()
}

func (t *clientTransport) Write(frame []byte) error {
	conn, err := t.current()
	if err != nil {
		return err
	}
	return conn.write(frame)
}

func (t *clientTransport) Close() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.conn == nil {
		return nil
	}
	return t.conn.close()
}

func (t *clientTransport) GetName() string {
	return t.connector.GetName()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dial opens and upgrades one stream
func (t *clientTransport) dial() (io.ReadWriteCloser, error) {
	rw, err := t.connector.Connect(t.config)
	if err != nil {
		return nil, err
	}

	if err := t.connector.UpgradeConnection(rw, t.config); err != nil {
		rw.Close()
		return nil, fmt.Errorf("failed to upgrade connection to %s: %w", t.config.Endpoint, err)
	}
	return rw, nil
}

// current returns the established connection
func (t *clientTransport) current() (*connection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.conn == nil {
		return nil, common.NewTransportError("use", fmt.Errorf("not connected"))
	}
	return t.conn, nil
}
