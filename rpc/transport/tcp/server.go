package tcp

import (
	"fmt"
	"net"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
)

// serverConnector implements the IServerConnector interface for TCP sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "tcp"
}

func (c *serverConnector) Listen(config common.TransportConfig) (net.Listener, error) {
	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %w", err)
	}
	return listener, nil
}

func (c *serverConnector) UpgradeConnection(conn net.Conn, config common.TransportConfig) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	return upgradeTCPConn(tcpConn, config)
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPServerTransport creates a new TCP transport that waits for the peer to dial in
func NewTCPServerTransport() transport.IRPCTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// upgradeTCPConn applies the TCPConf and SocketConf options to a connection
func upgradeTCPConn(tcpConn *net.TCPConn, config common.TransportConfig) error {
	// Disable Nagle's algorithm, frames are small and latency matters
	if err := tcpConn.SetNoDelay(config.TCPConf.TCPNoDelay); err != nil {
		return err
	}

	if config.SocketConf.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(config.SocketConf.WriteBufferSize); err != nil {
			return err
		}
	}

	if config.SocketConf.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(config.SocketConf.ReadBufferSize); err != nil {
			return err
		}
	}

	if config.TCPConf.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		keepAlivePeriod := time.Duration(config.TCPConf.TCPKeepAliveSec) * time.Second
		if err := tcpConn.SetKeepAlivePeriod(keepAlivePeriod); err != nil {
			return err
		}
	}

	// negative keeps the OS default
	if config.TCPConf.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(config.TCPConf.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}
