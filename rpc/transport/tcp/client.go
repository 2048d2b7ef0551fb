package tcp

import (
	"io"
	"net"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
)

const dialTimeout = 5 * time.Second

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(config common.TransportConfig) (io.ReadWriteCloser, error) {
	return net.DialTimeout("tcp", config.Endpoint, dialTimeout)
}

func (c *clientConnector) UpgradeConnection(conn io.ReadWriteCloser, config common.TransportConfig) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // Not a TCP connection, nothing to upgrade
	}
	return upgradeTCPConn(tcpConn, config)
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPClientTransport creates a new TCP transport that dials the peer
func NewTCPClientTransport() transport.IRPCTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
