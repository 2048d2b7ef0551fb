package unix

import (
	"io"
	"net"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
)

// clientConnector implements the IClientConnector interface for Unix sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) Connect(config common.TransportConfig) (io.ReadWriteCloser, error) {
	return net.Dial("unix", config.Endpoint)
}

func (c *clientConnector) UpgradeConnection(io.ReadWriteCloser, common.TransportConfig) error {
	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixClientTransport creates a new Unix socket transport that dials the peer
func NewUnixClientTransport() transport.IRPCTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
