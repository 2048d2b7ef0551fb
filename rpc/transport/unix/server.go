package unix

import (
	"fmt"
	"net"
	"os"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
)

// serverConnector implements the IServerConnector interface for Unix sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "unix"
}

func (c *serverConnector) Listen(config common.TransportConfig) (net.Listener, error) {
	socketPath := config.Endpoint

	// Remove a stale socket file of an earlier run
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unix socket: %w", err)
	}

	// the socket file is removed when the listener is closed
	listener.(*net.UnixListener).SetUnlinkOnClose(true)
	return listener, nil
}

func (c *serverConnector) UpgradeConnection(net.Conn, common.TransportConfig) error {
	return nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixServerTransport creates a new Unix socket transport that waits for the peer
func NewUnixServerTransport() transport.IRPCTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}
