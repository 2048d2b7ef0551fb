package ws

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
	"github.com/gorilla/websocket"
)

var Logger = base.Logger

// Path is the http path the link is served on
const Path = "/rpclink"

const handshakeTimeout = 5 * time.Second

// clientConnector implements the IClientConnector interface for websockets
type clientConnector struct {
	dialer *websocket.Dialer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "ws"
}

func (c *clientConnector) Connect(config common.TransportConfig) (io.ReadWriteCloser, error) {
	url := DialURL(config.Endpoint)

	conn, resp, err := c.dialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake with %s failed (%s): %w", url, resp.Status, err)
		}
		return nil, err
	}
	return newStream(conn), nil
}

func (c *clientConnector) UpgradeConnection(io.ReadWriteCloser, common.TransportConfig) error {
	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewWSClientTransport creates a new websocket transport that dials the peer.
// The endpoint is either a ws:// or wss:// url or host:port, which is served on Path.
func NewWSClientTransport() transport.IRPCTransport {
	return base.NewBaseClientTransport(&clientConnector{
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   common.DefaultReadBufferSize,
			WriteBufferSize:  common.DefaultReadBufferSize,
		},
	})
}

// DialURL turns an endpoint into the url the client dials
func DialURL(endpoint string) string {
	if strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://") {
		return endpoint
	}
	return "ws://" + endpoint + Path
}
