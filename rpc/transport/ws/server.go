package ws

import (
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
	"github.com/gorilla/websocket"
)

// listener serves the websocket handshake over http and hands out the upgraded
// connections through Accept, so the base server transport can treat it like a socket.
type listener struct {
	tcp      net.Listener
	server   *http.Server
	upgrader websocket.Upgrader
	conns    chan *stream
	closed   chan struct{}
	once     sync.Once
}

// Listen starts serving websocket connections on addr (host:port)
func Listen(addr string) (net.Listener, error) {
	tcp, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	l := &listener{
		tcp: tcp,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  common.DefaultReadBufferSize,
			WriteBufferSize: common.DefaultReadBufferSize,
			// the peer is not a browser, there is no origin to check
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns:  make(chan *stream),
		closed: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+Path, l.handleUpgrade)
	l.server = &http.Server{Handler: mux}

	go func() {
		if err := l.server.Serve(tcp); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Websocket server on %s stopped: %v", addr, err)
		}
	}()
	return l, nil
}

func (l *listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger.Warningf("Websocket upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}

	select {
	case l.conns <- newStream(conn):
	case <-l.closed:
		conn.Close()
	}
}

func (l *listener) Accept() (net.Conn, error) {
	select {
	case s := <-l.conns:
		return s, nil
	case <-l.closed:
		return nil, net.ErrClosed
	}
}

// Close stops the http server, upgraded connections stay open
func (l *listener) Close() error {
	err := net.ErrClosed
	l.once.Do(func() {
		close(l.closed)
		err = l.server.Close()
	})
	return err
}

func (l *listener) Addr() net.Addr {
	return l.tcp.Addr()
}

// serverConnector implements the IServerConnector interface for websockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "ws"
}

func (c *serverConnector) Listen(config common.TransportConfig) (net.Listener, error) {
	return Listen(config.Endpoint)
}

func (c *serverConnector) UpgradeConnection(net.Conn, common.TransportConfig) error {
	return nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewWSServerTransport creates a new websocket transport that waits for the peer on
// host:port and serves the handshake on Path
func NewWSServerTransport() transport.IRPCTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}
