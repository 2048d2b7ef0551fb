package base

import (
	"io"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
)

// wrappedTransport adapts an already open stream, Connect only applies the configuration
type wrappedTransport struct {
	name string
	conn *connection
}

// WrapConn returns a transport for a stream that is already connected,
// e.g. one end of net.Pipe or an inherited file descriptor.
func WrapConn(rw io.ReadWriteCloser, name string, readBufferSize int) transport.IRPCTransport {
	return &wrappedTransport{
		name: name,
		conn: newConnection(rw, readBufferSize, 0),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCTransport)
// --------------------------------------------------------------------------

func (t *wrappedTransport) Connect(config common.TransportConfig) error {
	t.conn.writeTimeout = config.WriteTimeout
	return nil
}

func (t *wrappedTransport) Read() ([]byte, error) {
	return t.conn.read()
}

func (t *wrappedTransport) Write(frame []byte) error {
	return t.conn.write(frame)
}

func (t *wrappedTransport) Close() error {
	return t.conn.close()
}

func (t *wrappedTransport) GetName() string {
	return t.name
}
