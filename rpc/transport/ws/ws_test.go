package ws

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/link"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
	"github.com/ValentinKolb/rpclink/rpc/server"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectPair returns a dialing transport and the accepted server side of one websocket connection
func connectPair(t *testing.T, readBufferSize int) (transport.IRPCTransport, transport.IRPCTransport) {
	t.Helper()

	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	client := NewWSClientTransport()
	connected := make(chan error, 1)
	go func() {
		connected <- client.Connect(common.TransportConfig{Endpoint: ln.Addr().String(), RetryCount: 3})
	}()

	conn, err := ln.Accept()
	require.NoError(t, err)
	require.NoError(t, <-connected)

	peer := base.WrapConn(conn, "ws", readBufferSize)
	t.Cleanup(func() {
		client.Close()
		peer.Close()
	})
	return client, peer
}

func TestDialURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/rpclink", DialURL("localhost:8080"))
	assert.Equal(t, "ws://gw/board", DialURL("ws://gw/board"))
	assert.Equal(t, "wss://gw:443/x", DialURL("wss://gw:443/x"))
}

func TestStreamReadWrite(t *testing.T) {
	client, peer := connectPair(t, 0)
	assert.Equal(t, "ws", client.GetName())

	require.NoError(t, client.Write([]byte("hello ")))
	require.NoError(t, client.Write([]byte("world")))

	// messages arrive as one ordered byte stream
	var received []byte
	for len(received) < len("hello world") {
		data, err := peer.Read()
		require.NoError(t, err)
		received = append(received, data...)
	}
	assert.Equal(t, "hello world", string(received))

	require.NoError(t, peer.Write([]byte("pong")))
	data, err := client.Read()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(data))
}

func TestStreamSplitsLargeMessages(t *testing.T) {
	client, peer := connectPair(t, 4)

	require.NoError(t, client.Write([]byte("0123456789")))

	var received []byte
	for len(received) < 10 {
		data, err := peer.Read()
		require.NoError(t, err)
		assert.LessOrEqual(t, len(data), 4)
		received = append(received, data...)
	}
	assert.Equal(t, "0123456789", string(received))
}

func TestCloseEndsPeerStream(t *testing.T) {
	client, peer := connectPair(t, 0)

	require.NoError(t, client.Close())

	_, err := peer.Read()
	assert.True(t, errors.Is(err, common.ErrTransport), "expected transport error, got %v", err)
	assert.True(t, errors.Is(err, io.EOF), "expected clean close to read as EOF, got %v", err)
}

func TestListenerClose(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	accepted := make(chan error, 1)
	go func() {
		_, err := ln.Accept()
		accepted <- err
	}()

	require.NoError(t, ln.Close())
	select {
	case err := <-accepted:
		assert.ErrorIs(t, err, net.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Accept did not return after Close")
	}
}

func TestDialWithoutServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	err = NewWSClientTransport().Connect(common.TransportConfig{Endpoint: addr, RetryCount: 1})
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestLinkOverWebsocket(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	config := common.DefaultLinkConfig(ln.Addr().String())
	config.CallTimeout = 2 * time.Second

	controller, err := link.Open(config, NewWSClientTransport(), serializer.NewMsgpackSerializer(), nil)
	require.NoError(t, err)
	defer controller.Close()

	registry := server.NewProcedureRegistry()
	registry.MustBind("echo", func(_ context.Context, args []any) (any, error) {
		return args, nil
	})

	var conn net.Conn
	select {
	case conn = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("Peer connection was not accepted")
	}
	responder, err := link.Open(config, base.WrapConn(conn, "ws", 0), serializer.NewMsgpackSerializer(), registry)
	require.NoError(t, err)
	defer responder.Close()

	result, err := controller.Call(context.Background(), "echo", "a", true)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", true}, result)
}
