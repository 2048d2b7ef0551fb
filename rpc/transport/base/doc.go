// Package base provides the foundation for the stream transports of a link,
// implementing the medium independent part of connection handling. It is extended
// with protocol-specific connectors by the tcp, unix, ws and serial packages.
//
// The package focuses on:
//   - Dialing and listening transports behind the transport.IRPCTransport interface
//   - Connection setup with retries and exponential backoff
//   - Writing complete frames without interleaving concurrent writers
//   - Wrapping already open streams for tests and inherited connections
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different media. Client connectors
//     return any io.ReadWriteCloser, so serial ports fit in next to sockets.
//
//   - clientTransport: Dials the peer. Connect retries RetryCount times with exponential
//     backoff and a random jitter of +-10%, then applies the connector's upgrades.
//
//   - serverTransport: Listens on the endpoint, accepts exactly one peer and closes the
//     listener afterwards. Close unblocks a pending accept.
//
//   - WrapConn: Adapts an established stream (e.g. net.Pipe) to the transport interface.
//
// Reads return whatever one read of the underlying stream yielded, framing is done by the
// link. Writes loop over short writes and use WriteTimeout as a write deadline if the
// stream is a net.Conn.
//
// Thread Safety:
//
//	Write and Close may be called from any goroutine. Read must only be called from
//	one goroutine at a time, the returned slice is reused by the next Read.
package base
