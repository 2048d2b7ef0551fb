// Package tcp implements the TCP socket transport of a link. It provides concrete
// implementations of the base package's connector interfaces.
//
// Key Components:
//
//   - clientConnector: Dials the peer and applies the TCP options
//
//   - serverConnector: Listens on the endpoint, base accepts exactly one peer
//
// Both sides apply the same options from common.TransportConfig: TCP_NODELAY (on by
// default since frames are small), keep-alive period, linger and the kernel buffer sizes.
package tcp
