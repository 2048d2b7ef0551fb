// Package unix implements the Unix domain socket transport of a link, for a peer
// running on the same machine (e.g. a simulator of the device firmware).
//
// Key Components:
//
//   - clientConnector: Connects to the socket file at the endpoint path
//
//   - serverConnector: Removes a stale socket file, listens and accepts one peer.
//     The socket file is unlinked once the listener is closed.
package unix
