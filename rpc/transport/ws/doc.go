// Package ws implements a link transport over websockets using gorilla/websocket.
// It is meant for peers behind http infrastructure, e.g. a board bridged by a gateway.
//
// Every written frame is sent as one binary message. The reading side concatenates the
// messages into a byte stream, so the frame reader does not depend on message boundaries.
//
// The server side serves the handshake on Path and accepts a single peer like the other
// listening transports. Clients accept either host:port or a complete ws:// (wss://) url.
package ws
