// Package transport defines the byte stream abstraction a link is built on.
// It provides the contract that all transport implementations must fulfill, so the
// link itself stays independent of the physical medium.
//
// The package focuses on:
//   - Defining one interface for both the dialing and the listening side of a link
//   - Keeping framing out of the transport: it moves bytes, the codec delimits frames
//   - Enabling multiple transport implementations (TCP, Unix sockets, websockets, serial ports)
//
// Key Components:
//
//   - IRPCTransport: Interface for transport implementations that handles connection
//     setup, reading available bytes and writing complete frames.
//
// Implementations live in the sub packages: base (medium independent core and
// connection wrapping), tcp, unix, ws and serial.
package transport
