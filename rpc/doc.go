// Package rpc provides point-to-point remote procedure calls between a controller and
// a peer connected by a byte stream, typically a microcontroller on a serial port.
// Either side can call procedures the other side has bound, over the same link.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message tuple, configuration structures, errors, argument
//     conversion and logging.
//
//   - serializer: Message codecs (msgpack for the wire, json for debugging) that
//     decode one frame at a time from a buffer and report how much they consumed.
//
//   - transport: Byte stream abstractions with pluggable implementations
//     (TCP, Unix sockets, websockets, serial ports).
//
//   - link: The correlation engine. A link runs the dispatch loop that splits the
//     incoming stream into frames, hands responses to the calls waiting for them and
//     executes requests of the peer, and it issues calls of its own.
//
//   - server: The procedure registry the dispatch loop looks requests up in,
//     middlewares and the handle table for peer-side objects.
//
//   - client: Remote object proxies that turn class and method names into calls.
//
//   - metrics: Counters of the engine and their http exposition.
package rpc
