// Package common provides core data structures and utilities shared across
// the rpclink packages. It defines the wire message, configuration structures,
// the error taxonomy and the logging setup used by the other packages.
//
// The package focuses on:
//   - Message protocol definition for the point-to-point link
//   - Configuration structures for links and their transports
//   - Typed and sentinel errors used by callers to tell failure modes apart
//   - Custom logging implementation integrated with Dragonboat's logger package
//   - Conversion helpers for dynamically typed procedure arguments
//
// Key Components:
//
//   - Message: The 4-field unit [kind, id, selector, payload] exchanged over a link.
//     Includes factory methods for requests, responses, error responses and notifications.
//
//   - MessageKind: Enumeration of REQUEST (0), RESPONSE (1) and NOTIFY (2).
//
//   - LinkConfig / TransportConfig: Call deadline, frame size limits, rate limits
//     and the transport specific socket, TCP and serial settings.
//
//   - Errors: ErrTimeout, ErrTransport, ErrUnknownProcedure, ErrInvalidArguments,
//     ErrLinkClosed, RemoteProcedureError and DecodeError.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's logger
//     factory while providing consistent formatting across the application.
package common
