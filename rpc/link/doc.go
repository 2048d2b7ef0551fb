// Package link implements the RPC correlation engine of rpclink. A Link sits on one
// point-to-point transport and lets both peers invoke procedures of the other side:
// calls issued locally are reunited with their responses, requests of the peer are
// dispatched to a procedure registry.
//
// The package focuses on:
//   - Decoding a continuous byte stream into messages, across read boundaries
//   - Correlating responses with the calls waiting for them by message id
//   - Serving the peer's requests without ever blocking the read side
//   - Failing fast: a broken transport fails every waiting call
//
// Key Components:
//
//   - Link: Created by Open. Call blocks for the response, Send returns once the request
//     is written and Notify sends a one-way message. Wait, Err and Done report the end of
//     the link to the host.
//
//   - FrameReader: Yields the messages of one transport read as an iter.Seq2. Incomplete
//     frames are retained for the next read (up to MaxFrameSize), malformed frames are
//     reported as *common.DecodeError and skipped.
//
//   - pendingTable: Concurrent map of waiting calls. Response, timeout and shutdown
//     race for an entry through LoadAndDelete, exactly one of them wins.
//
//   - dispatchLoop: Goroutine owning the read side. RESPONSE frames resolve calls,
//     REQUEST frames run a procedure and queue the response, NOTIFY frames run a
//     procedure if one is bound.
//
//   - writeLoop: Single goroutine writing queued frames (lib/queue.MPSC) to the transport.
//
// Message ids are drawn from a per-link counter starting at 0. Call and Send both consume
// an id, NOTIFY messages carry id 0.
//
// Error Handling:
//
//	Decode errors are local and never end the link. Procedure failures, unknown procedures,
//	panics and unencodable results are answered with an error response. Read and write
//	errors of the transport are fatal: the link shuts down and Wait returns the cause.
//
// Thread Safety:
//
//	Call, Send, Notify and Close may be used from any goroutine. Procedures of the registry
//	run on the dispatch goroutine, one at a time, and may call back into the link with Send
//	or Notify. A blocking Call from within a procedure waits for a response that the
//	dispatch loop can only read after the procedure returned, so it times out.
package link
