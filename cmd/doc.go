// Package cmd implements the command-line interface of rpclink. It provides commands
// for calling procedures on a peer, using remote objects and running a demo peer.
//
// The package is organized into several subpackages:
//
//   - call: Commands for single calls (call, send, notify)
//   - object: Commands for remote objects (new, invoke, static)
//   - peer: Command that serves demo procedures to a controller
//   - perf: Throughput and latency benchmark for a link
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See rpclink -help for a list of all commands.
package cmd
