// Package metrics holds the counters of the link engine and serves them over http.
// The counters are registered with VictoriaMetrics/metrics on package load and shared
// by all links of the process.
//
// Key Components:
//
//   - Counters: requests sent, responses matched and unmatched, timeouts, remote errors,
//     decode errors, dispatched requests, dispatch errors and notifications.
//
//   - CallDuration: histogram of the round trip time of blocking calls.
//
//   - rpclink_pending_calls: gauge of calls waiting for their response, fed by AddPending.
//
//   - ListenAndServe: http server exposing /metrics in the Prometheus text format and the
//     pprof endpoints under /debug/pprof/.
package metrics
