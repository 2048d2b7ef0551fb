package metrics

import (
	"io"
	"sync/atomic"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("metrics")

// --------------------------------------------------------------------------
// Link Counters
// --------------------------------------------------------------------------

var (
	// RequestsSent counts REQUEST frames written by Call and Send
	RequestsSent = vm.GetOrCreateCounter("rpclink_requests_sent_total")
	// ResponsesMatched counts responses that resolved a pending call
	ResponsesMatched = vm.GetOrCreateCounter("rpclink_responses_matched_total")
	// ResponsesUnmatched counts responses without a pending call (late or spurious)
	ResponsesUnmatched = vm.GetOrCreateCounter("rpclink_responses_unmatched_total")
	// CallsTimedOut counts calls whose deadline elapsed
	CallsTimedOut = vm.GetOrCreateCounter("rpclink_calls_timeout_total")
	// RemoteErrors counts responses that carried an error description
	RemoteErrors = vm.GetOrCreateCounter("rpclink_remote_errors_total")
	// DecodeErrors counts malformed frames that were skipped
	DecodeErrors = vm.GetOrCreateCounter("rpclink_decode_errors_total")
	// RequestsDispatched counts inbound requests handed to a local procedure
	RequestsDispatched = vm.GetOrCreateCounter("rpclink_requests_dispatched_total")
	// DispatchErrors counts inbound requests answered with an error
	DispatchErrors = vm.GetOrCreateCounter("rpclink_dispatch_errors_total")
	// Notifications counts inbound NOTIFY frames
	Notifications = vm.GetOrCreateCounter("rpclink_notifications_total")

	// CallDuration tracks the time between sending a request and receiving its response
	CallDuration = vm.GetOrCreateHistogram("rpclink_call_duration_seconds")
)

// pendingCalls is the number of calls waiting for a response, summed over all links
var pendingCalls atomic.Int64

func init() {
	vm.GetOrCreateGauge("rpclink_pending_calls", func() float64 {
		return float64(pendingCalls.Load())
	})
}

// AddPending adjusts the pending calls gauge by delta
func AddPending(delta int64) {
	pendingCalls.Add(delta)
}

// PendingCalls returns the current value of the pending calls gauge
func PendingCalls() int64 {
	return pendingCalls.Load()
}

// ObserveCall records the duration of a call that started at start
func ObserveCall(start time.Time) {
	CallDuration.UpdateDuration(start)
}

// WriteText writes all link metrics in the Prometheus text format to w
func WriteText(w io.Writer) {
	vm.WritePrometheus(w, false)
}
