package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsEndpoint(t *testing.T) {
	RequestsSent.Inc()
	AddPending(2)
	defer AddPending(-2)
	ObserveCall(time.Now().Add(-10 * time.Millisecond))

	rec := httptest.NewRecorder()
	NewHandler(true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, name := range []string{
		"rpclink_requests_sent_total",
		"rpclink_responses_unmatched_total",
		"rpclink_pending_calls",
		"rpclink_call_duration_seconds",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Metric %s missing in output", name)
		}
	}
}

func TestPendingGauge(t *testing.T) {
	before := PendingCalls()
	AddPending(3)
	AddPending(-1)
	if got := PendingCalls() - before; got != 2 {
		t.Errorf("Expected gauge to grow by 2, got %d", got)
	}
	AddPending(-2)
}

func TestWriteText(t *testing.T) {
	DecodeErrors.Inc()

	var sb strings.Builder
	WriteText(&sb)
	if !strings.Contains(sb.String(), "rpclink_decode_errors_total") {
		t.Errorf("Expected decode error counter in output:\n%s", sb.String())
	}
}
