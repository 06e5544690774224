package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/pkg/metrics"
)

// Outcomes of a dispatched request, used as the error_type label.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"  // handler refused the input, e.g. a missing name
	OutcomeNotFound = "not_found" // fallback route answered
	OutcomeFault    = "fault"     // failure boundary answered
)

// classify maps a dispatcher response to an outcome and its severity. Only
// the failure boundary produces 5xx responses, so every 5xx is a fault.
func classify(resp dispatch.Response) (outcome, severity string) {
	switch {
	case resp.Status >= http.StatusInternalServerError:
		return OutcomeFault, "high"
	case resp.Status == http.StatusNotFound:
		return OutcomeNotFound, "low"
	case resp.Status >= http.StatusBadRequest:
		return OutcomeRejected, "medium"
	default:
		return OutcomeOK, ""
	}
}

// observe records request count and latency per variant, plus the error
// series for anything that is not OutcomeOK.
func observe(variant, method string, resp dispatch.Response, elapsed time.Duration) {
	durationMs := float64(elapsed.Microseconds()) / 1000
	status := strconv.Itoa(resp.Status)

	metrics.RecordHTTPRequest(variant, method, status)
	metrics.RecordHTTPRequestDuration(variant, method, status, durationMs)

	outcome, severity := classify(resp)
	if outcome == OutcomeOK {
		return
	}
	metrics.RecordErrorByEndpoint(variant, method, outcome)
	metrics.RecordErrorByType(outcome, severity)
	metrics.RecordErrorLatency(variant, outcome, durationMs)
}
