package ports

import "mediagate/internal/core/domain"

// MetricsRecorder receives counters from the core decision points. The
// prometheus collector implements it; tests pass a no-op.
type MetricsRecorder interface {
	TokenIssued()
	GateDecision(outcome domain.Outcome)
	SessionAdmitted()
	SessionReleased()
	RateLimitRejected(class string)
}
