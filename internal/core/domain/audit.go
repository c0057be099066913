package domain

import "time"

// Outcome classifies a gatekeeper decision.
type Outcome string

const (
	OutcomeAllowed             Outcome = "allowed"
	OutcomeBlockedClient       Outcome = "blocked_client"
	OutcomeSuspiciousRequest   Outcome = "suspicious_request"
	OutcomeInvalidToken        Outcome = "invalid_or_expired_token"
	OutcomeStreamLimitExceeded Outcome = "stream_limit_exceeded"
)

// AccessLogEntry records one media access attempt, allowed or rejected.
// Tokens are stored redacted, never in full.
type AccessLogEntry struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ContentID ContentID `json:"content_id"`
	ClientID  ClientID  `json:"client_id"`
	CallerIP  string    `json:"caller_ip"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
}
