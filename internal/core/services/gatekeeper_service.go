package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"go.uber.org/zap"
)

// AccessRequest carries everything the gatekeeper inspects about an inbound
// media request.
type AccessRequest struct {
	Token     string
	ContentID domain.ContentID
	ClientID  domain.ClientID
	UserAgent string
	CallerIP  string
	Headers   http.Header
}

// AccessDecision is the gatekeeper's verdict. Headers and Release are set
// only when the request was admitted. Release frees the concurrency slot and
// is safe to call more than once; it must be invoked on every termination
// path of the underlying transport.
type AccessDecision struct {
	Outcome   domain.Outcome
	UserID    domain.UserID
	Watermark string
	Headers   map[string]string
	Release   func()
}

// Gatekeeper runs the ordered admission pipeline for media requests:
// user-agent blocklist, header sanity, token validation, stream admission.
// Checks are ordered cheapest first and short-circuit on the first failure.
type Gatekeeper interface {
	Authorize(ctx context.Context, req *AccessRequest) (*AccessDecision, error)
}

type gatekeeper struct {
	blockedAgents   []string
	headerValidator ports.HeaderValidator
	tokens          TokenService
	sessions        SessionTracker
	accessLog       AccessLog
	metrics         ports.MetricsRecorder // can be nil
	logger          *zap.SugaredLogger
}

func NewGatekeeper(
	blockedAgents []string,
	headerValidator ports.HeaderValidator,
	tokens TokenService,
	sessions SessionTracker,
	accessLog AccessLog,
	metrics ports.MetricsRecorder,
	logger *zap.SugaredLogger,
) Gatekeeper {
	lowered := make([]string, 0, len(blockedAgents))
	for _, a := range blockedAgents {
		lowered = append(lowered, strings.ToLower(a))
	}
	return &gatekeeper{
		blockedAgents:   lowered,
		headerValidator: headerValidator,
		tokens:          tokens,
		sessions:        sessions,
		accessLog:       accessLog,
		metrics:         metrics,
		logger:          logger,
	}
}

// ProtectiveHeaders is the fixed response header set attached to admitted
// media requests: no caching, no sniffing, no framing, inline only, and
// proxy buffering disabled.
func ProtectiveHeaders() map[string]string {
	return map[string]string{
		"Cache-Control":          "no-cache, no-store, must-revalidate",
		"Pragma":                 "no-cache",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Content-Disposition":    "inline",
		"X-Accel-Buffering":      "no",
	}
}

func (g *gatekeeper) Authorize(ctx context.Context, req *AccessRequest) (*AccessDecision, error) {
	// 1. User-agent blocklist.
	if g.isBlockedAgent(req.UserAgent) {
		return g.reject(req, domain.OutcomeBlockedClient), nil
	}

	// 2. Header sanity (external collaborator's verdict).
	if g.headerValidator != nil {
		if err := g.headerValidator.Validate(req.Headers); err != nil {
			return g.reject(req, domain.OutcomeSuspiciousRequest), nil
		}
	}

	// 3. Token validation for the view capability, including the
	// token-to-content binding.
	claims, err := g.tokens.Validate(req.Token, domain.PermissionView)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken) || errors.Is(err, ErrInsufficientPermission) {
			return g.reject(req, domain.OutcomeInvalidToken), nil
		}
		return nil, err
	}
	if claims.ContentID != req.ContentID {
		return g.reject(req, domain.OutcomeInvalidToken), nil
	}
	userID := claims.UserID

	// 4. Stream admission.
	admitted, err := g.sessions.TryAdmit(ctx, userID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !admitted {
		return g.reject(req, domain.OutcomeStreamLimitExceeded), nil
	}

	g.record(req, domain.OutcomeAllowed)

	var once sync.Once
	release := func() {
		once.Do(func() {
			// Release must succeed independently of the request context;
			// the transport may already be gone when it fires.
			if err := g.sessions.Release(context.Background(), userID, req.ClientID); err != nil && g.logger != nil {
				g.logger.Warnw("failed to release stream session",
					"user_id", userID,
					"client_id", req.ClientID,
					"error", err,
				)
			}
		})
	}

	return &AccessDecision{
		Outcome:   domain.OutcomeAllowed,
		UserID:    userID,
		Watermark: claims.Watermark,
		Headers:   ProtectiveHeaders(),
		Release:   release,
	}, nil
}

func (g *gatekeeper) isBlockedAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, blocked := range g.blockedAgents {
		if strings.Contains(ua, blocked) {
			return true
		}
	}
	return false
}

func (g *gatekeeper) reject(req *AccessRequest, outcome domain.Outcome) *AccessDecision {
	g.record(req, outcome)
	return &AccessDecision{Outcome: outcome}
}

// record is best-effort: an audit failure never fails the pipeline.
func (g *gatekeeper) record(req *AccessRequest, outcome domain.Outcome) {
	if g.metrics != nil {
		g.metrics.GateDecision(outcome)
	}
	if g.accessLog == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && g.logger != nil {
			g.logger.Warnw("access log record failed", "panic", r)
		}
	}()
	g.accessLog.Record(domain.AccessLogEntry{
		Token:     req.Token,
		ContentID: req.ContentID,
		ClientID:  req.ClientID,
		CallerIP:  req.CallerIP,
		UserAgent: req.UserAgent,
		Outcome:   outcome,
	})
}
