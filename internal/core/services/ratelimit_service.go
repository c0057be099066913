package services

import (
	"context"
	"fmt"
	"time"

	"mediagate/internal/core/ports"
	"mediagate/pkg/config"
)

// Endpoint classes. Each class is an independent counter space.
const (
	ClassAuth    = "auth"
	ClassPayment = "payment"
	ClassUpload  = "upload"
	ClassAPI     = "api"
	ClassMedia   = "media"
)

// RateLimitDecision is the outcome of a fixed-window check.
type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// RateLimiter bounds request volume per caller per endpoint class using
// fixed, non-overlapping windows.
type RateLimiter interface {
	Check(ctx context.Context, class, callerID string) (*RateLimitDecision, error)
}

type rateLimiter struct {
	store   ports.RateLimitStore
	classes map[string]config.RateLimitClass
	metrics ports.MetricsRecorder // can be nil
	now     func() time.Time
}

func NewRateLimiter(store ports.RateLimitStore, cfg *config.Config, metrics ports.MetricsRecorder) RateLimiter {
	return &rateLimiter{
		store: store,
		classes: map[string]config.RateLimitClass{
			ClassAuth:    cfg.RateLimiting.Classes.Auth,
			ClassPayment: cfg.RateLimiting.Classes.Payment,
			ClassUpload:  cfg.RateLimiting.Classes.Upload,
			ClassAPI:     cfg.RateLimiting.Classes.API,
			ClassMedia:   cfg.RateLimiting.Classes.Media,
		},
		metrics: metrics,
		now:     time.Now,
	}
}

func (l *rateLimiter) Check(ctx context.Context, class, callerID string) (*RateLimitDecision, error) {
	cls, ok := l.classes[class]
	if !ok {
		return nil, fmt.Errorf("unknown rate limit class: %q", class)
	}

	key := class + ":" + callerID
	count, resetAt, err := l.store.Incr(ctx, key, cls.Window, cls.MaxRequests)
	if err != nil {
		return nil, err
	}

	decision := &RateLimitDecision{
		Allowed: count <= cls.MaxRequests,
		ResetAt: resetAt,
	}
	if remaining := cls.MaxRequests - count; remaining > 0 {
		decision.Remaining = remaining
	}
	if !decision.Allowed {
		decision.RetryAfter = resetAt.Sub(l.now())
		if decision.RetryAfter < 0 {
			decision.RetryAfter = 0
		}
		if l.metrics != nil {
			l.metrics.RateLimitRejected(class)
		}
	}
	return decision, nil
}
