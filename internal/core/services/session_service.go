package services

import (
	"context"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

// SessionTracker enforces the per-user concurrent playback cap. The cap
// exists to stop one paid account's credentials being streamed from many
// devices at once.
type SessionTracker interface {
	TryAdmit(ctx context.Context, userID domain.UserID, clientID domain.ClientID) (bool, error)
	Release(ctx context.Context, userID domain.UserID, clientID domain.ClientID) error
	ActiveCount(ctx context.Context, userID domain.UserID) (int, error)
}

type sessionTracker struct {
	registry      ports.SessionRegistry
	maxConcurrent int
	metrics       ports.MetricsRecorder // can be nil
}

func NewSessionTracker(registry ports.SessionRegistry, maxConcurrent int, metrics ports.MetricsRecorder) SessionTracker {
	return &sessionTracker{
		registry:      registry,
		maxConcurrent: maxConcurrent,
		metrics:       metrics,
	}
}

func (s *sessionTracker) TryAdmit(ctx context.Context, userID domain.UserID, clientID domain.ClientID) (bool, error) {
	admitted, added, err := s.registry.TryAdd(ctx, userID, clientID, s.maxConcurrent)
	if err != nil {
		return false, err
	}
	// Re-admitting a registered client is not a new session; counting it
	// would leave the gauge high after the single matching release.
	if added && s.metrics != nil {
		s.metrics.SessionAdmitted()
	}
	return admitted, nil
}

func (s *sessionTracker) Release(ctx context.Context, userID domain.UserID, clientID domain.ClientID) error {
	removed, err := s.registry.Remove(ctx, userID, clientID)
	if err != nil {
		return err
	}
	if removed && s.metrics != nil {
		s.metrics.SessionReleased()
	}
	return nil
}

func (s *sessionTracker) ActiveCount(ctx context.Context, userID domain.UserID) (int, error) {
	return s.registry.Count(ctx, userID)
}
