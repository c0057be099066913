package services

import (
	"sync"
	"time"

	"mediagate/internal/core/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessLog is the bounded, append-only audit record of gatekeeper
// decisions. Oldest entries are evicted first. Logging is diagnostic, not
// transactional; Record never fails.
type AccessLog interface {
	Record(entry domain.AccessLogEntry)
	Recent(n int) []domain.AccessLogEntry
	Len() int
}

type accessLog struct {
	mu       sync.Mutex
	entries  []domain.AccessLogEntry
	start    int
	count    int
	capacity int
	logger   *zap.SugaredLogger // can be nil
	now      func() time.Time
}

func NewAccessLog(capacity int, logger *zap.SugaredLogger) AccessLog {
	if capacity <= 0 {
		capacity = 1000
	}
	return &accessLog{
		entries:  make([]domain.AccessLogEntry, capacity),
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// RedactToken keeps only a short prefix of a token so audit entries are
// useful without being replayable.
func RedactToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}

func (l *accessLog) Record(entry domain.AccessLogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	entry.Token = RedactToken(entry.Token)

	l.mu.Lock()
	if l.count < l.capacity {
		l.entries[(l.start+l.count)%l.capacity] = entry
		l.count++
	} else {
		// Full: overwrite the oldest slot.
		l.entries[l.start] = entry
		l.start = (l.start + 1) % l.capacity
	}
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Debugw("media access attempt",
			"outcome", entry.Outcome,
			"content_id", entry.ContentID,
			"client_id", entry.ClientID,
			"caller_ip", entry.CallerIP,
			"user_agent", entry.UserAgent,
			"token", entry.Token,
		)
	}
}

// Recent returns up to n entries, newest first.
func (l *accessLog) Recent(n int) []domain.AccessLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > l.count {
		n = l.count
	}
	out := make([]domain.AccessLogEntry, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.start + l.count - 1 - i + l.capacity) % l.capacity
		out = append(out, l.entries[idx])
	}
	return out
}

func (l *accessLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
