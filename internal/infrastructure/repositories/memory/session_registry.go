package memory

import (
	"context"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

// MemorySessionRegistry tracks active playback clients per user in process
// memory. The check-and-insert in TryAdd runs under one lock, so the
// concurrency cap holds under any interleaving.
type MemorySessionRegistry struct {
	sessions map[domain.UserID]map[domain.ClientID]struct{}
	mu       sync.Mutex
}

func NewMemorySessionRegistry() ports.SessionRegistry {
	return &MemorySessionRegistry{
		sessions: make(map[domain.UserID]map[domain.ClientID]struct{}),
	}
}

func (r *MemorySessionRegistry) TryAdd(ctx context.Context, userID domain.UserID, clientID domain.ClientID, max int) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, exists := r.sessions[userID]
	if !exists {
		clients = make(map[domain.ClientID]struct{})
		r.sessions[userID] = clients
	}

	// Re-admitting an already registered client is not a new session.
	if _, ok := clients[clientID]; ok {
		return true, false, nil
	}

	if len(clients) >= max {
		if !exists {
			delete(r.sessions, userID)
		}
		return false, false, nil
	}

	clients[clientID] = struct{}{}
	return true, true, nil
}

func (r *MemorySessionRegistry) Remove(ctx context.Context, userID domain.UserID, clientID domain.ClientID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, exists := r.sessions[userID]
	if !exists {
		return false, nil
	}

	if _, ok := clients[clientID]; !ok {
		return false, nil
	}

	delete(clients, clientID)
	// Drop the per-user entry once empty so idle users don't accumulate.
	if len(clients) == 0 {
		delete(r.sessions, userID)
	}
	return true, nil
}

func (r *MemorySessionRegistry) Count(ctx context.Context, userID domain.UserID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions[userID]), nil
}
