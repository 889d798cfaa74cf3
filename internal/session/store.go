package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptlens/promptlens/internal/preview"
)

// Store holds all live sessions in memory. Nothing is persisted; an
// abandoned session is reclaimed by the sweeper so a long-running server
// does not accumulate image bytes forever.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	previews *preview.Registry
	logger   *slog.Logger
}

func NewStore(previews *preview.Registry, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		previews: previews,
		logger:   logger,
	}
}

// Create registers a fresh idle session.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.previews, st.logger)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete discards the session and releases its display handle.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Reset()
	}
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle longer than maxIdle and returns how many.
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Reset()
		st.logger.Info("session swept", "session_id", s.ID)
	}
	return len(expired)
}

// RunSweeper sweeps on the given interval until ctx is cancelled.
func (st *Store) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(maxIdle)
		}
	}
}
