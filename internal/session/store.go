package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"running-page/internal/library"
	"running-page/internal/metrics"
	"running-page/internal/runtable"
)

// Store tracks live sessions by ID
type Store struct {
	lib    *library.Library
	opts   runtable.Options
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates a session store. Sessions idle for longer than ttl are
// removed by Evict.
func NewStore(lib *library.Library, opts runtable.Options, ttl time.Duration) *Store {
	return &Store{
		lib:      lib,
		opts:     opts,
		ttl:      ttl,
		logger:   slog.Default(),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Get returns the session with the given ID, or a new one when the ID is
// unknown or malformed. created reports whether a new session was made.
func (st *Store) Get(rawID string) (s *Session, created bool) {
	now := st.now()

	if id, err := uuid.Parse(rawID); err == nil {
		st.mu.Lock()
		existing, ok := st.sessions[id]
		st.mu.Unlock()
		if ok {
			existing.touch(now)
			return existing, false
		}
	}

	s = newSession(uuid.New(), st.lib, st.opts, now)

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	st.logger.Debug("Session created", "session", s.ID, "sessions", n)
	return s, true
}

// Evict drops sessions idle for longer than the TTL and returns how many
// were removed
func (st *Store) Evict() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	evicted := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if evicted > 0 {
		metrics.SessionsEvictedTotal.Add(float64(evicted))
		st.logger.Info("Evicted idle sessions", "evicted", evicted, "remaining", n)
	}
	metrics.ActiveSessions.Set(float64(n))
	return evicted
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
