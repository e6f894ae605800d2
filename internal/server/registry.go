package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/wallstreet101/internal/session"
)

var errSessionNotFound = errors.New("session not found")

// entry serializes interactions on one session. closed is set, under mu, once
// the session has been ended and dropped from the registry.
type entry struct {
	mu     sync.Mutex
	s      *session.Session
	closed bool
}

// lock takes the entry for one interaction. It fails if the session was
// ended while the caller waited.
func (e *entry) lock() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errSessionNotFound
	}
	return nil
}

// registry maps session IDs to live sessions.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*entry)}
}

func (r *registry) add(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = &entry{s: s}
}

func (r *registry) get(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return e, nil
}

// acquire looks up id and locks it. Callers must unlock e.mu.
func (r *registry) acquire(id string) (*entry, error) {
	e, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if err := e.lock(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *registry) remove(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	delete(r.sessions, id)
	return e, nil
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// sweep ends and removes sessions idle since before cutoff. Sessions busy
// with an interaction are skipped.
func (r *registry) sweep(ctx context.Context, cutoff time.Time) []string {
	r.mu.Lock()
	var stale []*entry
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.s.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			e.closed = true
			stale = append(stale, e)
			continue
		}
		e.mu.Unlock()
	}
	r.mu.Unlock()

	ids := make([]string, 0, len(stale))
	for _, e := range stale {
		e.s.End(ctx)
		ids = append(ids, e.s.ID())
		e.mu.Unlock()
	}
	return ids
}
