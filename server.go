package main

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"typing-battle/code"
)

// Registry owns every live session, keyed by code, plus an index from
// participant to the session they are in so a player cannot create a
// second battle while their first is unfinished.
type Registry struct {
	sessions      map[string]*Session
	byParticipant map[string]string
	clock         clockwork.Clock
	ttl           time.Duration
	lock          sync.RWMutex
}

func NewRegistry(clock clockwork.Clock, ttl time.Duration) *Registry {
	return &Registry{
		sessions:      make(map[string]*Session),
		byParticipant: make(map[string]string),
		clock:         clock,
		ttl:           ttl,
	}
}

// CreateSession generates a collision-free code and registers a new
// session with the caller as admin.
func (r *Registry) CreateSession(participantID string) (*Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if existingCode, ok := r.byParticipant[participantID]; ok {
		if existing, live := r.sessions[existingCode]; live && existing.State() != StateFinished {
			return nil, ErrAlreadyInSession
		}
	}
	var sessionCode string
	for {
		sessionCode = code.GenerateRandom()
		if _, exists := r.sessions[sessionCode]; !exists {
			break
		}
	}
	session := NewSession(sessionCode, participantID, r.clock)
	r.sessions[sessionCode] = session
	r.byParticipant[participantID] = sessionCode
	return session, nil
}

// JoinSession adds a participant to an existing session and returns
// the new participant count.
func (r *Registry) JoinSession(sessionCode, participantID string) (int, error) {
	session, err := r.GetSession(sessionCode)
	if err != nil {
		return 0, err
	}
	count, err := session.Join(participantID)
	if err != nil {
		return 0, err
	}
	r.lock.Lock()
	r.byParticipant[participantID] = sessionCode
	r.lock.Unlock()
	return count, nil
}

func (r *Registry) GetSession(sessionCode string) (*Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	session, exists := r.sessions[sessionCode]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// RemoveSession drops a session and frees its participants. Not on the
// client-facing mutation surface; used by the reaper and by tests.
func (r *Registry) RemoveSession(sessionCode string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.removeLocked(sessionCode)
}

func (r *Registry) removeLocked(sessionCode string) {
	session, exists := r.sessions[sessionCode]
	if !exists {
		return
	}
	for _, participantID := range session.Participants() {
		if r.byParticipant[participantID] == sessionCode {
			delete(r.byParticipant, participantID)
		}
	}
	delete(r.sessions, sessionCode)
}

// ReapIdle removes every session untouched for longer than the TTL
// and returns how many were removed. Abandoned battles, including
// ones parked forever in countdown or active by a vanished client,
// leave the registry this way.
func (r *Registry) ReapIdle() int {
	cutoff := r.clock.Now().Add(-r.ttl)
	r.lock.Lock()
	defer r.lock.Unlock()
	reaped := 0
	for sessionCode, session := range r.sessions {
		if session.IdleSince().Before(cutoff) {
			r.removeLocked(sessionCode)
			reaped++
		}
	}
	return reaped
}

// RunReaper sweeps for idle sessions on the given interval until the
// context is cancelled. Meant to run in its own goroutine.
func (r *Registry) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if reaped := r.ReapIdle(); reaped > 0 {
				LogReapedSessions(reaped)
			}
		}
	}
}
