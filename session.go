package main

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type SessionState string

const (
	StateWaiting   SessionState = "waiting"
	StateCountdown SessionState = "countdown"
	StateActive    SessionState = "active"
	StateFinished  SessionState = "finished"
)

const maxParticipants = 2

type ParticipantResult struct {
	WPM       float64 `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
	TimeTaken float64 `json:"timeTaken"`

	// order of first submission, for the last-resort tie-break
	seq int
}

// Session is one battle: up to two participants, the first of whom is
// admin, and one race cycle's state. All fields are guarded by lock;
// every exported method takes it, so callers never lock themselves.
type Session struct {
	code         string
	participants []string
	adminID      string
	state        SessionState
	paragraph    string
	countdown    *Countdown
	results      map[string]ParticipantResult
	nextSeq      int
	winnerID     string
	winnerScore  float64
	raceStarted  time.Time
	lastActivity time.Time
	clock        clockwork.Clock
	lock         sync.RWMutex
}

func NewSession(code, adminID string, clock clockwork.Clock) *Session {
	return &Session{
		code:         code,
		participants: []string{adminID},
		adminID:      adminID,
		state:        StateWaiting,
		results:      make(map[string]ParticipantResult),
		lastActivity: clock.Now(),
		clock:        clock,
	}
}

func (s *Session) Code() string {
	return s.code
}

func (s *Session) State() SessionState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

func (s *Session) AdminID() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.adminID
}

func (s *Session) HasParticipant(participantID string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.isParticipant(participantID)
}

func (s *Session) IdleSince() time.Time {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.lastActivity
}

func (s *Session) Participants() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]string(nil), s.participants...)
}

func (s *Session) isParticipant(participantID string) bool {
	for _, p := range s.participants {
		if p == participantID {
			return true
		}
	}
	return false
}

func (s *Session) touch() {
	s.lastActivity = s.clock.Now()
}

// Join adds a participant and returns the new count. Joining again
// with an identifier that is already present is a no-op success, since
// polling clients retry freely.
func (s *Session) Join(participantID string) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.touch()
	if s.isParticipant(participantID) {
		return len(s.participants), nil
	}
	if len(s.participants) >= maxParticipants {
		return 0, ErrSessionFull
	}
	s.participants = append(s.participants, participantID)
	return len(s.participants), nil
}

// Start moves the session from waiting to countdown, fixing the race
// paragraph for this cycle. Admin only, and only with a full session.
// A retried start during the countdown returns the same paragraph.
func (s *Session) Start(callerID, paragraph string, countdownDuration time.Duration) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.touch()
	if callerID != s.adminID {
		return "", ErrForbidden
	}
	if s.state == StateCountdown {
		return s.paragraph, nil
	}
	if s.state != StateWaiting || len(s.participants) != maxParticipants {
		return "", ErrInvalidState
	}
	s.paragraph = paragraph
	s.countdown = NewCountdown(s.clock.Now(), countdownDuration)
	s.state = StateCountdown
	return s.paragraph, nil
}

// ConfirmCountdown moves the session from countdown to active. The
// underlying latch makes the transition fire exactly once; a retried
// confirm on an already active session is a no-op success.
func (s *Session) ConfirmCountdown(callerID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.touch()
	if callerID != s.adminID {
		return ErrForbidden
	}
	switch s.state {
	case StateCountdown:
		if s.countdown.Confirm() {
			s.state = StateActive
			s.raceStarted = s.clock.Now()
		}
		return nil
	case StateActive:
		return nil
	default:
		return ErrInvalidState
	}
}

// SubmitOutcome is what a participant learns from submitting: either
// how many results are still missing, or the final verdict.
type SubmitOutcome struct {
	Finished    bool
	WaitingFor  int
	Results     map[string]ParticipantResult
	WinnerID    string
	WinnerScore float64
}

// SubmitResult records one participant's metrics. Resubmission
// overwrites (last write wins) and never double-counts toward
// completion. When every participant has a result the session
// finishes and the winner is fixed.
func (s *Session) SubmitResult(callerID string, wpm, accuracy, timeTaken float64) (SubmitOutcome, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.touch()
	if !s.isParticipant(callerID) {
		return SubmitOutcome{}, ErrNotAParticipant
	}
	if s.state == StateFinished {
		// Retried final submit: the caller already has a result on
		// file, so hand back the verdict instead of an error.
		if _, ok := s.results[callerID]; ok {
			return s.finishedOutcome(), nil
		}
		return SubmitOutcome{}, ErrInvalidState
	}
	if s.state != StateActive {
		return SubmitOutcome{}, ErrInvalidState
	}

	result := ParticipantResult{WPM: wpm, Accuracy: accuracy, TimeTaken: timeTaken, seq: s.nextSeq}
	if previous, ok := s.results[callerID]; ok {
		result.seq = previous.seq
	} else {
		s.nextSeq++
	}
	s.results[callerID] = result

	if len(s.results) < len(s.participants) {
		return SubmitOutcome{WaitingFor: len(s.participants) - len(s.results)}, nil
	}

	s.state = StateFinished
	s.winnerID, s.winnerScore = s.computeWinner()
	return s.finishedOutcome(), nil
}

// computeWinner: higher WPM wins; on a tie, higher accuracy; on a full
// tie, whoever submitted first.
func (s *Session) computeWinner() (string, float64) {
	winnerID := ""
	var winner ParticipantResult
	for _, participantID := range s.participants {
		result, ok := s.results[participantID]
		if !ok {
			continue
		}
		if winnerID == "" || beats(result, winner) {
			winnerID = participantID
			winner = result
		}
	}
	return winnerID, winner.WPM
}

func beats(a, b ParticipantResult) bool {
	if a.WPM != b.WPM {
		return a.WPM > b.WPM
	}
	if a.Accuracy != b.Accuracy {
		return a.Accuracy > b.Accuracy
	}
	return a.seq < b.seq
}

func (s *Session) finishedOutcome() SubmitOutcome {
	return SubmitOutcome{
		Finished:    true,
		Results:     s.resultsCopy(),
		WinnerID:    s.winnerID,
		WinnerScore: s.winnerScore,
	}
}

func (s *Session) resultsCopy() map[string]ParticipantResult {
	results := make(map[string]ParticipantResult, len(s.results))
	for participantID, result := range s.results {
		results[participantID] = result
	}
	return results
}

// Reset returns a finished session to waiting for a fresh race cycle,
// keeping the participants and admin. Admin only. Resetting a session
// that is already waiting is a no-op success.
func (s *Session) Reset(callerID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.touch()
	if callerID != s.adminID {
		return ErrForbidden
	}
	switch s.state {
	case StateWaiting:
		return nil
	case StateFinished:
		s.paragraph = ""
		s.countdown = nil
		s.results = make(map[string]ParticipantResult)
		s.nextSeq = 0
		s.winnerID = ""
		s.winnerScore = 0
		s.raceStarted = time.Time{}
		s.state = StateWaiting
		return nil
	default:
		return ErrInvalidState
	}
}

// SessionView is the externally visible projection served to pollers.
type SessionView struct {
	Status           SessionState
	Participants     []string
	Paragraph        string
	CountdownSeconds float64
	ShowCountdown    bool
	Results          map[string]ParticipantResult
	WinnerID         string
	WinnerScore      float64
}

// View builds the poll response for one participant. Observing the
// countdown arms that participant's one-shot latch, so ShowCountdown
// is true on exactly the first countdown poll of each race cycle.
func (s *Session) View(participantID string) SessionView {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.touch()
	view := SessionView{
		Status:       s.state,
		Participants: append([]string(nil), s.participants...),
	}
	if s.state != StateWaiting {
		view.Paragraph = s.paragraph
	}
	if s.state == StateCountdown {
		view.CountdownSeconds = s.countdown.Remaining(s.clock.Now())
		if s.isParticipant(participantID) {
			view.ShowCountdown = s.countdown.MarkSeen(participantID)
		}
	}
	if s.state == StateFinished {
		view.Results = s.resultsCopy()
		view.WinnerID = s.winnerID
		view.WinnerScore = s.winnerScore
	}
	return view
}
