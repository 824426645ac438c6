package main

import (
	"errors"
	"net/http"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrAlreadyInSession = errors.New("already in an unfinished session")
	ErrForbidden        = errors.New("only the session admin can do this")
	ErrInvalidState     = errors.New("session is not in the required state")
	ErrNotAParticipant  = errors.New("not a participant of this session")
)

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotAParticipant):
		return http.StatusForbidden
	case errors.Is(err, ErrSessionFull), errors.Is(err, ErrAlreadyInSession), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
