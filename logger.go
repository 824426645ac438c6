package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

type SessionLogger struct {
	zerolog zerolog.Logger
}

func GetSessionLogger(sessionCode string, participantID string) SessionLogger {
	return SessionLogger{log.With().Str("session-code", sessionCode).Str("participant-id", participantID).Logger()}
}

func (l SessionLogger) JoinedSession(count int) {
	l.zerolog.Info().Int("participant-count", count).Msg("Joined session")
}

func (l SessionLogger) CountdownStarted() {
	l.zerolog.Info().Msg("Countdown started")
}

func (l SessionLogger) BattleStarted() {
	l.zerolog.Info().Msg("Battle started")
}

func (l SessionLogger) ResultSubmitted(wpm float64) {
	l.zerolog.Info().Float64("wpm", wpm).Msg("Result submitted")
}

func (l SessionLogger) BattleFinished(winnerID string) {
	l.zerolog.Info().Str("winner-id", winnerID).Msg("Battle finished")
}

func (l SessionLogger) SessionReset() {
	l.zerolog.Info().Msg("Session reset")
}

func (l SessionLogger) ResumedSeat() {
	l.zerolog.Info().Msg("Resumed seat")
}

func LogCreatedSession(sessionCode string) {
	log.Info().Str("session-code", sessionCode).Msg("Created")
}

func LogReapedSessions(count int) {
	log.Info().Int("count", count).Msg("Reaped idle sessions")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}
