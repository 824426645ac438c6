package main

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 30 * time.Minute

func finishSession(t *testing.T, session *Session) {
	t.Helper()
	_, err := session.SubmitResult(session.Participants()[0], 60, 98, 20)
	require.NoError(t, err)
	_, err = session.SubmitResult(session.Participants()[1], 45, 100, 25)
	require.NoError(t, err)
}

func activateSession(t *testing.T, session *Session) {
	t.Helper()
	_, err := session.Start(session.AdminID(), "race text", testCountdown)
	require.NoError(t, err)
	require.NoError(t, session.ConfirmCountdown(session.AdminID()))
}

func TestRegistryCreateSession(t *testing.T) {
	t.Run("creates a session with the caller as admin", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		session, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		assert.Len(t, session.Code(), 6)
		assert.Equal(t, "playerA", session.AdminID())
		assert.Equal(t, StateWaiting, session.State())

		found, err := registry.GetSession(session.Code())
		require.NoError(t, err)
		assert.Same(t, session, found)
	})

	t.Run("codes do not collide across sessions", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			session, err := registry.CreateSession(string(rune('a'+i%26)) + string(rune('A'+i/26)))
			require.NoError(t, err)
			assert.False(t, seen[session.Code()], "duplicate code %v", session.Code())
			seen[session.Code()] = true
		}
	})

	t.Run("rejects a creator who is already racing", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		_, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		_, err = registry.CreateSession("playerA")
		assert.ErrorIs(t, err, ErrAlreadyInSession)
	})

	t.Run("rejects a joined participant creating a second session", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		session, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		_, err = registry.JoinSession(session.Code(), "playerB")
		require.NoError(t, err)
		_, err = registry.CreateSession("playerB")
		assert.ErrorIs(t, err, ErrAlreadyInSession)
	})

	t.Run("allows creating again once the battle finished", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		session, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		_, err = registry.JoinSession(session.Code(), "playerB")
		require.NoError(t, err)
		activateSession(t, session)
		finishSession(t, session)

		next, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		assert.NotEqual(t, session.Code(), next.Code())
	})
}

func TestRegistryJoinSession(t *testing.T) {
	t.Run("unknown code is not found", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		_, err := registry.JoinSession("nosuch", "playerB")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("join returns the new count", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		session, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		count, err := registry.JoinSession(session.Code(), "playerB")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("full session rejects a third join", func(t *testing.T) {
		registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
		session, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		_, err = registry.JoinSession(session.Code(), "playerB")
		require.NoError(t, err)
		_, err = registry.JoinSession(session.Code(), "playerC")
		assert.ErrorIs(t, err, ErrSessionFull)
	})
}

func TestRegistryRemoveSession(t *testing.T) {
	registry := NewRegistry(clockwork.NewFakeClock(), testTTL)
	session, err := registry.CreateSession("playerA")
	require.NoError(t, err)
	registry.RemoveSession(session.Code())

	_, err = registry.GetSession(session.Code())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// removal frees the participant for a new battle
	_, err = registry.CreateSession("playerA")
	assert.NoError(t, err)
}

func TestRegistryReapIdle(t *testing.T) {
	t.Run("removes sessions idle past the ttl", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		registry := NewRegistry(clock, testTTL)
		stale, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		fresh, err := registry.CreateSession("playerB")
		require.NoError(t, err)

		clock.Advance(testTTL - time.Minute)
		fresh.View("playerB") // a poll counts as activity
		clock.Advance(2 * time.Minute)

		assert.Equal(t, 1, registry.ReapIdle())
		_, err = registry.GetSession(stale.Code())
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = registry.GetSession(fresh.Code())
		assert.NoError(t, err)
	})

	t.Run("reaping frees the participants", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		registry := NewRegistry(clock, testTTL)
		_, err := registry.CreateSession("playerA")
		require.NoError(t, err)

		clock.Advance(testTTL + time.Minute)
		require.Equal(t, 1, registry.ReapIdle())

		_, err = registry.CreateSession("playerA")
		assert.NoError(t, err)
	})

	t.Run("a stalled countdown is eventually reclaimed", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		registry := NewRegistry(clock, testTTL)
		session, err := registry.CreateSession("playerA")
		require.NoError(t, err)
		_, err = registry.JoinSession(session.Code(), "playerB")
		require.NoError(t, err)
		_, err = session.Start("playerA", "race text", testCountdown)
		require.NoError(t, err)
		// admin client dies here; nobody confirms and nobody polls

		clock.Advance(testTTL + time.Minute)
		assert.Equal(t, 1, registry.ReapIdle())
	})
}

func TestRegistryRunReaper(t *testing.T) {
	clock := clockwork.NewFakeClock()
	registry := NewRegistry(clock, testTTL)
	session, err := registry.CreateSession("playerA")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.RunReaper(ctx, time.Minute)

	clock.BlockUntil(1) // reaper ticker armed
	clock.Advance(testTTL + 2*time.Minute)

	assert.Eventually(t, func() bool {
		_, err := registry.GetSession(session.Code())
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
}
