package main

import "time"

// Countdown holds one race cycle's countdown state: when it was
// announced, whether the admin already confirmed its end, and which
// participants have been shown their local countdown. It is owned by a
// Session and only touched under the session lock.
type Countdown struct {
	announcedAt time.Time
	duration    time.Duration
	confirmed   bool
	seenBy      map[string]bool
}

func NewCountdown(announcedAt time.Time, duration time.Duration) *Countdown {
	return &Countdown{
		announcedAt: announcedAt,
		duration:    duration,
		seenBy:      make(map[string]bool),
	}
}

// Confirm flips the end-of-countdown latch and reports whether this
// call was the one that flipped it. Repeated calls report false.
func (c *Countdown) Confirm() bool {
	if c.confirmed {
		return false
	}
	c.confirmed = true
	return true
}

func (c *Countdown) Confirmed() bool {
	return c.confirmed
}

// MarkSeen records that a participant has observed the countdown and
// reports whether this was the first observation. Late or duplicate
// polls report false so the client never re-arms its local display.
func (c *Countdown) MarkSeen(participantID string) bool {
	if c.seenBy[participantID] {
		return false
	}
	c.seenBy[participantID] = true
	return true
}

// Remaining projects how many seconds of the countdown are left at the
// given instant, clamped at zero.
func (c *Countdown) Remaining(now time.Time) float64 {
	remaining := c.duration - now.Sub(c.announcedAt)
	if remaining < 0 {
		return 0
	}
	return remaining.Seconds()
}
