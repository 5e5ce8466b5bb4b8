package otp

import "time"

// Timer binds a Challenge to a clock so countdowns can be read without
// passing the time around. It holds no goroutines.
type Timer struct {
	challenge Challenge
	now       func() time.Time
}

// NewTimer returns a Timer over c. A nil now uses time.Now.
func NewTimer(c Challenge, now func() time.Time) Timer {
	if now == nil {
		now = time.Now
	}
	return Timer{challenge: c, now: now}
}

func (t Timer) Challenge() Challenge {
	return t.challenge
}

// RemainingExpiryMs is the clamped milliseconds until the code expires.
func (t Timer) RemainingExpiryMs() int64 {
	return t.challenge.RemainingExpiry(t.now()).Milliseconds()
}

// RemainingCooldownMs is the clamped milliseconds until a resend is allowed.
func (t Timer) RemainingCooldownMs() int64 {
	return t.challenge.RemainingCooldown(t.now()).Milliseconds()
}

func (t Timer) Expired() bool {
	return t.challenge.Expired(t.now())
}

func (t Timer) CanResend() bool {
	return t.challenge.CanResend(t.now())
}
