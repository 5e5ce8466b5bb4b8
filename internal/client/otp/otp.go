// Package otp models one-time-code challenges and their countdowns.
//
// A Challenge is created when the backend sends a code (registration, resend,
// forgot-password). Its timers are pure functions of the challenge
// timestamps and the wall-clock time passed in; nothing polls in the
// background, so callers re-evaluate whenever they need an answer.
package otp

import "time"

const (
	DefaultTTL      = 10 * time.Minute
	DefaultCooldown = 60 * time.Second
)

// Policy configures code lifetime and resend cooldown.
type Policy struct {
	TTL      time.Duration
	Cooldown time.Duration
}

// DefaultPolicy returns the 10 minute / 60 second policy.
func DefaultPolicy() Policy {
	return Policy{TTL: DefaultTTL, Cooldown: DefaultCooldown}
}

// Challenge is a live one-time code issued for a phone number.
type Challenge struct {
	PhoneNumber       string
	IssuedAt          time.Time
	ExpiresAt         time.Time
	ResendAvailableAt time.Time
}

// NewChallenge issues a challenge for phone at issuedAt under p.
// Zero policy durations fall back to the defaults.
func NewChallenge(phone string, issuedAt time.Time, p Policy) Challenge {
	if p.TTL <= 0 {
		p.TTL = DefaultTTL
	}
	if p.Cooldown <= 0 {
		p.Cooldown = DefaultCooldown
	}
	return Challenge{
		PhoneNumber:       phone,
		IssuedAt:          issuedAt,
		ExpiresAt:         issuedAt.Add(p.TTL),
		ResendAvailableAt: issuedAt.Add(p.Cooldown),
	}
}

// Expired reports whether now is past ExpiresAt.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// CanResend reports whether now has reached ResendAvailableAt.
func (c Challenge) CanResend(now time.Time) bool {
	return !now.Before(c.ResendAvailableAt)
}

// RemainingExpiry is the time left before the code expires, never negative.
func (c Challenge) RemainingExpiry(now time.Time) time.Duration {
	return clamp(c.ExpiresAt.Sub(now))
}

// RemainingCooldown is the time left before a resend is allowed, never negative.
func (c Challenge) RemainingCooldown(now time.Time) time.Duration {
	return clamp(c.ResendAvailableAt.Sub(now))
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
