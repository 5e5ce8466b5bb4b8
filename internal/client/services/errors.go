package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCode              = errors.New("verification code is incorrect")
	ErrExpiredCode              = errors.New("verification code has expired")
	ErrCooldownActive           = errors.New("please wait before requesting a new code")
	ErrInvalidCredentials       = errors.New("invalid phone number or password")
	ErrAccountUnverified        = errors.New("account is not verified")
	ErrAccountIncomplete        = errors.New("account has no roles assigned")
	ErrReauthenticationRequired = errors.New("current password is incorrect")
	ErrOperationInProgress      = errors.New("operation already in progress")
	ErrInvalidState             = errors.New("operation not allowed in the current state")
	ErrNotAuthenticated         = errors.New("not signed in")
	ErrPermissionDenied         = errors.New("permission denied")
	ErrNoChallenge              = errors.New("no verification code has been requested")
	ErrInvalidRoleSelection     = errors.New("invalid role selection")
)

// CooldownError is returned when a new code is requested too early.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	secs := int((e.Remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%s (%ds left)", ErrCooldownActive, secs)
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

func (e *CooldownError) RemainingMs() int64 {
	return e.Remaining.Milliseconds()
}

// stateError wraps ErrInvalidState with the state the call was made in.
func stateError(op string, s State) error {
	return fmt.Errorf("%s: %w (%s)", op, ErrInvalidState, s)
}
