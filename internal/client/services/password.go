package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/gate"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// ChangePassword replaces the password of the signed-in account. The
// session stays open.
func (l *accountLifecycle) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if l.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}

	req := models.ChangePasswordRequest{CurrentPassword: current, NewPassword: next, ConfirmPassword: confirm}
	if err := validatePasswordChange(&req, l.passwords); err != nil {
		return err
	}

	release, err := l.begin(opChangePassword)
	if err != nil {
		return err
	}
	defer release()

	return l.WithAuthorization(ctx, gate.PasswordChange, func(ctx context.Context, token string) error {
		err := l.client.ChangePassword(ctx, token, req)
		switch {
		case err == nil:
			l.log.Info(ctx, "password changed")
			return nil
		case isBadRequest(err):
			return ErrReauthenticationRequired
		default:
			return err
		}
	})
}

// RequestReset starts (or restarts) the reset flow for phone and asks the
// backend to send a code. Asking again for the same phone obeys the resend
// cooldown.
func (l *accountLifecycle) RequestReset(ctx context.Context, phone string) error {
	phone = NormalizePhone(phone)
	if err := checkPhone(phone); err != nil {
		return err
	}

	release, err := l.begin(opRequestReset)
	if err != nil {
		return err
	}
	defer release()

	l.mu.Lock()
	if r := l.reset; r != nil && r.phone == phone && r.challenge != nil && !r.challenge.CanResend(l.now()) {
		remaining := r.challenge.RemainingCooldown(l.now())
		l.mu.Unlock()
		return &CooldownError{Remaining: remaining}
	}
	if l.reset == nil || l.reset.phone != phone {
		l.reset = &resetFlow{phone: phone, step: ResetRequestCode}
		l.log.Debug(ctx, "password reset started")
	}
	l.mu.Unlock()

	if err := l.client.ForgotPassword(ctx, phone); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			// Unknown numbers are not revealed.
			l.log.Debug(ctx, "reset requested for unknown phone number")
		} else {
			return err
		}
	}

	l.mu.Lock()
	if l.reset != nil && l.reset.phone == phone {
		l.reset.challenge = l.newChallenge(phone)
		l.reset.step = ResetEnterCode
	}
	l.mu.Unlock()
	return nil
}

// ResetPassword consumes the reset code. Any existing session is left
// alone.
func (l *accountLifecycle) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	req := models.ResetPasswordRequest{
		PhoneNumber: NormalizePhone(phone),
		Code:        strings.TrimSpace(code),
		NewPassword: newPassword,
	}
	if err := validateReset(&req, l.passwords); err != nil {
		return err
	}

	release, err := l.begin(opResetPassword)
	if err != nil {
		return err
	}
	defer release()

	l.mu.Lock()
	r := l.reset
	if r == nil || r.phone != req.PhoneNumber || r.step != ResetEnterCode {
		l.mu.Unlock()
		return ErrNoChallenge
	}
	if r.challenge != nil && r.challenge.Expired(l.now()) {
		l.mu.Unlock()
		return ErrExpiredCode
	}
	l.mu.Unlock()

	if err := l.client.ResetPassword(ctx, req); err != nil {
		return mapCodeError(err)
	}

	l.mu.Lock()
	if l.reset == r {
		l.reset = nil
	}
	l.mu.Unlock()

	l.log.Info(ctx, "password reset")
	return nil
}

func (l *accountLifecycle) CancelReset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset = nil
}
