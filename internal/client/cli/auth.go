package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/dmitrijs2005/gophaccount/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

// Register collects the registration form and creates the account. On
// success the account waits for its verification code.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone number (e.g. +15551234567)", a.out)
	if err != nil {
		return err
	}
	gender, err := getSimpleText(a.reader, "Enter gender (male, female, other)", a.out)
	if err != nil {
		return err
	}
	birthDate, err := getSimpleText(a.reader, "Enter birth date (YYYY-MM-DD, empty to skip)", a.out)
	if err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := models.RegisterRequest{
		FullName:    fullName,
		PhoneNumber: phone,
		Gender:      models.Gender(gender),
		Password:    string(password),
	}
	if birthDate != "" {
		d, err := models.ParseDate(birthDate)
		if err != nil {
			return common.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format")
		}
		req.BirthDate = &d
	}

	if err := a.lifecycle.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "A verification code was sent to %s. Type 'verify' to enter it.\n", a.lifecycle.PendingPhone())
	return nil
}

// Verify submits the code sent to the pending phone number.
func (a *App) Verify(ctx context.Context) error {
	phone := a.lifecycle.PendingPhone()
	if phone == "" {
		return services.ErrNoChallenge
	}

	code, err := getSimpleText(a.reader, "Enter the 6-digit code sent to "+phone, a.out)
	if err != nil {
		return err
	}

	if err := a.lifecycle.VerifyAccount(ctx, code); err != nil {
		if errors.Is(err, services.ErrExpiredCode) {
			fmt.Fprintln(a.out, "Type 'resend' to get a new code.")
		}
		return err
	}

	fmt.Fprintln(a.out, "Account verified. Type 'login' to sign in.")
	return nil
}

// Resend asks for a new verification code.
func (a *App) Resend(ctx context.Context) error {
	if err := a.lifecycle.ResendVerification(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "A new code was sent to %s.\n", a.lifecycle.PendingPhone())
	return nil
}

// Login prompts for credentials and opens a session. A result that arrives
// after a newer flow started (for example a logout) is not reported.
func (a *App) Login(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Enter phone number", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := getConfirmation(a.reader, "Remember me on this device?", a.out)
	if err != nil {
		return err
	}

	flow := a.lifecycle.BeginFlow()
	err = a.lifecycle.Login(ctx, phone, string(password), remember)
	if !a.lifecycle.IsCurrentFlow(flow) {
		a.log.Debug(ctx, "login result dropped, flow superseded")
		return nil
	}
	if err != nil {
		if errors.Is(err, services.ErrAccountUnverified) {
			fmt.Fprintf(a.out, "The account %s is not verified yet. Type 'verify' to enter the code.\n", a.lifecycle.PendingPhone())
		}
		return err
	}

	if s := a.lifecycle.Session(); s != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", s.Account.FullName)
	}
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.lifecycle.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// ChangePassword changes the password of the signed-in account.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}

	current, err := getPassword(a.reader, "Enter current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	confirm, err := getPassword(a.reader, "Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.lifecycle.ChangePassword(ctx, string(current), string(next), string(confirm)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

// Forgot starts a password reset for a phone number.
func (a *App) Forgot(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Enter phone number", a.out)
	if err != nil {
		return err
	}

	if err := a.lifecycle.RequestReset(ctx, phone); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "If %s is registered, a reset code was sent to it. Type 'reset' to continue.\n", a.lifecycle.ResetPhone())
	return nil
}

// Reset completes the password reset started with Forgot.
func (a *App) Reset(ctx context.Context) error {
	phone := a.lifecycle.ResetPhone()
	if phone == "" || a.lifecycle.ResetStep() != services.ResetEnterCode {
		return services.ErrNoChallenge
	}

	code, err := getSimpleText(a.reader, "Enter the 6-digit code sent to "+phone, a.out)
	if err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.lifecycle.ResetPassword(ctx, phone, code, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password updated. Type 'login' to sign in.")
	return nil
}

// CancelReset abandons a password reset in progress.
func (a *App) CancelReset(_ context.Context) error {
	if a.lifecycle.ResetStep() == services.ResetNone {
		return services.ErrNoChallenge
	}
	a.lifecycle.CancelReset()
	fmt.Fprintln(a.out, "Password reset cancelled.")
	return nil
}

// newPassword reads a password twice and returns it when both entries match.
func (a *App) newPassword() ([]byte, error) {
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return nil, err
	}

	confirm, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		common.WipeByteArray(password)
		return nil, common.NewValidationError("confirm_password", "passwords do not match")
	}
	return password, nil
}
