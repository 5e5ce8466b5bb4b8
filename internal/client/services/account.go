package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/store"
	"github.com/dmitrijs2005/gophaccount/internal/common"
)

// Register creates the account on the backend and starts its verification
// challenge.
func (l *accountLifecycle) Register(ctx context.Context, req models.RegisterRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.PhoneNumber = NormalizePhone(req.PhoneNumber)
	req.Gender, _ = models.ParseGender(string(req.Gender))
	req.Role = strings.TrimSpace(req.Role)

	if err := validateRegistration(&req, l.passwords, l.now()); err != nil {
		return err
	}

	release, err := l.begin(opRegister)
	if err != nil {
		return err
	}
	defer release()

	prev, err := l.enter(ctx, "register", StateRegistering,
		StateAnonymous, StateAwaitingVerification, StateVerified)
	if err != nil {
		return err
	}

	if err := l.client.Register(ctx, req); err != nil {
		l.setState(ctx, prev)
		return mapRegisterError(err)
	}

	l.mu.Lock()
	l.pendingPhone = req.PhoneNumber
	l.challenge = l.newChallenge(req.PhoneNumber)
	l.setStateLocked(ctx, StateAwaitingVerification)
	l.mu.Unlock()

	l.log.Info(ctx, "account registered, awaiting verification")
	return nil
}

func mapRegisterError(err error) error {
	if errors.Is(err, client.ErrConflict) {
		return err
	}
	if errors.Is(err, common.ErrValidation) && mentions(err, "already") {
		return fmt.Errorf("%w: %s", client.ErrConflict, client.DetailOf(err))
	}
	return err
}

// VerifyAccount submits the code of the live challenge. A wrong code leaves
// the challenge and its timers untouched.
func (l *accountLifecycle) VerifyAccount(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if err := checkCode(code); err != nil {
		return err
	}

	release, err := l.begin(opVerify)
	if err != nil {
		return err
	}
	defer release()

	l.mu.Lock()
	if l.state != StateAwaitingVerification {
		s := l.state
		l.mu.Unlock()
		return stateError("verify", s)
	}
	phone := l.pendingPhone
	if l.challenge != nil && l.challenge.Expired(l.now()) {
		l.mu.Unlock()
		return ErrExpiredCode
	}
	l.mu.Unlock()

	if err := l.client.VerifyAccount(ctx, models.VerifyRequest{PhoneNumber: phone, Code: code}); err != nil {
		return mapCodeError(err)
	}

	l.mu.Lock()
	transitioned := l.state == StateAwaitingVerification && l.pendingPhone == phone
	if transitioned {
		l.challenge = nil
		l.setStateLocked(ctx, StateVerified)
	}
	l.mu.Unlock()

	if !transitioned {
		l.log.Debug(ctx, "verification result discarded, flow changed meanwhile")
		return nil
	}
	l.log.Info(ctx, "account verified")
	return nil
}

// mapCodeError turns a rejected code into ErrExpiredCode or ErrInvalidCode.
// Field errors about anything but the code are passed through.
func mapCodeError(err error) error {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		if len(ve.Fields) > 0 && ve.Field("code") == "" {
			return err
		}
		if mentions(err, "expired") {
			return ErrExpiredCode
		}
		return ErrInvalidCode
	}
	if errors.Is(err, client.ErrNotFound) {
		return ErrInvalidCode
	}
	return err
}

// ResendVerification replaces the live challenge once its cooldown is over.
func (l *accountLifecycle) ResendVerification(ctx context.Context) error {
	release, err := l.begin(opResend)
	if err != nil {
		return err
	}
	defer release()

	l.mu.Lock()
	if l.state != StateAwaitingVerification {
		s := l.state
		l.mu.Unlock()
		return stateError("resend verification", s)
	}
	phone := l.pendingPhone
	if c := l.challenge; c != nil && !c.CanResend(l.now()) {
		remaining := c.RemainingCooldown(l.now())
		l.mu.Unlock()
		return &CooldownError{Remaining: remaining}
	}
	l.mu.Unlock()

	if err := l.client.ResendVerification(ctx, phone); err != nil {
		if errors.Is(err, common.ErrValidation) && mentions(err, "already verified") {
			return fmt.Errorf("resend verification: %w: %s", ErrInvalidState, client.DetailOf(err))
		}
		return err
	}

	l.mu.Lock()
	if l.state == StateAwaitingVerification && l.pendingPhone == phone {
		l.challenge = l.newChallenge(phone)
	}
	l.mu.Unlock()
	return nil
}

// Login exchanges credentials for a token, loads the profile and opens the
// session. The token is persisted only when rememberMe is set.
func (l *accountLifecycle) Login(ctx context.Context, phone, password string, rememberMe bool) error {
	phone = NormalizePhone(phone)
	if err := checkPhone(phone); err != nil {
		return err
	}
	if password == "" {
		return common.NewValidationError("password", "cannot be blank")
	}

	release, err := l.begin(opLogin)
	if err != nil {
		return err
	}
	defer release()

	prev, err := l.enter(ctx, "login", StateAuthenticating,
		StateAnonymous, StateAwaitingVerification, StateVerified)
	if err != nil {
		return err
	}

	token, err := l.client.Login(ctx, models.LoginRequest{PhoneNumber: phone, Password: password})
	if err != nil {
		l.setState(ctx, prev)
		if isClientError(err) && mentions(err, "verif") {
			return l.routeToVerification(ctx, phone)
		}
		return mapLoginError(err)
	}

	acc, err := l.client.Me(ctx, token)
	if err != nil {
		l.setState(ctx, prev)
		return fmt.Errorf("load profile: %w", err)
	}
	if !acc.Verified {
		l.setState(ctx, prev)
		return l.routeToVerification(ctx, phone)
	}
	if len(acc.Roles) == 0 {
		l.setState(ctx, prev)
		return ErrAccountIncomplete
	}

	if rememberMe {
		err = l.store.Set(ctx, token)
	} else {
		err = l.store.Clear(ctx)
	}
	if err != nil {
		l.setState(ctx, prev)
		return fmt.Errorf("persist session: %w", err)
	}

	l.mu.Lock()
	l.session = &models.Session{Token: token, Account: *acc, Persisted: rememberMe, StartedAt: l.now()}
	l.challenge = nil
	l.pendingPhone = ""
	l.setStateLocked(ctx, StateAuthenticated)
	l.mu.Unlock()

	l.log.Info(ctx, "signed in", "user_id", acc.ID, "remember", rememberMe)
	return nil
}

// mapLoginError hides whether the phone number exists.
func mapLoginError(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNotFound):
		return ErrInvalidCredentials
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) == 0 {
		return ErrInvalidCredentials
	}
	return err
}

// routeToVerification parks the lifecycle on the verification step for
// phone and asks for a fresh code unless one is still cooling down.
func (l *accountLifecycle) routeToVerification(ctx context.Context, phone string) error {
	l.mu.Lock()
	if l.challenge != nil && l.challenge.PhoneNumber != phone {
		l.challenge = nil
	}
	needCode := l.challenge == nil || l.challenge.CanResend(l.now())
	l.pendingPhone = phone
	l.setStateLocked(ctx, StateAwaitingVerification)
	l.mu.Unlock()

	if !needCode {
		return ErrAccountUnverified
	}

	if err := l.client.ResendVerification(ctx, phone); err != nil {
		l.log.Warn(ctx, "could not request verification code", "error", err)
		return fmt.Errorf("%w (new code not sent: %v)", ErrAccountUnverified, err)
	}

	l.mu.Lock()
	if l.state == StateAwaitingVerification && l.pendingPhone == phone {
		l.challenge = l.newChallenge(phone)
	}
	l.mu.Unlock()
	return ErrAccountUnverified
}

// RestoreSession reopens a persisted session at start-up. No stored token
// is not an error. A token the server rejects is discarded.
func (l *accountLifecycle) RestoreSession(ctx context.Context) error {
	release, err := l.begin(opRestore)
	if err != nil {
		return err
	}
	defer release()

	token, err := l.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("read stored session: %w", err)
	}
	if token == "" {
		return nil
	}

	if claims, err := store.ParseClaims(token); err == nil && claims.Expired(l.now()) {
		l.log.Info(ctx, "stored session expired, discarding")
		return l.store.Clear(ctx)
	}

	if _, err := l.enter(ctx, "restore session", StateAuthenticating, StateAnonymous); err != nil {
		return err
	}

	acc, err := l.client.Me(ctx, token)
	if err != nil {
		l.setState(ctx, StateAnonymous)
		if errors.Is(err, client.ErrUnauthorized) {
			l.log.Info(ctx, "stored session rejected by server, discarding")
			return l.store.Clear(ctx)
		}
		return fmt.Errorf("restore session: %w", err)
	}

	if !acc.Verified || len(acc.Roles) == 0 {
		l.setState(ctx, StateAnonymous)
		if err := l.store.Clear(ctx); err != nil {
			return err
		}
		if !acc.Verified {
			return ErrAccountUnverified
		}
		return ErrAccountIncomplete
	}

	l.mu.Lock()
	l.session = &models.Session{Token: token, Account: *acc, Persisted: true, StartedAt: l.now()}
	l.setStateLocked(ctx, StateAuthenticated)
	l.mu.Unlock()

	l.log.Info(ctx, "session restored", "user_id", acc.ID)
	return nil
}

// Logout tears the session down locally first; revocation on the backend
// is best effort.
func (l *accountLifecycle) Logout(ctx context.Context) error {
	release, err := l.begin(opLogout)
	if err != nil {
		return err
	}
	defer release()

	l.mu.Lock()
	sess := l.session
	l.session = nil
	l.challenge = nil
	l.pendingPhone = ""
	l.reset = nil
	l.flow++
	l.setStateLocked(ctx, StateAnonymous)
	l.mu.Unlock()

	clearErr := l.store.Clear(ctx)
	if clearErr != nil {
		l.log.Error(ctx, "failed to clear stored session", "error", clearErr)
	}

	if sess != nil {
		if err := l.client.Logout(ctx, sess.Token); err != nil {
			l.log.Warn(ctx, "session revocation failed", "error", err)
		}
	}
	return clearErr
}

// mentions reports whether the server detail or any field message of err
// contains one of words, case-insensitively.
func mentions(err error, words ...string) bool {
	var texts []string
	if d := client.DetailOf(err); d != "" {
		texts = append(texts, d)
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		for _, m := range ve.Fields {
			texts = append(texts, m)
		}
	}
	for _, t := range texts {
		t = strings.ToLower(t)
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
	}
	return false
}

func isBadRequest(err error) bool {
	return client.StatusOf(err) == http.StatusBadRequest
}

func isClientError(err error) bool {
	s := client.StatusOf(err)
	return s >= 400 && s < 500
}
