package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/gate"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/otp"
	"github.com/dmitrijs2005/gophaccount/internal/client/store"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
)

// AccountLifecycle owns the session and drives an account through
// registration, verification, login, logout and password reset.
//
// Contract:
//   - Every method is safe for concurrent use. A second call of the same
//     kind while one is in flight fails with ErrOperationInProgress.
//   - Input is validated locally before any network call.
//   - A 401/403 on an authenticated call ends the session (forced logout).
//   - Reads (State, Session, timers) never wait for network calls.
type AccountLifecycle interface {
	State() State
	Session() *models.Session
	PendingPhone() string
	VerificationTimer() (otp.Timer, bool)
	ResetStep() ResetStep
	ResetPhone() string
	ResetTimer() (otp.Timer, bool)

	BeginFlow() Flow
	IsCurrentFlow(f Flow) bool

	Allows(c gate.Capability) bool
	Permitted() []gate.Capability

	Register(ctx context.Context, req models.RegisterRequest) error
	VerifyAccount(ctx context.Context, code string) error
	ResendVerification(ctx context.Context) error
	Login(ctx context.Context, phone, password string, rememberMe bool) error
	RestoreSession(ctx context.Context) error
	Logout(ctx context.Context) error

	ChangePassword(ctx context.Context, current, next, confirm string) error
	RequestReset(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, phone, code, newPassword string) error
	CancelReset()

	RefreshProfile(ctx context.Context) error
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error

	// WithAuthorization runs fn with the session token when the session
	// holds capability c.
	WithAuthorization(ctx context.Context, c gate.Capability, fn func(ctx context.Context, token string) error) error
}

type resetFlow struct {
	phone     string
	step      ResetStep
	challenge *otp.Challenge
}

type accountLifecycle struct {
	client client.Client
	store  store.CredentialStore
	gate   *gate.Gate
	log    logging.Logger

	now       func() time.Time
	otpPolicy otp.Policy
	passwords PasswordPolicy

	mu           sync.Mutex
	state        State
	session      *models.Session
	pendingPhone string
	challenge    *otp.Challenge
	reset        *resetFlow
	flow         Flow
	inFlight     map[opKind]bool
}

type Option func(*accountLifecycle)

func WithClock(now func() time.Time) Option {
	return func(l *accountLifecycle) { l.now = now }
}

func WithLogger(log logging.Logger) Option {
	return func(l *accountLifecycle) { l.log = log }
}

func WithOTPPolicy(p otp.Policy) Option {
	return func(l *accountLifecycle) { l.otpPolicy = p }
}

func WithPasswordPolicy(p PasswordPolicy) Option {
	return func(l *accountLifecycle) { l.passwords = p }
}

func WithGate(g *gate.Gate) Option {
	return func(l *accountLifecycle) { l.gate = g }
}

// NewAccountLifecycle constructs a lifecycle in StateAnonymous.
func NewAccountLifecycle(c client.Client, s store.CredentialStore, opts ...Option) AccountLifecycle {
	l := &accountLifecycle{
		client:    c,
		store:     s,
		now:       time.Now,
		otpPolicy: otp.DefaultPolicy(),
		passwords: DefaultPasswordPolicy(),
		state:     StateAnonymous,
		inFlight:  make(map[opKind]bool),
	}
	for _, o := range opts {
		o(l)
	}
	if l.gate == nil {
		l.gate = gate.New(gate.DefaultPolicy())
	}
	if l.log == nil {
		l.log = logging.Nop()
	}
	return l
}

func (l *accountLifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reset != nil && l.state != StateAuthenticated {
		return StateResettingPassword
	}
	return l.state
}

func (l *accountLifecycle) Session() *models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.Clone()
}

func (l *accountLifecycle) PendingPhone() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingPhone
}

func (l *accountLifecycle) VerificationTimer() (otp.Timer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.challenge == nil {
		return otp.Timer{}, false
	}
	return otp.NewTimer(*l.challenge, l.now), true
}

func (l *accountLifecycle) ResetStep() ResetStep {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reset == nil {
		return ResetNone
	}
	return l.reset.step
}

func (l *accountLifecycle) ResetPhone() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reset == nil {
		return ""
	}
	return l.reset.phone
}

func (l *accountLifecycle) ResetTimer() (otp.Timer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reset == nil || l.reset.challenge == nil {
		return otp.Timer{}, false
	}
	return otp.NewTimer(*l.reset.challenge, l.now), true
}

func (l *accountLifecycle) BeginFlow() Flow {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flow++
	return l.flow
}

func (l *accountLifecycle) IsCurrentFlow(f Flow) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return f == l.flow
}

func (l *accountLifecycle) Allows(c gate.Capability) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateAuthenticated {
		return false
	}
	return l.gate.AllowsSession(l.session, c)
}

func (l *accountLifecycle) Permitted() []gate.Capability {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateAuthenticated || l.session == nil {
		return nil
	}
	return l.gate.Permitted(l.session.Account.Roles)
}

func (l *accountLifecycle) WithAuthorization(ctx context.Context, c gate.Capability, fn func(ctx context.Context, token string) error) error {
	l.mu.Lock()
	sess := l.session
	authenticated := l.state == StateAuthenticated && sess != nil
	allowed := authenticated && l.gate.AllowsSession(sess, c)
	l.mu.Unlock()

	if !authenticated {
		return ErrNotAuthenticated
	}
	if !allowed {
		return ErrPermissionDenied
	}

	err := fn(ctx, sess.Token)
	if errors.Is(err, client.ErrUnauthorized) {
		l.expireSession(ctx, sess.Token)
	}
	return err
}

// begin marks op as in flight. The returned func clears the mark and must
// be called without l.mu held.
func (l *accountLifecycle) begin(op opKind) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight[op] {
		return nil, ErrOperationInProgress
	}
	l.inFlight[op] = true
	return func() {
		l.mu.Lock()
		delete(l.inFlight, op)
		l.mu.Unlock()
	}, nil
}

// setStateLocked moves the main state. l.mu must be held.
func (l *accountLifecycle) setStateLocked(ctx context.Context, to State) {
	if l.state == to {
		return
	}
	l.log.Debug(ctx, "state transition", "from", l.state.String(), "to", to.String())
	l.state = to
}

func (l *accountLifecycle) setState(ctx context.Context, to State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setStateLocked(ctx, to)
}

// enter moves to next when the current state is one of from and returns
// the state it left.
func (l *accountLifecycle) enter(ctx context.Context, op string, next State, from ...State) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range from {
		if l.state == s {
			prev := l.state
			l.setStateLocked(ctx, next)
			return prev, nil
		}
	}
	return l.state, stateError(op, l.state)
}

// expireSession ends the session holding token after the backend rejected
// it. A newer session is left alone.
func (l *accountLifecycle) expireSession(ctx context.Context, token string) {
	l.mu.Lock()
	if l.session == nil || l.session.Token != token {
		l.mu.Unlock()
		return
	}
	l.session = nil
	l.flow++
	l.setStateLocked(ctx, StateAnonymous)
	l.mu.Unlock()

	l.log.Warn(ctx, "session rejected by server, signed out")
	if err := l.store.Clear(ctx); err != nil {
		l.log.Error(ctx, "failed to clear stored session", "error", err)
	}
}

func (l *accountLifecycle) newChallenge(phone string) *otp.Challenge {
	c := otp.NewChallenge(phone, l.now(), l.otpPolicy)
	return &c
}
