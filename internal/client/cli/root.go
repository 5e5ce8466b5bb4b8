package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/gate"
	"github.com/dmitrijs2005/gophaccount/internal/client/otp"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
)

// Root greets the user, reopens a remembered session and runs the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to GophAccount CLI (type 'help' for commands)")
	a.restore(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restore(ctx context.Context) {
	err := a.lifecycle.RestoreSession(ctx)
	switch {
	case err != nil:
		a.log.Warn(ctx, "session restore failed", "err", err)
		fmt.Fprintln(a.out, "Could not restore the previous session:", describe(err))
	case a.isLoggedIn():
		if s := a.lifecycle.Session(); s != nil {
			fmt.Fprintf(a.out, "Signed in as %s.\n", s.Account.FullName)
		}
	}
}

// getStatus renders the lifecycle state for the prompt, with the code
// countdowns while a challenge is live.
func (a *App) getStatus() string {
	state := a.lifecycle.State()
	parts := []string{state.String()}

	switch state {
	case services.StateAuthenticated:
		if s := a.lifecycle.Session(); s != nil {
			parts = append(parts, s.Account.FullName)
			if names := s.Account.RoleNames(); len(names) > 0 {
				parts = append(parts, "["+strings.Join(names, ",")+"]")
			}
		}
	case services.StateAwaitingVerification:
		parts = append(parts, a.lifecycle.PendingPhone())
		if t, ok := a.lifecycle.VerificationTimer(); ok {
			parts = append(parts, countdown(t))
		}
	case services.StateResettingPassword:
		parts = append(parts, a.lifecycle.ResetPhone())
		if t, ok := a.lifecycle.ResetTimer(); ok {
			parts = append(parts, countdown(t))
		}
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// commands lists what makes sense in the current state. Admin commands are
// offered only when the session holds the capability.
func (a *App) commands() []string {
	var cmds []string

	switch a.lifecycle.State() {
	case services.StateAuthenticated:
		cmds = append(cmds, "whoami")
		if a.lifecycle.Allows(gate.ProfileEdit) {
			cmds = append(cmds, "profile")
		}
		if a.lifecycle.Allows(gate.PasswordChange) {
			cmds = append(cmds, "passwd")
		}
		if a.lifecycle.Allows(gate.RolesView) {
			cmds = append(cmds, "roles")
		}
		if a.lifecycle.Allows(gate.RolesManage) {
			cmds = append(cmds, "addrole", "editrole")
		}
		if a.lifecycle.Allows(gate.UserRolesAssign) {
			cmds = append(cmds, "assign", "unassign")
		}
		cmds = append(cmds, "logout")
	case services.StateAwaitingVerification:
		cmds = append(cmds, "verify", "resend", "register", "login", "forgot")
	case services.StateResettingPassword:
		cmds = append(cmds, "reset", "forgot", "cancel", "login")
	default:
		cmds = append(cmds, "register", "login", "forgot")
	}

	return append(cmds, "status", "help", "exit")
}

func countdown(t otp.Timer) string {
	if t.Expired() {
		return "code expired"
	}
	s := "code " + formatRemaining(t.RemainingExpiryMs())
	if !t.CanResend() {
		s += ", resend in " + formatRemaining(t.RemainingCooldownMs())
	}
	return s
}

// formatRemaining renders milliseconds as m:ss, rounding up.
func formatRemaining(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := (ms + 999) / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// describe turns an error into a message for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server is unavailable, check the connection and try again"
	case errors.Is(err, client.ErrUnauthorized):
		return "your session has ended, please log in again"
	case errors.Is(err, client.ErrServer):
		return "server error, please try again later (" + client.DetailOf(err) + ")"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
