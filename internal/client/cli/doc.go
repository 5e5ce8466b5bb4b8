// Package cli provides the interactive GophAccount command-line client.
//
// It wires configuration, the session database, the REST gateway and the
// account services into a REPL. On start it reopens a remembered session;
// the prompt shows the lifecycle state and, while a one-time code is live,
// its expiry and resend countdowns.
//
// Key features:
//   - register / verify / resend: create and activate an account
//   - login / logout, with optional "remember me"
//   - forgot / reset / cancel: password reset by SMS code
//   - whoami / profile / passwd for the signed-in account
//   - roles / addrole / editrole / assign / unassign for administrators
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
