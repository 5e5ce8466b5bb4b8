package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	commands() []string
	Register(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	CancelReset(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Roles(ctx context.Context) error
	AddRole(ctx context.Context) error
	EditRole(ctx context.Context, args []string) error
	Assign(ctx context.Context, args []string) error
	Unassign(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the account CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Handler errors are printed and the loop goes
// on. The loop exits on EOF or when the user types "exit" or "quit".
//
// The prompt shows the current status (from statusFn); "status" prints it
// again, which is handy for watching code countdowns.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("acc> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn("Available commands: " + strings.Join(a.commands(), ", "))

		case "status":
			printlnFn(statusFn())

		case "register":
			cmdErr = a.Register(ctx)

		case "verify":
			cmdErr = a.Verify(ctx)

		case "resend":
			cmdErr = a.Resend(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "passwd":
			cmdErr = a.ChangePassword(ctx)

		case "forgot":
			cmdErr = a.Forgot(ctx)

		case "reset":
			cmdErr = a.Reset(ctx)

		case "cancel":
			cmdErr = a.CancelReset(ctx)

		case "profile":
			cmdErr = a.EditProfile(ctx)

		case "roles":
			cmdErr = a.Roles(ctx)

		case "addrole":
			cmdErr = a.AddRole(ctx)

		case "editrole":
			cmdErr = a.EditRole(ctx, args)

		case "assign":
			cmdErr = a.Assign(ctx, args)

		case "unassign":
			cmdErr = a.Unassign(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}
