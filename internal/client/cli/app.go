package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/config"
	"github.com/dmitrijs2005/gophaccount/internal/client/otp"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/dmitrijs2005/gophaccount/internal/client/store"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
)

type App struct {
	config    *config.Config
	lifecycle services.AccountLifecycle
	directory services.DirectoryService
	log       logging.Logger
	db        *sql.DB
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp wires the session database, the REST gateway and the account
// services from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	st, db, err := openCredentialStore(ctx, c, log)
	if err != nil {
		return nil, err
	}

	api, err := client.NewRESTClient(c.BaseURL, client.Options{
		Timeout:        c.RequestTimeout,
		MaxRetries:     c.MaxRetries,
		RetryBaseDelay: c.RetryBaseDelay,
		Logger:         log,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	lc := services.NewAccountLifecycle(api, st,
		services.WithLogger(log),
		services.WithOTPPolicy(otp.Policy{TTL: c.CodeTTL, Cooldown: c.ResendCooldown}),
		services.WithPasswordPolicy(services.PasswordPolicy{MinLength: 8, MinClasses: c.PasswordMinClasses}),
	)

	a := newApp(lc, services.NewDirectoryService(api, lc), os.Stdin, os.Stdout)
	a.config = c
	a.log = log
	a.db = db
	return a, nil
}

// openCredentialStore persists the session token only when a local secret is
// configured. Without one the token lives in memory for this process.
func openCredentialStore(ctx context.Context, c *config.Config, log logging.Logger) (store.CredentialStore, *sql.DB, error) {
	if c.StoreSecret == "" {
		log.Warn(ctx, "no store secret configured, session will not be remembered across restarts")
		return store.NewMemoryStore(), nil, nil
	}

	db, err := store.OpenDatabase(ctx, c.StorePath)
	if err != nil {
		log.Error(ctx, "error opening session database", "path", c.StorePath, "err", err)
		return nil, nil, err
	}

	st, err := store.NewSQLiteStore(ctx, db, c.StoreSecret, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return st, db, nil
}

func newApp(lc services.AccountLifecycle, dir services.DirectoryService, in io.Reader, out io.Writer) *App {
	return &App{
		lifecycle: lc,
		directory: dir,
		log:       logging.Nop(),
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

// Run restores a remembered session, then serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()
	a.Root(ctx)
}

func (a *App) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing session database", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.lifecycle.State() == services.StateAuthenticated
}
