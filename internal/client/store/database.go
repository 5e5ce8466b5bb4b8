package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophaccount/internal/client/migrations"
	"github.com/dmitrijs2005/gophaccount/internal/dbx"
	"github.com/dmitrijs2005/gophaccount/internal/filex"
	"github.com/pressly/goose/v3"
)

const memoryPath = ":memory:"

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB) error {
	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens (creating if needed) the local database at path and
// applies the embedded migrations. The file is made readable by the owner
// only.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != memoryPath {
		abs, err := filex.EnsureParentDir(path)
		if err != nil {
			return nil, err
		}
		path = abs
	}

	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if path != memoryPath {
		if err := filex.RestrictPermissions(path); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// RunMigrations applies every pending migration. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
