package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophaccount/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophaccount/internal/common"
	"github.com/dmitrijs2005/gophaccount/internal/cryptox"
	"github.com/dmitrijs2005/gophaccount/internal/dbx"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
)

const (
	tokenKey = "session_token"
	saltKey  = "store_salt"
	saltSize = 16
)

// SQLiteStore seals the token with AES-GCM before writing it to the
// metadata table. The key is derived from a local secret and a per-database
// salt.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
	log logging.Logger
}

var _ CredentialStore = (*SQLiteStore)(nil)

// ErrEmptySecret is returned when no local secret is configured. An empty
// secret would derive a key anyone with the database file could recompute.
var ErrEmptySecret = errors.New("store secret is empty")

// NewSQLiteStore binds a store to an opened and migrated database.
func NewSQLiteStore(ctx context.Context, db *sql.DB, secret string, log logging.Logger) (*SQLiteStore, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if log == nil {
		log = logging.Nop()
	}

	salt, err := metadata.NewSQLiteRepository(db).SetIfAbsent(ctx, saltKey, common.GenerateRandByteArray(saltSize))
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{
		db:  db,
		key: cryptox.DeriveKey([]byte(secret), salt),
		log: log,
	}, nil
}

// Get returns the stored token. A value that no longer opens with the
// current key is dropped and reported as absent.
func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	var token string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		sealed, err := repo.Get(ctx, tokenKey)
		if err != nil || sealed == nil {
			return err
		}

		plain, err := cryptox.Open(s.key, sealed)
		if err != nil {
			s.log.Warn(ctx, "stored token cannot be decrypted, discarding", "error", err)
			return repo.Delete(ctx, tokenKey)
		}
		token = string(plain)
		common.WipeByteArray(plain)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	sealed, err := cryptox.Seal(s.key, []byte(token))
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Set(ctx, tokenKey, sealed)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, tokenKey)
}
