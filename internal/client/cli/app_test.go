package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophaccount/internal/client/config"
	"github.com/dmitrijs2005/gophaccount/internal/client/store"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCredentialStore_NoSecretKeepsSessionInMemory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")
	var buf bytes.Buffer

	st, db, err := openCredentialStore(ctx, &config.Config{StorePath: path}, logging.New(&buf, "debug"))
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.IsType(t, &store.MemoryStore{}, st)
	assert.Contains(t, buf.String(), "no store secret configured")

	require.NoError(t, st.Set(ctx, "token"))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenCredentialStore_WithSecretPersists(t *testing.T) {
	ctx := context.Background()
	c := &config.Config{StorePath: filepath.Join(t.TempDir(), "session.db"), StoreSecret: "local-secret"}

	st, db, err := openCredentialStore(ctx, c, logging.Nop())
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { _ = db.Close() })
	assert.IsType(t, &store.SQLiteStore{}, st)

	require.NoError(t, st.Set(ctx, "token"))
	tok, err := st.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token", tok)
}
