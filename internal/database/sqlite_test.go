package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-oracle/internal/config"
)

func TestOpenSQLiteAppliesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('ratings','settled_results')",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpenSQLiteFileIsReusable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "model.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = db.Conn().ExecContext(ctx, "INSERT INTO ratings(key, rating) VALUES('MLB:A', 1512.5)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	var rating float64
	require.NoError(t, reopened.Conn().QueryRowContext(ctx, "SELECT rating FROM ratings WHERE key='MLB:A'").Scan(&rating))
	assert.Equal(t, 1512.5, rating)
}

func TestSQLiteWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO ratings(key, rating) VALUES('NFL:A', 1400)"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM ratings").Scan(&count))
	assert.Zero(t, count)
}

func TestInitializeMemoryDriver(t *testing.T) {
	h, err := Initialize(context.Background(), &config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)

	assert.NoError(t, h.Ping(context.Background()))
	assert.NoError(t, h.Close())
}

func TestInitializeUnknownDriver(t *testing.T) {
	_, err := Initialize(context.Background(), &config.DatabaseConfig{Driver: "mongo"})
	assert.Error(t, err)
}
