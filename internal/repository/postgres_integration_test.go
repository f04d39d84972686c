//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-oracle/internal/database"
)

func TestPostgresRatingRepository(t *testing.T) {
	dsn := os.Getenv("SPORTS_ORACLE_TEST_DSN")
	if dsn == "" {
		t.Skip("SPORTS_ORACLE_TEST_DSN not set")
	}

	runRepositoryContract(t, func(t *testing.T) RatingRepository {
		ctx := context.Background()
		db, err := database.NewDBFromDSN(ctx, dsn, 8)
		require.NoError(t, err)
		require.NoError(t, db.EnsureSchema(ctx))
		t.Cleanup(func() {
			_, _ = db.GetPool().Exec(context.Background(), "TRUNCATE ratings, settled_results")
			db.Close()
		})
		_, err = db.GetPool().Exec(ctx, "TRUNCATE ratings, settled_results")
		require.NoError(t, err)
		return NewPostgresRatingRepository(db, WithBaseRating(1500))
	})
}
