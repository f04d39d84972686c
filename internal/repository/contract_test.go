package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-oracle/internal/database"
	"github.com/yourusername/sports-oracle/internal/models"
)

// zeroSum is the update shape the rating engine uses
func zeroSum(delta float64) PairedUpdate {
	return func(ra, rb float64) (float64, float64) {
		return ra + delta, rb - delta
	}
}

func settlement(itemKey, home, away string, start time.Time) models.Settlement {
	return models.Settlement{
		Sport:      models.SportMLB,
		ItemKey:    itemKey,
		HomeKey:    models.SportMLB.CompetitorKey(home),
		AwayKey:    models.SportMLB.CompetitorKey(away),
		EventStart: start,
	}
}

// runRepositoryContract exercises behaviour every backend must share
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) RatingRepository) {
	t.Run("get initializes unseen keys to base", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		rating, err := repo.Get(ctx, "MLB:Yankees")
		require.NoError(t, err)
		assert.Equal(t, models.BaseRating, rating)

		require.NoError(t, repo.Set(ctx, "MLB:Yankees", 1612.5))
		rating, err = repo.Get(ctx, "MLB:Yankees")
		require.NoError(t, err)
		assert.Equal(t, 1612.5, rating)
	})

	t.Run("set overwrites existing rating", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "NFL:Chiefs", 1550))
		require.NoError(t, repo.Set(ctx, "NFL:Chiefs", 1490))

		rating, err := repo.Get(ctx, "NFL:Chiefs")
		require.NoError(t, err)
		assert.Equal(t, 1490.0, rating)
	})

	t.Run("apply settlement updates both ratings", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s := settlement("evt-1", "Yankees", "Red Sox", time.Date(2025, 10, 14, 23, 5, 0, 0, time.UTC))
		before, after, applied, err := repo.ApplySettlement(ctx, s, zeroSum(10))
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, models.RatingPair{A: 1500, B: 1500}, before)
		assert.Equal(t, models.RatingPair{A: 1510, B: 1490}, after)

		home, err := repo.Get(ctx, s.HomeKey)
		require.NoError(t, err)
		away, err := repo.Get(ctx, s.AwayKey)
		require.NoError(t, err)
		assert.Equal(t, 1510.0, home)
		assert.Equal(t, 1490.0, away)

		settled, err := repo.IsSettled(ctx, models.SportMLB, "evt-1")
		require.NoError(t, err)
		assert.True(t, settled)
	})

	t.Run("duplicate settlement is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s := settlement("evt-dup", "Mets", "Braves", time.Time{})
		_, _, applied, err := repo.ApplySettlement(ctx, s, zeroSum(12))
		require.NoError(t, err)
		require.True(t, applied)

		calls := 0
		_, _, applied, err = repo.ApplySettlement(ctx, s, func(ra, rb float64) (float64, float64) {
			calls++
			return ra + 100, rb - 100
		})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Zero(t, calls)

		home, err := repo.Get(ctx, s.HomeKey)
		require.NoError(t, err)
		assert.Equal(t, 1512.0, home)
	})

	t.Run("same item key in another sport is independent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mlb := settlement("shared-id", "Cubs", "Reds", time.Time{})
		_, _, applied, err := repo.ApplySettlement(ctx, mlb, zeroSum(5))
		require.NoError(t, err)
		require.True(t, applied)

		settled, err := repo.IsSettled(ctx, models.SportNFL, "shared-id")
		require.NoError(t, err)
		assert.False(t, settled)
	})

	t.Run("concurrent settlements conserve rating sum", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s := settlement(fmt.Sprintf("evt-%d", i), "Dodgers", "Giants", time.Time{})
				if _, _, _, err := repo.ApplySettlement(ctx, s, zeroSum(float64(i%5)+1)); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		home, err := repo.Get(ctx, models.SportMLB.CompetitorKey("Dodgers"))
		require.NoError(t, err)
		away, err := repo.Get(ctx, models.SportMLB.CompetitorKey("Giants"))
		require.NoError(t, err)
		assert.InDelta(t, 2*models.BaseRating, home+away, 1e-9)
		// 16 workers cycle deltas 1..5: three full cycles plus a 1
		assert.InDelta(t, models.BaseRating+46, home, 1e-9)
	})

	t.Run("concurrent duplicates apply once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s := settlement("evt-race", "Astros", "Rangers", time.Time{})
		var wg sync.WaitGroup
		var mu sync.Mutex
		appliedCount := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, applied, err := repo.ApplySettlement(ctx, s, zeroSum(10))
				assert.NoError(t, err)
				if applied {
					mu.Lock()
					appliedCount++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, appliedCount)
		home, err := repo.Get(ctx, s.HomeKey)
		require.NoError(t, err)
		assert.Equal(t, 1510.0, home)
	})

	t.Run("last played uses settled history", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC)
		second := time.Date(2025, 10, 12, 17, 0, 0, 0, time.UTC)
		_, _, _, err := repo.ApplySettlement(ctx, settlement("w1", "Guardians", "Tigers", first), zeroSum(1))
		require.NoError(t, err)
		_, _, _, err = repo.ApplySettlement(ctx, settlement("w2", "Twins", "Guardians", second), zeroSum(1))
		require.NoError(t, err)

		key := models.SportMLB.CompetitorKey("Guardians")

		last, ok, err := repo.LastPlayed(ctx, key, time.Date(2025, 10, 19, 17, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, last.Equal(second))

		last, ok, err = repo.LastPlayed(ctx, key, second)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, last.Equal(first))

		_, ok, err = repo.LastPlayed(ctx, key, first)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = repo.LastPlayed(ctx, models.SportMLB.CompetitorKey("Royals"), second)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("last played keeps sub-second starts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		start := time.Date(2025, 10, 5, 17, 0, 0, 500*int(time.Millisecond), time.UTC)
		_, _, _, err := repo.ApplySettlement(ctx, settlement("s1", "Guardians", "Tigers", start), zeroSum(1))
		require.NoError(t, err)

		key := models.SportMLB.CompetitorKey("Guardians")

		last, ok, err := repo.LastPlayed(ctx, key, start.Add(300*time.Millisecond))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, last.Equal(start), "got %s", last)

		_, ok, err = repo.LastPlayed(ctx, key, start)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = repo.LastPlayed(ctx, key, start.Add(-200*time.Millisecond))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryRatingRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) RatingRepository {
		return NewMemoryRatingRepository()
	})
}

func TestSQLiteRatingRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) RatingRepository {
		db, err := database.OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return NewSQLiteRatingRepository(db)
	})
}

func TestWithBaseRating(t *testing.T) {
	repo := NewMemoryRatingRepository(WithBaseRating(1200))

	rating, err := repo.Get(context.Background(), "UFC:Jones")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, rating)

	repo = NewMemoryRatingRepository(WithBaseRating(-5))
	rating, err = repo.Get(context.Background(), "UFC:Jones")
	require.NoError(t, err)
	assert.Equal(t, models.BaseRating, rating)
}

func TestMemoryRepositoryHonoursCancelledContext(t *testing.T) {
	repo := NewMemoryRatingRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "MLB:Yankees")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRatingRepositoryRequiresHandle(t *testing.T) {
	_, err := NewRatingRepository(nil)
	assert.Error(t, err)
}
