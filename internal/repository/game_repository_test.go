package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/db"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"errors"
	"sync"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// testGameRepository exercises the behaviour every backend must share.
func testGameRepository(t *testing.T, repo GameRepository) {
	ctx := context.Background()

	t.Run("Create and find", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewGame("g-create")))

		s, err := repo.FindByID(ctx, "g-create")
		require.NoError(t, err)
		assert.Equal(t, *game.NewGame("g-create"), *s)
	})

	t.Run("Unknown game", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrGameNotFound)

		_, err = repo.Update(ctx, "missing", func(*game.State) error { return nil })
		assert.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("Update applies a move", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewGame("g-move")))

		s, err := repo.Update(ctx, "g-move", func(s *game.State) error {
			return s.Move(game.PlayerX, 1, 1)
		})
		require.NoError(t, err)
		assert.Equal(t, game.PlayerX, s.Board[1][1])
		assert.Equal(t, 1, s.MoveCount)

		stored, err := repo.FindByID(ctx, "g-move")
		require.NoError(t, err)
		assert.Equal(t, *s, *stored)
	})

	t.Run("Failed update leaves the game unchanged", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewGame("g-reject")))

		_, err := repo.Update(ctx, "g-reject", func(s *game.State) error {
			return s.Move(game.PlayerO, 0, 0)
		})
		assert.ErrorIs(t, err, game.ErrNotYourTurn)

		stored, err := repo.FindByID(ctx, "g-reject")
		require.NoError(t, err)
		assert.Equal(t, *game.NewGame("g-reject"), *stored)
	})

	t.Run("Finished game round trips", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewGame("g-win")))
		moves := [][3]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}

		var s *game.State
		var err error
		for _, m := range moves {
			s, err = repo.Update(ctx, "g-win", func(s *game.State) error {
				return s.Move(s.CurrentPlayer, m[0], m[1])
			})
			require.NoError(t, err)
		}
		assert.Equal(t, game.StatusWin, s.Status)
		assert.Equal(t, game.PlayerX, s.Winner)

		stored, err := repo.FindByID(ctx, "g-win")
		require.NoError(t, err)
		assert.Equal(t, *s, *stored)
	})

	t.Run("Concurrent updates are serialized", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewGame("g-race")))

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, m := range [][2]int{{0, 0}, {2, 2}} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(ctx, "g-race", func(s *game.State) error {
					return s.Move(game.PlayerX, m[0], m[1])
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok, rejected int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, game.ErrNotYourTurn):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, rejected)

		stored, err := repo.FindByID(ctx, "g-race")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.MoveCount)
	})
}

func TestSQLiteGameRepository(t *testing.T) {
	pool, err := db.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	testGameRepository(t, NewSQLiteGameRepository(pool))
}

func TestRedisGameRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb, err := db.NewRedisClient(ctx, opts.Addr)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	testGameRepository(t, NewRedisGameRepository(rdb))

	t.Run("Games expire", func(t *testing.T) {
		ttl, err := rdb.TTL(ctx, gameKey("g-create")).Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
	})
}

func TestGameRecord_Corrupt(t *testing.T) {
	_, err := gameRecord{ID: "g1", Board: "not json", CurrentPlayer: "X", Status: "ongoing"}.toState()
	assert.Error(t, err)

	_, err = gameRecord{ID: "g1", Board: `[["","",""],["","",""],["","",""]]`, CurrentPlayer: "X", Status: "win"}.toState()
	assert.Error(t, err)
}
