package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	FieldBoard         = "board"
	FieldCurrentPlayer = "current_player"
	FieldStatus        = "status"
	FieldWinner        = "winner"
	FieldMoves         = "moves"

	gameTTL         = 24 * time.Hour
	maxWatchRetries = 5
)

type redisGameRepository struct {
	rdb *redis.Client
}

// NewRedisGameRepository creates a GameRepository storing each game as a hash.
func NewRedisGameRepository(rdb *redis.Client) GameRepository {
	return &redisGameRepository{rdb: rdb}
}

func gameKey(id string) string {
	return fmt.Sprintf("game:%s", id)
}

func (r *redisGameRepository) Create(ctx context.Context, s *game.State) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create", trace.WithAttributes(
		attribute.String("game.id", s.ID),
		attribute.String("db.system", "redis"),
	))
	defer span.End()

	rec, err := toRecord(s)
	if err != nil {
		return fail(span, err)
	}

	key := gameKey(s.ID)
	pipe := r.rdb.TxPipeline()
	writeRecord(ctx, pipe, key, rec)
	if _, err := pipe.Exec(ctx); err != nil {
		return fail(span, fmt.Errorf("failed to create game in redis: %w", err))
	}
	return nil
}

func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*game.State, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.String("db.system", "redis"),
	))
	defer span.End()

	s, err := readGame(ctx, r.rdb, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return s, nil
}

// Update runs fn inside a WATCH transaction and retries when another writer
// changed the game first.
func (r *redisGameRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.Update", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.String("db.system", "redis"),
	))
	defer span.End()

	key := gameKey(id)
	var updated *game.State
	txf := func(tx *redis.Tx) error {
		s, err := readGame(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		rec, err := toRecord(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			writeRecord(ctx, pipe, key, rec)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			span.AddEvent("watch conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
			continue
		}
		if err != nil {
			return nil, fail(span, err)
		}
		return updated, nil
	}
	return nil, fail(span, fmt.Errorf("game %s: too many concurrent updates", id))
}

func writeRecord(ctx context.Context, pipe redis.Pipeliner, key string, rec gameRecord) {
	pipe.HSet(ctx, key,
		FieldBoard, rec.Board,
		FieldCurrentPlayer, rec.CurrentPlayer,
		FieldStatus, rec.Status,
		FieldWinner, rec.Winner,
		FieldMoves, rec.Moves,
	)
	pipe.Expire(ctx, key, gameTTL)
}

func readGame(ctx context.Context, c redis.Cmdable, id string) (*game.State, error) {
	data, err := c.HGetAll(ctx, gameKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game state from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	moves, err := strconv.Atoi(data[FieldMoves])
	if err != nil {
		return nil, fmt.Errorf("failed to parse move count: %w", err)
	}
	return gameRecord{
		ID:            id,
		Board:         data[FieldBoard],
		CurrentPlayer: data[FieldCurrentPlayer],
		Status:        data[FieldStatus],
		Winner:        data[FieldWinner],
		Moves:         moves,
	}.toState()
}
