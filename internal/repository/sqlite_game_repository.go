package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type sqliteGameRepository struct {
	db *sqlx.DB
}

// NewSQLiteGameRepository creates a GameRepository backed by the games table.
func NewSQLiteGameRepository(db *sqlx.DB) GameRepository {
	return &sqliteGameRepository{db: db}
}

func (r *sqliteGameRepository) Create(ctx context.Context, s *game.State) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create", trace.WithAttributes(
		attribute.String("game.id", s.ID),
		attribute.String("db.system", "sqlite"),
	))
	defer span.End()

	rec, err := toRecord(s)
	if err != nil {
		return fail(span, err)
	}

	const query = `INSERT INTO games (id, board, current_player, status, winner, moves)
		VALUES (:id, :board, :current_player, :status, :winner, :moves)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fail(span, fmt.Errorf("failed to insert game: %w", err))
	}
	return nil
}

func (r *sqliteGameRepository) FindByID(ctx context.Context, id string) (*game.State, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.String("db.system", "sqlite"),
	))
	defer span.End()

	s, err := findGame(ctx, r.db, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return s, nil
}

func (r *sqliteGameRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.Update", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.String("db.system", "sqlite"),
	))
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	s, err := findGame(ctx, tx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := fn(s); err != nil {
		return nil, err
	}

	rec, err := toRecord(s)
	if err != nil {
		return nil, fail(span, err)
	}
	const query = `UPDATE games SET board = :board, current_player = :current_player,
		status = :status, winner = :winner, moves = :moves, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
		return nil, fail(span, fmt.Errorf("failed to update game: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return nil, fail(span, fmt.Errorf("failed to commit game update: %w", err))
	}
	return s, nil
}

func findGame(ctx context.Context, q sqlx.QueryerContext, id string) (*game.State, error) {
	var rec gameRecord
	err := sqlx.GetContext(ctx, q, &rec,
		`SELECT id, board, current_player, status, winner, moves FROM games WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	return rec.toState()
}
