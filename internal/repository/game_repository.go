package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository.game")

var ErrGameNotFound = errors.New("game not found")

// UpdateFunc changes a game in place. Returning an error aborts the update.
type UpdateFunc func(s *game.State) error

// GameRepository defines the interface for game data operations.
type GameRepository interface {
	Create(ctx context.Context, s *game.State) error
	FindByID(ctx context.Context, id string) (*game.State, error)
	// Update loads the game, applies fn and stores the result atomically.
	Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error)
}

// gameRecord is the stored form of a game shared by both backends.
type gameRecord struct {
	ID            string `db:"id"`
	Board         string `db:"board"`
	CurrentPlayer string `db:"current_player"`
	Status        string `db:"status"`
	Winner        string `db:"winner"`
	Moves         int    `db:"moves"`
}

func toRecord(s *game.State) (gameRecord, error) {
	board, err := json.Marshal(s.Board)
	if err != nil {
		return gameRecord{}, fmt.Errorf("failed to marshal board: %w", err)
	}
	return gameRecord{
		ID:            s.ID,
		Board:         string(board),
		CurrentPlayer: string(s.CurrentPlayer),
		Status:        string(s.Status),
		Winner:        string(s.Winner),
		Moves:         s.MoveCount,
	}, nil
}

func (r gameRecord) toState() (*game.State, error) {
	s := &game.State{
		ID:            r.ID,
		CurrentPlayer: game.Mark(r.CurrentPlayer),
		Status:        game.Status(r.Status),
		Winner:        game.Mark(r.Winner),
		MoveCount:     r.Moves,
	}
	if err := json.Unmarshal([]byte(r.Board), &s.Board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("stored game %s is corrupt: %w", r.ID, err)
	}
	return s, nil
}

func fail(span trace.Span, err error) error {
	if !errors.Is(err, ErrGameNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
