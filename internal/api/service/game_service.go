package service

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/bot"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("service.game")

// ErrBotsTurn is returned when a player moves while the bot is thinking.
var ErrBotsTurn = errors.New("waiting for the bot")

// GameService defines the game rules exposed over HTTP.
type GameService interface {
	Create(ctx context.Context) (*game.State, error)
	Get(ctx context.Context, id string) (*game.State, error)
	Move(ctx context.Context, id string, row, col int) (*game.State, error)
	Close()
}

type gameService struct {
	repo repository.GameRepository
	bot  *bot.Player // nil for hot-seat play

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewGameService creates a GameService. With a nil bot both marks are played
// by the client.
func NewGameService(repo repository.GameRepository, opponent *bot.Player) GameService {
	ctx, cancel := context.WithCancel(context.Background())
	return &gameService{
		repo:   repo,
		bot:    opponent,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *gameService) Create(ctx context.Context) (*game.State, error) {
	ctx, span := tracer.Start(ctx, "GameService.Create")
	defer span.End()

	st := game.NewGame(uuid.New().String())
	if err := s.repo.Create(ctx, st); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create game")
		return nil, err
	}

	span.SetAttributes(attribute.String("game.id", st.ID))
	slog.InfoContext(ctx, "Game created", "game.id", st.ID)
	return st, nil
}

func (s *gameService) Get(ctx context.Context, id string) (*game.State, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *gameService) Move(ctx context.Context, id string, row, col int) (*game.State, error) {
	ctx, span := tracer.Start(ctx, "GameService.Move", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	st, err := s.repo.Update(ctx, id, func(st *game.State) error {
		if s.bot != nil && !st.IsTerminal() && st.CurrentPlayer == s.bot.Mark() {
			return ErrBotsTurn
		}
		return st.Move(st.CurrentPlayer, row, col)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	slog.DebugContext(ctx, "Move applied", "game.id", id, "move.row", row, "move.col", col, "game.status", st.Status)
	s.scheduleBot(ctx, st)
	return st, nil
}

// scheduleBot lets the bot answer once it is its turn. The move outlives the
// request but not the service.
func (s *gameService) scheduleBot(ctx context.Context, st *game.State) {
	if s.bot == nil || st.IsTerminal() || st.CurrentPlayer != s.bot.Mark() {
		return
	}

	link := trace.LinkFromContext(ctx)
	s.bot.Schedule(s.ctx, st.ID, func(ctx context.Context) error {
		ctx, span := tracer.Start(ctx, "GameService.botMove", trace.WithLinks(link),
			trace.WithAttributes(attribute.String("game.id", st.ID)))
		defer span.End()

		_, err := s.repo.Update(ctx, st.ID, func(cur *game.State) error {
			row, col, ok := s.bot.Decide(cur)
			if !ok {
				return errNothingToPlay
			}
			return cur.Move(s.bot.Mark(), row, col)
		})
		if errors.Is(err, errNothingToPlay) {
			return nil
		}
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("bot move: %w", err)
		}
		return nil
	})
}

var errNothingToPlay = errors.New("nothing to play")

// Close cancels pending bot moves and waits for running ones.
func (s *gameService) Close() {
	s.once.Do(func() {
		s.cancel()
		if s.bot != nil {
			s.bot.Wait()
		}
	})
}
