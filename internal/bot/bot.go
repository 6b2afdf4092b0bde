package bot

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Player is a computer opponent that answers a move after a thinking delay.
type Player struct {
	mark       game.Mark
	difficulty Difficulty
	delay      time.Duration
	clock      clockwork.Clock

	wg sync.WaitGroup
}

// NewPlayer creates a bot playing mark.
func NewPlayer(mark game.Mark, difficulty Difficulty, delay time.Duration, clock clockwork.Clock) *Player {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Player{
		mark:       mark,
		difficulty: difficulty,
		delay:      delay,
		clock:      clock,
	}
}

func (p *Player) Mark() game.Mark { return p.mark }

// Decide returns the bot's move for s, or ok=false when it is not the bot's turn.
func (p *Player) Decide(s *game.State) (row, col int, ok bool) {
	if s.IsTerminal() || s.CurrentPlayer != p.mark {
		return -1, -1, false
	}
	row, col = CalculateNextMove(s.Board, p.mark, p.difficulty)
	return row, col, row != -1
}

// Schedule runs play after the thinking delay unless ctx ends first.
func (p *Player) Schedule(ctx context.Context, gameID string, play func(ctx context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case <-p.clock.After(p.delay):
		case <-ctx.Done():
			return
		}

		slog.DebugContext(ctx, "Bot is playing", "game.id", gameID, "bot.mark", p.mark, "bot.difficulty", p.difficulty)
		if err := play(ctx); err != nil {
			slog.WarnContext(ctx, "Bot move failed", "game.id", gameID, "error", err)
		}
	}()
}

// Wait blocks until every scheduled move has finished.
func (p *Player) Wait() {
	p.wg.Wait()
}
