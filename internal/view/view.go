package view

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/controller"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"fmt"
)

const (
	BannerStarting = "Starting game..."
	BannerNoGame   = "No game in progress"
	BannerDraw     = "It's a draw!"
)

// CellView is one board cell as shown to the player.
type CellView struct {
	Symbol  string
	Enabled bool
}

// ViewModel is everything a renderer needs to draw the game.
type ViewModel struct {
	Cells    [3][3]CellView
	Banner   string
	Moves    string
	Error    string
	Loading  bool
	Terminal bool
	Winner   game.Mark
}

// Build maps a controller snapshot onto a view model. It has no side effects.
func Build(v controller.ViewState) ViewModel {
	vm := ViewModel{
		Error:   v.Error,
		Loading: v.Loading,
	}

	s := v.Session
	if s == nil {
		vm.Banner = BannerNoGame
		if v.Loading {
			vm.Banner = BannerStarting
		}
		return vm
	}

	playable := s.Status == game.StatusOngoing && !v.Loading
	for r, row := range s.Board {
		for c, cell := range row {
			vm.Cells[r][c] = CellView{
				Symbol:  string(cell),
				Enabled: playable && cell == game.Empty,
			}
		}
	}

	vm.Terminal = s.IsTerminal()
	vm.Moves = fmt.Sprintf("Moves: %d", s.MoveCount)
	switch s.Status {
	case game.StatusWin:
		vm.Banner = fmt.Sprintf("Player %s wins!", s.Winner)
		vm.Winner = s.Winner
	case game.StatusDraw:
		vm.Banner = BannerDraw
	default:
		vm.Banner = fmt.Sprintf("Current turn: %s", s.CurrentPlayer)
	}
	return vm
}
