package game

import (
	"errors"
	"fmt"
)

// Mark represents the mark of a player (X, O) or an empty cell.
type Mark string

// Status is the lifecycle stage of a game session.
type Status string

const (
	// Player marks
	Empty   Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	// Game statuses
	StatusOngoing Status = "ongoing"
	StatusWin     Status = "win"
	StatusDraw    Status = "draw"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2
)

var (
	ErrGameFinished = errors.New("game is already over")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrNotYourTurn  = errors.New("it's not your turn")

	ErrInvalidState = errors.New("invalid game state")
)

// Board is the 3x3 grid, indexed [row][col].
type Board [3][3]Mark

// State is a snapshot of one game session as reported by the server.
type State struct {
	ID            string
	Board         Board
	CurrentPlayer Mark
	Status        Status
	Winner        Mark // Empty unless Status is StatusWin
	MoveCount     int
}

func (s Status) IsTerminal() bool {
	return s == StatusWin || s == StatusDraw
}

func (s Status) Valid() bool {
	switch s {
	case StatusOngoing, StatusWin, StatusDraw:
		return true
	}
	return false
}

func (m Mark) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// InBounds reports whether row and col address a cell of the board.
func InBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}

// NewGame returns a fresh session. X always moves first.
func NewGame(id string) *State {
	return &State{
		ID:            id,
		Board:         Board{},
		CurrentPlayer: PlayerX,
		Status:        StatusOngoing,
		Winner:        Empty,
	}
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *State) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// Validate checks the invariants that tie status, winner and turn together.
func (s *State) Validate() error {
	if !s.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, s.Status)
	}
	if !s.CurrentPlayer.IsPlayer() {
		return fmt.Errorf("%w: unknown current player %q", ErrInvalidState, s.CurrentPlayer)
	}
	if s.Status == StatusWin && !s.Winner.IsPlayer() {
		return fmt.Errorf("%w: win without a winner", ErrInvalidState)
	}
	if s.Status != StatusWin && s.Winner != Empty {
		return fmt.Errorf("%w: winner %q set while status is %s", ErrInvalidState, s.Winner, s.Status)
	}
	if s.MoveCount < 0 {
		return fmt.Errorf("%w: negative move count", ErrInvalidState)
	}
	return nil
}

// Move places mark at (row, col) and advances the game.
func (s *State) Move(mark Mark, row, col int) error {
	if s.IsTerminal() {
		return ErrGameFinished
	}
	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidCell, row, col)
	}
	if s.Board[row][col] != Empty {
		return ErrCellOccupied
	}
	if s.CurrentPlayer != mark {
		return ErrNotYourTurn
	}

	s.Board[row][col] = mark
	s.MoveCount++

	switch winner := CheckWinner(s.Board); {
	case winner != Empty:
		s.Status = StatusWin
		s.Winner = winner
	case IsBoardFull(s.Board):
		s.Status = StatusDraw
	default:
		s.CurrentPlayer = mark.Opponent()
	}
	return nil
}

// OccupiedCells counts the non-empty cells of the board.
func (b Board) OccupiedCells() int {
	n := 0
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// Rows converts the board to a slice of slices, the shape used on the wire.
func (b Board) Rows() [][]Mark {
	rows := make([][]Mark, 3)
	for i := range [3]int{} {
		rows[i] = make([]Mark, 3)
		copy(rows[i], b[i][:])
	}
	return rows
}

// CheckWinner returns the mark holding a full line, or Empty.
func CheckWinner(b Board) Mark {
	// Check rows
	for i := range [3]int{} {
		if b[i][0] != Empty && b[i][0] == b[i][1] && b[i][1] == b[i][2] {
			return b[i][0]
		}
	}

	// Check columns
	for i := range [3]int{} {
		if b[0][i] != Empty && b[0][i] == b[1][i] && b[1][i] == b[2][i] {
			return b[0][i]
		}
	}

	// Check diagonals
	if b[0][0] != Empty && b[0][0] == b[1][1] && b[1][1] == b[2][2] {
		return b[0][0]
	}
	if b[0][2] != Empty && b[0][2] == b[1][1] && b[1][1] == b[2][0] {
		return b[0][2]
	}

	return Empty
}

// IsBoardFull reports whether no empty cell is left.
func IsBoardFull(b Board) bool {
	return b.OccupiedCells() == 9
}
