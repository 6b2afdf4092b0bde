package proto

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/internal/validator"
	"fmt"
)

// GameStateMessage is the body of POST /game and GET /game/{id}, and the
// nested state of a move response (without id).
type GameStateMessage struct {
	ID            string      `json:"id,omitempty"`
	Board         [][]*string `json:"board" validate:"required,len=3,dive,len=3"`
	CurrentPlayer string      `json:"current_player" validate:"required,mark"`
	Status        string      `json:"status" validate:"required,oneof=ongoing win draw"`
	Winner        *string     `json:"winner,omitempty"`
	Moves         *int        `json:"moves,omitempty" validate:"omitempty,min=0"`
}

// MoveRequest is the body of POST /move.
type MoveRequest struct {
	GameID string `json:"game_id" binding:"required" validate:"required"`
	Row    *int   `json:"row" binding:"required,min=0,max=2" validate:"required,min=0,max=2"`
	Col    *int   `json:"col" binding:"required,min=0,max=2" validate:"required,min=0,max=2"`
}

// MoveResponse is the body returned by POST /move. Valid=false is a normal
// outcome for an illegal move and carries the reason in Error.
type MoveResponse struct {
	Valid bool              `json:"valid"`
	State *GameStateMessage `json:"state,omitempty"`
	Error string            `json:"error,omitempty"`
}

// ErrorMessage is the body of a non-2xx response.
type ErrorMessage struct {
	Error string `json:"error"`
}

// NewMoveRequest builds a move request for the given cell.
func NewMoveRequest(gameID string, row, col int) MoveRequest {
	return MoveRequest{GameID: gameID, Row: &row, Col: &col}
}

// FromState converts a game state into its wire representation.
func FromState(s *game.State, withID bool) *GameStateMessage {
	board := make([][]*string, 3)
	for r, row := range s.Board.Rows() {
		board[r] = make([]*string, 3)
		for c, cell := range row {
			v := string(cell)
			board[r][c] = &v
		}
	}

	msg := &GameStateMessage{
		Board:         board,
		CurrentPlayer: string(s.CurrentPlayer),
		Status:        string(s.Status),
	}
	if withID {
		msg.ID = s.ID
	}
	if s.Status == game.StatusWin {
		w := string(s.Winner)
		msg.Winner = &w
	}
	moves := s.MoveCount
	msg.Moves = &moves
	return msg
}

// MovesPolicy decides the move count of a state whose message omitted "moves".
type MovesPolicy func(board game.Board) (int, error)

// MovesDefaultZero is used for freshly created sessions.
func MovesDefaultZero(game.Board) (int, error) { return 0, nil }

// MovesFromBoard derives the count from the occupied cells.
func MovesFromBoard(b game.Board) (int, error) { return b.OccupiedCells(), nil }

// MovesRequired rejects messages without a move count.
func MovesRequired(game.Board) (int, error) {
	return 0, fmt.Errorf("missing moves")
}

// ToState validates the message and converts it into a game state.
func (m *GameStateMessage) ToState(id string, policy MovesPolicy) (*game.State, error) {
	if err := validator.GetValidator().Struct(m); err != nil {
		return nil, fmt.Errorf("invalid game state message: %w", err)
	}

	var board game.Board
	for r, row := range m.Board {
		for c, cell := range row {
			mark, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("cell (%d, %d): %w", r, c, err)
			}
			board[r][c] = mark
		}
	}

	s := &game.State{
		ID:            id,
		Board:         board,
		CurrentPlayer: game.Mark(m.CurrentPlayer),
		Status:        game.Status(m.Status),
		Winner:        game.Empty,
	}
	if s.Status == game.StatusWin && m.Winner != nil {
		s.Winner = game.Mark(*m.Winner)
	}

	if m.Moves != nil {
		s.MoveCount = *m.Moves
	} else {
		n, err := policy(board)
		if err != nil {
			return nil, err
		}
		s.MoveCount = n
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseCell(cell *string) (game.Mark, error) {
	if cell == nil {
		return game.Empty, nil
	}
	switch v := *cell; v {
	case "", " ":
		return game.Empty, nil
	case string(game.PlayerX), string(game.PlayerO):
		return game.Mark(v), nil
	default:
		return game.Empty, fmt.Errorf("unknown mark %q", v)
	}
}
