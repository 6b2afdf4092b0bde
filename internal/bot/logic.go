package bot

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"fmt"
	"math/rand/v2"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts the config spelling of a difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown bot difficulty %q", s)
	}
}

type cell [2]int

var (
	lines = [8][3]cell{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
	corners = []cell{{0, 0}, {0, 2}, {2, 0}, {2, 2}}
	sides   = []cell{{0, 1}, {1, 0}, {1, 2}, {2, 1}}
)

// CalculateNextMove picks a cell for botMark. It returns (-1, -1) on a full board.
func CalculateNextMove(board game.Board, botMark game.Mark, difficulty Difficulty) (row, col int) {
	switch difficulty {
	case Easy:
		return easyMove(board)
	case Medium:
		return mediumMove(board, botMark)
	default:
		return hardMove(board, botMark)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board) (row, col int) {
	var available []cell
	for r, rowData := range board {
		for c, m := range rowData {
			if m == game.Empty {
				available = append(available, cell{r, c})
			}
		}
	}
	return pick(available)
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board, botMark game.Mark) (row, col int) {
	if r, c, ok := winOrBlock(board, botMark); ok {
		return r, c
	}
	return easyMove(board)
}

// hardMove wins or blocks, then prefers the center, a corner and a side in that order.
func hardMove(board game.Board, botMark game.Mark) (row, col int) {
	if r, c, ok := winOrBlock(board, botMark); ok {
		return r, c
	}

	if board[1][1] == game.Empty {
		return 1, 1
	}
	for _, group := range [][]cell{corners, sides} {
		if r, c := pick(free(board, group)); r != -1 {
			return r, c
		}
	}
	return -1, -1
}

func winOrBlock(board game.Board, botMark game.Mark) (row, col int, ok bool) {
	if r, c, found := findWinningMove(board, botMark); found {
		return r, c, true
	}
	return findWinningMove(board, botMark.Opponent())
}

// findWinningMove finds a line holding two of mark and one empty cell.
func findWinningMove(board game.Board, mark game.Mark) (row, col int, found bool) {
	for _, line := range lines {
		owned, empty := 0, cell{-1, -1}
		for _, p := range line {
			switch board[p[0]][p[1]] {
			case mark:
				owned++
			case game.Empty:
				empty = p
			}
		}
		if owned == 2 && empty[0] != -1 {
			return empty[0], empty[1], true
		}
	}
	return -1, -1, false
}

func free(board game.Board, group []cell) []cell {
	var out []cell
	for _, p := range group {
		if board[p[0]][p[1]] == game.Empty {
			out = append(out, p)
		}
	}
	return out
}

func pick(cells []cell) (row, col int) {
	if len(cells) == 0 {
		return -1, -1
	}
	p := cells[rand.IntN(len(cells))]
	return p[0], p[1]
}
