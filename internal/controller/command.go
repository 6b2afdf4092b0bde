package controller

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/client"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
)

const (
	opCreate = "create"
	opMove   = "move"
	opFetch  = "fetch"
)

type command interface{ isCommand() }

type newGameCmd struct{}

func (newGameCmd) isCommand() {}

type moveCmd struct{ row, col int }

func (moveCmd) isCommand() {}

type stateCmd struct {
	reply chan ViewState
}

func (stateCmd) isCommand() {}

// result carries a finished request back to the loop.
type result struct {
	op        string
	sessionID string
	seq       uint64
	state     game.State
	move      client.MoveResult
	err       error
}
