package tui

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/controller"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/internal/view"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	moves    [][2]int
	newGames int
	updates  chan controller.ViewState
}

func newFake() *fakeController {
	return &fakeController{updates: make(chan controller.ViewState, 1)}
}

func (f *fakeController) Move(row, col int) { f.moves = append(f.moves, [2]int{row, col}) }
func (f *fakeController) NewGame() { f.newGames++ }
func (f *fakeController) Updates() <-chan controller.ViewState { return f.updates }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func ongoing() controller.ViewState {
	s := game.NewGame("g1")
	s.Board[1][1] = game.PlayerX
	s.CurrentPlayer = game.PlayerO
	s.MoveCount = 1
	return controller.ViewState{Session: s, Polling: true}
}

func TestModel_StateUpdates(t *testing.T) {
	f := newFake()
	m := New(f, view.DefaultTheme())

	m, cmd := send(t, m, stateMsg(ongoing()))
	require.NotNil(t, cmd, "keeps listening for updates")
	assert.Equal(t, "Current turn: O", m.vm.Banner)
	assert.Contains(t, m.View(), "Moves: 1")

	f.updates <- controller.ViewState{Loading: true}
	assert.Equal(t, stateMsg(controller.ViewState{Loading: true}), cmd())

	close(f.updates)
	assert.Equal(t, closedMsg{}, waitForUpdate(f.updates)())
}

func TestModel_Keys(t *testing.T) {
	t.Run("Plays the cell under the cursor", func(t *testing.T) {
		f := newFake()
		m, _ := send(t, New(f, view.DefaultTheme()), stateMsg(ongoing()))

		m, _ = send(t, m, key("up"))
		m, _ = send(t, m, key("left"))
		m, cmd := send(t, m, key("enter"))
		require.NotNil(t, cmd)
		cmd()

		assert.Equal(t, [][2]int{{0, 0}}, f.moves)
		assert.Equal(t, 0, m.cursorRow)
	})

	t.Run("Occupied cell is not sent", func(t *testing.T) {
		f := newFake()
		m, _ := send(t, New(f, view.DefaultTheme()), stateMsg(ongoing()))

		// cursor starts in the center, which X holds
		_, cmd := send(t, m, key("enter"))
		assert.Nil(t, cmd)
		assert.Empty(t, f.moves)
	})

	t.Run("Nothing is playable while loading", func(t *testing.T) {
		f := newFake()
		v := ongoing()
		v.Loading = true
		m, _ := send(t, New(f, view.DefaultTheme()), stateMsg(v))

		m, _ = send(t, m, key("k"))
		_, cmd := send(t, m, key(" "))
		assert.Nil(t, cmd)
		assert.Empty(t, f.moves)
	})

	t.Run("New game", func(t *testing.T) {
		f := newFake()
		_, cmd := send(t, New(f, view.DefaultTheme()), key("n"))
		require.NotNil(t, cmd)
		cmd()
		assert.Equal(t, 1, f.newGames)
	})

	t.Run("Cursor stays on the board", func(t *testing.T) {
		m := New(newFake(), view.DefaultTheme())
		for i := 0; i < 5; i++ {
			m, _ = send(t, m, key("j"))
			m, _ = send(t, m, key("l"))
		}
		assert.Equal(t, 2, m.cursorRow)
		assert.Equal(t, 2, m.cursorCol)
	})

	t.Run("Quit", func(t *testing.T) {
		_, cmd := send(t, New(newFake(), view.DefaultTheme()), key("q"))
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestModel_View(t *testing.T) {
	s := game.NewGame("g1")
	s.Board = game.Board{
		{game.PlayerX, game.PlayerX, game.PlayerX},
		{game.PlayerO, game.PlayerO, game.Empty},
		{game.Empty, game.Empty, game.Empty},
	}
	s.Status = game.StatusWin
	s.Winner = game.PlayerX
	s.MoveCount = 5

	m, _ := send(t, New(newFake(), view.DefaultTheme()), stateMsg(controller.ViewState{Session: s, Error: "Failed to fetch game state"}))
	out := m.View()

	assert.Contains(t, out, "Player X wins!")
	assert.Contains(t, out, "Moves: 5")
	assert.Contains(t, out, "Failed to fetch game state")
}
