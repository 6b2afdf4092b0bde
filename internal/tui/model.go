package tui

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/controller"
	"ctchen222/Tic-Tac-Toe-Client/internal/view"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of the session controller the terminal UI drives.
type Controller interface {
	Move(row, col int)
	NewGame()
	Updates() <-chan controller.ViewState
}

type stateMsg controller.ViewState

type closedMsg struct{}

type styles struct {
	x, o, empty, cursor, banner, win, err, muted lipgloss.Style
}

func newStyles(t view.Theme) styles {
	return styles{
		x:      lipgloss.NewStyle().Foreground(t.X).Bold(true),
		o:      lipgloss.NewStyle().Foreground(t.O).Bold(true),
		empty:  lipgloss.NewStyle().Foreground(t.Empty),
		cursor: lipgloss.NewStyle().Background(t.Cursor),
		banner: lipgloss.NewStyle().Foreground(t.Banner).Bold(true),
		win:    lipgloss.NewStyle().Foreground(t.Win).Bold(true),
		err:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// Model is the Bubble Tea model of the game screen.
type Model struct {
	ctrl    Controller
	styles  styles
	spinner spinner.Model
	vm      view.ViewModel

	cursorRow, cursorCol int
}

func New(ctrl Controller, theme view.Theme) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Banner)

	return Model{
		ctrl:      ctrl,
		styles:    newStyles(theme),
		spinner:   sp,
		vm:        view.Build(controller.ViewState{Loading: true}),
		cursorRow: 1,
		cursorCol: 1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.ctrl.Updates()))
}

// waitForUpdate turns the next controller snapshot into a message.
func waitForUpdate(ch <-chan controller.ViewState) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return stateMsg(v)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.vm = view.Build(controller.ViewState(msg))
		return m, waitForUpdate(m.ctrl.Updates())

	case closedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursorRow > 0 {
				m.cursorRow--
			}
		case "down", "j":
			if m.cursorRow < 2 {
				m.cursorRow++
			}
		case "left", "h":
			if m.cursorCol > 0 {
				m.cursorCol--
			}
		case "right", "l":
			if m.cursorCol < 2 {
				m.cursorCol++
			}
		case "n":
			ctrl := m.ctrl
			return m, func() tea.Msg {
				ctrl.NewGame()
				return nil
			}
		case "enter", " ":
			if !m.vm.Cells[m.cursorRow][m.cursorCol].Enabled {
				break
			}
			ctrl, row, col := m.ctrl, m.cursorRow, m.cursorCol
			return m, func() tea.Msg {
				ctrl.Move(row, col)
				return nil
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.styles.banner.Render("  Tic-Tac-Toe"))
	b.WriteString("\n\n")

	for r, row := range m.vm.Cells {
		b.WriteString("    ")
		for c, cell := range row {
			b.WriteString(m.renderCell(r, c, cell))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	banner := m.styles.banner
	if m.vm.Winner != "" {
		banner = m.styles.win
	}
	b.WriteString("  " + banner.Render(m.vm.Banner))
	if m.vm.Loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if m.vm.Moves != "" {
		b.WriteString("  " + m.styles.muted.Render(m.vm.Moves) + "\n")
	}
	if m.vm.Error != "" {
		b.WriteString("  " + m.styles.err.Render(m.vm.Error) + "\n")
	}

	b.WriteString("\n  " + m.styles.muted.Render("arrows/hjkl move • enter play • n new game • q quit") + "\n")
	return b.String()
}

func (m Model) renderCell(r, c int, cell view.CellView) string {
	var style lipgloss.Style
	content := cell.Symbol
	switch content {
	case "X":
		style = m.styles.x
	case "O":
		style = m.styles.o
	default:
		content = " "
		style = m.styles.empty
	}

	if m.vm.Winner != "" && cell.Symbol == string(m.vm.Winner) {
		style = m.styles.win
	}
	if r == m.cursorRow && c == m.cursorCol && !m.vm.Terminal {
		style = style.Inherit(m.styles.cursor)
	}
	return style.Render("[" + content + "]")
}
