// Command holdem-watch is a spectator TUI: it auto-simulates hands with
// a uniform random policy and renders each action as it happens. It adds
// no engine semantics of its own; it is a presentation-only consumer of
// the game package, the browser-rendering-layer analog the core spec
// places out of scope.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"headsup-holdem/internal/game"
)

const actionDelay = 400 * time.Millisecond

var (
	potStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	boardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)
	logStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	winStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
)

type tickMsg struct{}

func tickAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

type model struct {
	rng           *rand.Rand
	startingStack int
	smallBlind    int
	bigBlind      int

	state     *game.State
	handNum   int
	log       []string
	logView   viewport.Model
	handsLeft int
	done      bool
}

func newModel(seed uint64, hands, stack, sb, bb int) model {
	rng := rand.New(rand.NewPCG(seed, seed^0xff51afd7ed558ccd))
	vp := viewport.New(60, 12)
	m := model{
		rng:           rng,
		startingStack: stack,
		smallBlind:    sb,
		bigBlind:      bb,
		handsLeft:     hands,
		logView:       vp,
	}
	m.dealNext()
	return m
}

func (m *model) dealNext() {
	m.handNum++
	m.state = game.NewHand(m.rng, m.startingStack, m.smallBlind, m.bigBlind)
	m.appendLog(fmt.Sprintf("--- hand %d ---", m.handNum))
}

func (m *model) appendLog(line string) {
	m.log = append(m.log, line)
	m.logView.SetContent(renderLog(m.log))
	m.logView.GotoBottom()
}

func renderLog(lines []string) string {
	rendered := make([]string, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "terminal") {
			rendered[i] = winStyle.Render(line)
		} else {
			rendered[i] = logStyle.Render(line)
		}
	}
	return strings.Join(rendered, "\n")
}

func (m model) Init() tea.Cmd {
	return tickAfter(actionDelay)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.logView.Width = msg.Width
		m.logView.Height = msg.Height - 6
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.logView.ScrollUp(1)
		case "down", "j":
			m.logView.ScrollDown(1)
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		return m.step()
	}
	return m, nil
}

func (m model) step() (tea.Model, tea.Cmd) {
	if m.state.Street == game.Terminal {
		r := game.TerminalPayoff(m.state)
		m.appendLog(fmt.Sprintf("terminal: reason=%s winner=%d chip_delta=%v", r.Reason, r.Winner, r.ChipDelta))
		m.handsLeft--
		if m.handsLeft <= 0 {
			m.done = true
			return m, nil
		}
		m.dealNext()
		return m, tickAfter(actionDelay)
	}

	a, ok := game.RandomLegalAction(m.state, m.rng)
	if !ok || !game.Apply(m.state, a) {
		m.appendLog("engine stalled, stopping")
		m.done = true
		return m, nil
	}
	m.appendLog(a.String())
	return m, tickAfter(actionDelay)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(boardStyle.Render(fmt.Sprintf("street: %s", m.state.Street)))
	b.WriteString("\n")
	b.WriteString(potStyle.Render(fmt.Sprintf("pot: %d", m.state.Pot)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("stacks: [%d, %d]\n", m.state.Stacks[0], m.state.Stacks[1]))

	if len(m.state.Board) > 0 {
		cards := make([]string, len(m.state.Board))
		for i, c := range m.state.Board {
			cards[i] = c.String()
		}
		b.WriteString(boardStyle.Render("board: " + strings.Join(cards, " ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n")

	if m.done {
		b.WriteString("\n(done — press q to quit)\n")
	}

	return b.String()
}

func main() {
	// Informational only: the engine's randomness doesn't depend on it,
	// and bubbletea/lipgloss already pick styling down to what the
	// terminal actually supports.
	fmt.Fprintln(os.Stderr, "holdem-watch: color profile", termenv.EnvColorProfile())

	seed := uint64(time.Now().UnixNano())
	m := newModel(seed, 10, 1000, 5, 10)

	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "holdem-watch:", err)
		os.Exit(1)
	}
}
