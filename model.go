package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"go-match/internal/game"
	"go-match/internal/layout"
	"go-match/internal/match"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	frameInterval = time.Second / 60
	// Long stalls (suspend, a slow terminal) must not teleport the round.
	maxFrameDelta = 0.1

	headerRows = 2
	footerRows = 3
)

var (
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type model struct {
	session *game.Session
	keys    keyMap
	help    help.Model
	timer   progress.Model

	width, height int
	view          layout.Viewport
	board         board
	cursor        int
	dealt         *game.Game
	last          time.Time
}

func newModel(sess *game.Session) *model {
	return &model{
		session: sess,
		keys:    defaultKeyMap(),
		help:    help.New(),
		timer:   progress.New(progress.WithGradient("#ff595e", "#8ac926"), progress.WithoutPercentage()),
	}
}

func (m *model) Init() tea.Cmd {
	return frameCmd()
}

func (m *model) game() *game.Game {
	return m.session.CurrentGame
}

// relayout refits the design area to the terminal and places the cards.
func (m *model) relayout() {
	rows := max(m.height-headerRows-footerRows, 1)
	display := layout.Size{W: float64(m.width), H: float64(rows * cellAspect)}
	m.view = layout.Fit(layout.DesignSize, display)
	m.session.SetViewport(m.view)

	m.board = layoutBoard(len(m.game().Controller.Views()), fieldRect(m.view, 0))
	m.dealt = m.game()
	m.cursor = min(m.cursor, max(len(m.board.cards)-1, 0))
	m.help.Width = m.width
	m.timer.Width = max(m.width-12, 10)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		dt := 0.0
		if !m.last.IsZero() {
			dt = min(now.Sub(m.last).Seconds(), maxFrameDelta)
		}
		m.last = now
		m.session.Step(dt)
		if m.game() != m.dealt || len(m.board.cards) != len(m.game().Controller.Views()) {
			m.cursor = 0
			m.relayout()
		}
		return m, frameCmd()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		y := msg.Y - headerRows
		if i := m.board.hit(msg.X, y); i >= 0 {
			m.cursor = i
			m.game().Tap(i)
			return m, nil
		}
		m.game().Celebrate(layout.Point{X: float64(msg.X) + 0.5, Y: float64(y*cellAspect) + 1})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor = m.board.move(m.cursor, 0, -1)
		case key.Matches(msg, m.keys.Down):
			m.cursor = m.board.move(m.cursor, 0, 1)
		case key.Matches(msg, m.keys.Left):
			m.cursor = m.board.move(m.cursor, -1, 0)
		case key.Matches(msg, m.keys.Right):
			m.cursor = m.board.move(m.cursor, 1, 0)
		case key.Matches(msg, m.keys.Tap):
			m.game().Tap(m.cursor)
		case key.Matches(msg, m.keys.Restart):
			if err := m.session.Restart(); err != nil {
				log.Printf("ui: restart: %v", err)
			}
		case key.Matches(msg, m.keys.Confetti):
			m.game().Emitter.PlayCentered()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

func (m *model) header() string {
	g := m.game()
	c := g.Controller

	title := fmt.Sprintf("┃ DECK: %s", g.Deck().Name)
	if m.session.IsBatch {
		title += fmt.Sprintf(" (%d/%d)", m.session.CurrentIndex+1, len(m.session.Decks))
	}

	status := fmt.Sprintf("SCORE: %d | PAIRS: %d/%d | TURNS: %d | MISSES: %d",
		max(g.Score.CurrentScore, 0), c.Matches(), c.TotalPairs(), c.Turns(), c.Mismatches())
	if m.session.IsBatch {
		status += fmt.Sprintf(" | TOTAL: %d", m.session.TotalScore)
	}
	if hs := g.Score.GetHighScore(); hs != nil {
		status += fmt.Sprintf(" | BEST: %d", hs.Score)
	}
	return titleStyle.Render(title) + "\n" + scoreStyle.Render(status)
}

func (m *model) footer() string {
	g := m.game()
	c := g.Controller

	var timer string
	if c.TimeLimit() > 0 {
		pct := c.Remaining() / c.TimeLimit()
		style := scoreStyle
		if pct <= 1.0/3.0 {
			style = redStyle
		}
		timer = m.timer.ViewAs(pct) + " " + style.Render(c.TimerText())
	}

	var message string
	switch {
	case m.session.IsFinished():
		message = greenStyle.Render(fmt.Sprintf("All decks cleared! Total score: %d", m.session.TotalScore))
		if g.Score.GotHighScore() {
			message += greenStyle.Render(" New high score!")
		}
	case g.Won():
		message = greenStyle.Render(fmt.Sprintf("Deck cleared in %d turns! Next deck coming up...", c.Turns()))
	case c.State() == match.Lose:
		message = redStyle.Render(fmt.Sprintf("Time's up! Final score: %d. Press r to try again.", max(g.Score.CurrentScore, 0)))
	case g.Score.GetAttempts() == 0:
		message = "This is your first try with this deck! Good luck!"
	default:
		message = fmt.Sprintf("Attempt: %d", g.Score.GetAttempts()+1)
		if best := g.Score.BestTime(); best > 0 {
			message += fmt.Sprintf(" | Fastest clear: %.1fs", best)
		}
	}

	return timer + "\n" + message + "\n" + m.help.View(m.keys)
}

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	rows := max(m.height-headerRows-footerRows, 1)
	c := newCanvas(m.width, rows)
	for i, v := range m.game().Controller.Views() {
		if i >= len(m.board.cards) {
			break
		}
		drawCard(c, m.board.cards[i], v, i == m.cursor && !m.game().Controller.IsOver())
	}
	drawParticles(c, m.view, 0, m.game().Emitter.Active())

	return strings.Join([]string{m.header(), c.String(), m.footer()}, "\n")
}
