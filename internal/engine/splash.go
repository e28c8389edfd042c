//go:build !js

package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TickMsg is sent to advance the splash tick counter.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

var taglines = []string{
	"nya~ engine warming up",
	"now with 100% more whiskers",
	"purring at a steady frame rate",
	"landing on its feet since boot",
}

type splashKeyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

func (k splashKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Quit}
}

func (k splashKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var splashKeys = splashKeyMap{
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	taglineStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("13")).
			Padding(1, 3)
)

// SplashModel is the screen shown by the local client and by every
// dedicated server session.
type SplashModel struct {
	title    string
	version  string
	mode     Mode
	user     string
	app      string
	tagline  string
	tickRate int

	ticks    uint64
	paused   bool
	quitting bool
	width    int
	height   int

	keys splashKeyMap
	help help.Model
}

// NewSplashModel creates a splash screen for s. user is empty for the local client.
func NewSplashModel(s Settings, version, user string) SplashModel {
	rng := rand.New(rand.NewPCG(uint64(s.seed()), 0))
	return SplashModel{
		title:    s.Title,
		version:  version,
		mode:     s.Mode,
		user:     user,
		tagline:  taglines[rng.IntN(len(taglines))],
		tickRate: s.TickRate,
		keys:     splashKeys,
		help:     help.New(),
	}
}

// WithApp returns a copy of m that shows the embedding application's name.
func (m SplashModel) WithApp(name string) SplashModel {
	m.app = name
	return m
}

// Init starts the tick loop.
func (m SplashModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		if !m.paused {
			m.ticks++
		}
		return m, tickCmd(m.tickRate)
	}
	return m, nil
}

// View renders the splash screen.
func (m SplashModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(taglineStyle.Render(m.tagline))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("version"), m.version)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("mode   "), m.mode)
	if m.user != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("user   "), m.user)
	}
	if m.app != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("app    "), m.app)
	}
	fmt.Fprintf(&b, "%s %d @ %d/s", labelStyle.Render("ticks  "), m.ticks, m.tickRate)
	if m.paused {
		b.WriteString(" " + pausedStyle.Render("(paused)"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	box := boxStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Ticks returns how many unpaused ticks have elapsed.
func (m SplashModel) Ticks() uint64 {
	return m.ticks
}

// Paused reports whether the tick counter is paused.
func (m SplashModel) Paused() bool {
	return m.paused
}

// IsQuitting returns true if the user requested to quit.
func (m SplashModel) IsQuitting() bool {
	return m.quitting
}
