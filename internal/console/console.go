// Package console provides the interactive script console: a terminal
// REPL that executes code in a running interpreter session's global
// scope, used for level debugging and live tweaking.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kumoworks/kumo/internal/config"
	"github.com/kumoworks/kumo/internal/script"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// KeyMap defines the key bindings for the console.
type KeyMap struct {
	Submit  key.Binding
	PrevHst key.Binding
	NextHst key.Binding
	Clear   key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.PrevHst, k.NextHst, k.Clear, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.PrevHst, k.NextHst},
		{k.Clear, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		PrevHst: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "older input"),
		),
		NextHst: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "newer input"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear screen"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// line is one rendered transcript entry.
type line struct {
	text  string
	style lipgloss.Style
}

// Model is the Bubble Tea model for the script console.
type Model struct {
	session    *script.Session
	input      textinput.Model
	help       help.Model
	keys       KeyMap
	transcript []line
	history    []string
	histIdx    int // len(history) means "editing a fresh line"
	histMax    int
	width      int
	height     int
	quitting   bool
}

// New creates a console over the given session.
func New(session *script.Session, cfg config.ConsoleConfig) Model {
	input := textinput.New()
	input.Prompt = cfg.Prompt
	if input.Prompt == "" {
		input.Prompt = "> "
	}
	input.PromptStyle = promptStyle
	input.Focus()

	histMax := cfg.HistorySize
	if histMax <= 0 {
		histMax = 200
	}

	return Model{
		session: session,
		input:   input,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		histIdx: 0,
		histMax: histMax,
	}
}

// Init initializes the console model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the console.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.PrevHst):
			m.recall(-1)
			return m, nil
		case key.Matches(msg, m.keys.NextHst):
			m.recall(1)
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.transcript = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit executes the current input line against the session.
func (m Model) submit() (tea.Model, tea.Cmd) {
	code := strings.TrimSpace(m.input.Value())
	if code == "" {
		return m, nil
	}

	m.transcript = append(m.transcript, line{
		text:  m.input.Prompt + code,
		style: faintStyle,
	})
	m.pushHistory(code)

	ok, msg := m.session.RunCode(code)
	if ok {
		m.transcript = append(m.transcript, line{text: "ok", style: okStyle})
	} else {
		m.transcript = append(m.transcript, line{text: msg, style: errorStyle})
	}

	m.input.SetValue("")
	m.histIdx = len(m.history)
	return m, nil
}

// pushHistory appends code to the input history, dropping the oldest
// entries past the configured limit.
func (m *Model) pushHistory(code string) {
	if n := len(m.history); n > 0 && m.history[n-1] == code {
		return
	}
	m.history = append(m.history, code)
	if len(m.history) > m.histMax {
		m.history = m.history[len(m.history)-m.histMax:]
	}
}

// recall moves through the input history.
func (m *Model) recall(delta int) {
	idx := m.histIdx + delta
	if idx < 0 || idx > len(m.history) {
		return
	}
	m.histIdx = idx
	if idx == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[idx])
	m.input.CursorEnd()
}

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("script console — %s", m.session.Level().Name)))
	b.WriteString("\n\n")

	visible := m.transcript
	if m.height > 0 {
		// Leave room for the title, input line and help line.
		max := m.height - 5
		if max > 0 && len(visible) > max {
			visible = visible[len(visible)-max:]
		}
	}
	for _, ln := range visible {
		b.WriteString(ln.style.Render(ln.text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
