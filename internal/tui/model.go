// Package tui is the interactive terminal rendition of the chat widget.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/chat-widget/internal"
)

const (
	defaultWidth  = 80
	defaultHeight = 20

	// header, status, input and help lines around the viewport
	chromeHeight = 6
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	identityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	launcherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// historyChangedMsg is delivered whenever the session store persisted a change
type historyChangedMsg struct{}

// exchangeDoneMsg is delivered when one exchange reached a terminal state
type exchangeDoneMsg struct {
	exchange *internal.Exchange
}

// Model is the bubbletea model for the chat widget. The transcript pane is
// always RenderHistory of the store's current history.
type Model struct {
	ctx     context.Context
	chat    *internal.Chat
	changes chan struct{}

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	open    bool
	pending int
	err     error
}

// New creates the model and subscribes it to store changes
func New(ctx context.Context, chat *internal.Chat) Model {
	input := textinput.New()
	input.Placeholder = "Type a message... (enter to send)"
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Width = defaultWidth - 4
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		chat:     chat,
		changes:  make(chan struct{}, 1),
		viewport: viewport.New(defaultWidth, defaultHeight),
		input:    input,
		spinner:  sp,
		open:     true,
	}

	changes := m.changes
	chat.Store().Subscribe(func(internal.History) {
		// Coalesce: a pending signal already means "re-read the store".
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	m.refresh()
	return m
}

// waitForChange blocks until the store signals a change
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return historyChangedMsg{}
	}
}

func waitForExchange(ex *internal.Exchange) tea.Cmd {
	return func() tea.Msg {
		<-ex.Done()
		return exchangeDoneMsg{exchange: ex}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForChange(m.changes),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+o":
			m.open = !m.open
			if m.open {
				m.refresh()
			}
			return m, nil
		}

		if !m.open {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case historyChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case exchangeDoneMsg:
		m.pending--
		if err := msg.exchange.Err(); err != nil {
			internal.LogDebug("Exchange %s surfaced as diagnostic: %v", msg.exchange.ID, err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	ex, err := m.chat.Submit(m.ctx, m.input.Value())
	if errors.Is(err, internal.ErrEmptyMessage) {
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.input.Reset()
	m.refresh()

	m.pending++
	cmds := []tea.Cmd{waitForExchange(ex)}
	if m.pending == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// refresh re-projects the store's history into the viewport
func (m *Model) refresh() {
	m.viewport.SetContent(internal.RenderHistory(m.chat.Store().History(), m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.open {
		return launcherStyle.Render("💬 Chat") + "  " + helpStyle.Render("ctrl+o to open • ctrl+c to quit")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Chat"))
	if id := m.chat.Store().Identity(); id != "" {
		b.WriteString(identityStyle.Render(id))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send • ctrl+o hide • ↑/↓ scroll • ctrl+c quit"))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.pending == 1:
		return m.spinner.View() + statusStyle.Render("waiting for reply")
	case m.pending > 1:
		return m.spinner.View() + statusStyle.Render(fmt.Sprintf("waiting for %d replies", m.pending))
	default:
		return ""
	}
}

// Pending reports the number of exchanges still waiting for the backend
func (m Model) Pending() int {
	return m.pending
}

// Run starts the interactive program on the alternate screen
func Run(ctx context.Context, chat *internal.Chat, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, chat), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat ui failed: %w", err)
	}
	return nil
}
