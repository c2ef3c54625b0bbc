// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arnavsh/safety-copilot/internal/types"
)

// SnapshotMsg carries a debounced display snapshot of the open session.
type SnapshotMsg types.Snapshot

// ClosedMsg carries the final snapshot of a session that just closed.
type ClosedMsg types.Snapshot

// ErrMsg carries a stream failure that produced no content.
type ErrMsg struct{ Err error }

// Model is the Bubble Tea model for the copilot chat surface.
type Model struct {
	// UI components
	textInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model
	styles    Styles

	// State
	exchanges []types.Snapshot
	current   *types.Snapshot
	notices   []string
	dataset   types.Dataset
	busy      bool
	width     int
	height    int
	ready     bool
	quitting  bool
	err       error

	// Session control (injected)
	ask  func(question string, dataset types.Dataset) tea.Cmd
	stop func()
}

// NewModel creates a new chat model. ask starts a question against the
// agent; stop cancels the open session.
func NewModel(dataset types.Dataset, ask func(question string, dataset types.Dataset) tea.Cmd, stop func()) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your safety data... (e.g., 'Top 5 departments by incident count')"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9"))

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.DefaultKeyMap()

	return Model{
		textInput: ti,
		spinner:   s,
		viewport:  vp,
		styles:    DefaultStyles(),
		dataset:   dataset,
		exchanges: make([]types.Snapshot, 0),
		ask:       ask,
		stop:      stop,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// headerHeight returns the number of terminal lines occupied by the banner.
func (m Model) headerHeight() int {
	banner := m.styles.BannerTitle.Render(Banner())
	return lipgloss.Height(banner) + 2 // +2 for the two "\n" after the banner
}

// footerHeight returns the number of terminal lines occupied by the input + help bar.
func (m Model) footerHeight() int {
	// 1 blank line + 1 prompt/input line + 1 newline + 1 help bar = 4
	return 4
}

// updateViewport rebuilds the viewport content and scrolls to the bottom.
func (m *Model) updateViewport() {
	var b strings.Builder

	for _, n := range m.notices {
		b.WriteString(m.styles.SystemMessage.Render(n))
		b.WriteString("\n")
	}

	for i := range m.exchanges {
		b.WriteString(m.renderExchange(&m.exchanges[i], false))
		b.WriteString("\n")
	}

	if m.current != nil {
		b.WriteString(m.renderExchange(m.current, true))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.stop != nil {
				m.stop()
			}
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEsc:
			if m.busy {
				if m.stop != nil {
					m.stop()
				}
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}

			query := strings.TrimSpace(m.textInput.Value())
			if query == "" {
				return m, nil
			}

			if cmd, handled := m.handleCommand(query); handled {
				m.updateViewport()
				return m, cmd
			}

			m.textInput.SetValue("")
			m.busy = true
			m.err = nil
			m.current = &types.Snapshot{
				Question: query,
				Dataset:  m.dataset,
				Stage:    "starting",
				Active:   true,
			}
			m.updateViewport()

			if m.ask != nil {
				cmds = append(cmds, m.ask(query, m.dataset))
			}

			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10

		vpWidth := msg.Width
		vpHeight := msg.Height - m.headerHeight() - m.footerHeight()
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.viewport.KeyMap = viewport.DefaultKeyMap()
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}

		m.ready = true
		m.updateViewport()

	case SnapshotMsg:
		snap := types.Snapshot(msg)
		if snap.Active {
			m.current = &snap
		}
		m.updateViewport()

	case ClosedMsg:
		snap := types.Snapshot(msg)
		m.busy = false
		m.current = nil
		if snap.Question != "" {
			m.exchanges = append(m.exchanges, snap)
		}
		m.updateViewport()

	case ErrMsg:
		m.err = msg.Err
		m.busy = false
		m.current = nil
		m.notices = append(m.notices, fmt.Sprintf("Error: %v", msg.Err))
		m.updateViewport()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.busy {
			// Refresh viewport to update spinner frame
			m.updateViewport()
		}
	}

	if !m.busy {
		var tiCmd tea.Cmd
		m.textInput, tiCmd = m.textInput.Update(msg)
		cmds = append(cmds, tiCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

// handleCommand processes slash-free special commands. The second return
// reports whether the input was consumed.
func (m *Model) handleCommand(input string) (tea.Cmd, bool) {
	fields := strings.Fields(strings.ToLower(input))
	switch fields[0] {
	case "exit", "quit", "q":
		if m.stop != nil {
			m.stop()
		}
		m.quitting = true
		return tea.Quit, true

	case "clear":
		m.exchanges = make([]types.Snapshot, 0)
		m.notices = nil
		m.textInput.SetValue("")
		return nil, true

	case "dataset":
		if len(fields) < 2 {
			m.notices = append(m.notices, fmt.Sprintf("Current dataset: %s", m.dataset))
			m.textInput.SetValue("")
			return nil, true
		}
		ds, err := types.ParseDataset(fields[1])
		if err != nil {
			m.notices = append(m.notices, fmt.Sprintf("Unknown dataset %q (incident, hazard, audit, inspection, all)", fields[1]))
		} else {
			m.dataset = ds
			m.notices = append(m.notices, fmt.Sprintf("Dataset switched to %s", ds))
		}
		m.textInput.SetValue("")
		return nil, true

	case "help", "?":
		m.notices = append(m.notices, `Available commands:
  help, ?          Show this help
  dataset <name>   Switch dataset (incident, hazard, audit, inspection, all)
  clear            Clear the conversation view
  exit, quit       Leave the copilot

Example questions:
  "Top 5 departments by incident count"
  "Show the hazard trend for the last quarter"
  "Which audits are overdue?"`)
		m.textInput.SetValue("")
		return nil, true
	}

	return nil, false
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return m.styles.SystemMessage.Render("Goodbye!\n")
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Fixed header: banner
	b.WriteString(m.styles.BannerTitle.Render(Banner()))
	b.WriteString("\n\n")

	// Scrollable middle: viewport
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Fixed footer: input + help bar
	b.WriteString(m.styles.Prompt.Render(fmt.Sprintf("[%s] > ", m.dataset)))
	if m.busy {
		b.WriteString(m.styles.StatusText.Render("(streaming...)"))
	} else {
		b.WriteString(m.textInput.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return m.styles.App.Render(b.String())
}

// renderExchange renders one question/answer exchange, live or finished.
func (m Model) renderExchange(snap *types.Snapshot, live bool) string {
	var b strings.Builder

	b.WriteString(m.styles.UserMessage.Render("You: " + snap.Question))
	b.WriteString("\n")

	if live && snap.Stage != "" {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.styles.StageLabel.Render(snap.Stage + "..."))
		b.WriteString("\n")
	}

	if live && snap.Reasoning != "" && snap.Answer == "" {
		b.WriteString(m.styles.Reasoning.Render(truncate(snap.Reasoning, 400)))
		b.WriteString("\n")
	}

	for i := range snap.ToolCalls {
		b.WriteString(m.renderToolCall(&snap.ToolCalls[i]))
		b.WriteString("\n")
	}

	if snap.Code != "" && snap.Answer == "" {
		b.WriteString(m.styles.CodeBlock.Render(truncate(snap.Code, 400)))
		b.WriteString("\n")
	}

	if snap.Answer != "" {
		b.WriteString(m.styles.AssistantMessage.Render("Copilot: " + snap.Answer))
		b.WriteString("\n")
	}

	return b.String()
}

// renderToolCall renders a tool invocation and, once correlated, its result.
func (m Model) renderToolCall(tc *types.ToolCall) string {
	var b strings.Builder

	b.WriteString(m.styles.ToolName.Render("Tool: " + tc.Tool))
	if len(tc.Arguments) > 0 {
		args := make([]string, 0, len(tc.Arguments))
		for k, v := range tc.Arguments {
			args = append(args, fmt.Sprintf("%s=%v", k, v))
		}
		b.WriteString(" ")
		b.WriteString(m.styles.ToolParams.Render("(" + strings.Join(args, ", ") + ")"))
	}
	b.WriteString("\n")

	if !tc.Resolved() {
		b.WriteString(m.styles.ToolPending.Render("  running..."))
		b.WriteString("\n")
	} else if body := RenderResult(m.styles, tc.Result); body != "" {
		b.WriteString(body)
	}

	return m.styles.ToolBox.Render(strings.TrimRight(b.String(), "\n"))
}

// renderHelpBar renders the bottom help bar.
func (m Model) renderHelpBar() string {
	help := []string{
		m.styles.HelpKey.Render("enter") + m.styles.HelpValue.Render(" ask"),
		m.styles.HelpKey.Render("esc") + m.styles.HelpValue.Render(" stop/quit"),
		m.styles.HelpKey.Render("dataset <name>") + m.styles.HelpValue.Render(" switch data"),
		m.styles.HelpKey.Render("help") + m.styles.HelpValue.Render(" commands"),
	}
	return m.styles.HelpBar.Render(strings.Join(help, "  |  "))
}
