package tui

import (
	"errors"
	"fmt"
	"strings"

	"graphchat/internal/api"
	"graphchat/internal/config"
	"graphchat/internal/history"
	"graphchat/internal/protocol"
	"graphchat/internal/transcript"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ─── App mode ───────────────────────────────────────────────────────────────

type appMode int

const (
	modeIdle appMode = iota
	modeStreaming
)

// ─── Slash command registry ─────────────────────────────────────────────────

type slashCmd struct {
	name string
	desc string
}

var slashCommands = []slashCmd{
	{"/clear", "Clear the transcript view"},
	{"/config", "Show current configuration"},
	{"/dark", "Toggle dark mode"},
	{"/expand", "Expand/collapse a tool result"},
	{"/help", "Show all commands"},
	{"/new", "Start a new conversation thread"},
	{"/quit", "Exit graphchat"},
	{"/threads", "List saved threads"},
}

// bootstrapPrompt is sent silently when a thread starts empty so the agent
// opens the conversation.
const bootstrapPrompt = "Briefly introduce yourself and what you can help with."

const inputPlaceholder = "Ask a question or type /help..."

const connectionErrText = "[Error: could not reach the chat server]"

// chromeHeight is the rows below the viewport: input, separator, hint bar.
const chromeHeight = 4

// ─── Model ──────────────────────────────────────────────────────────────────

type model struct {
	width  int
	height int

	// Bubble Tea components
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// App state
	mode     appMode
	cfg      *config.Config
	client   api.Agent
	store    *history.Store
	threadID string
	version  string
	profile  string
	theme    theme

	// Streaming state
	chat     *transcript.Transcript
	parser   *protocol.Parser
	streamCh chan tea.Msg

	// UI state
	ready        bool
	notice       string // transient block above the input, cleared on submit
	cmdMenuIdx   int
	cmdMenuOpen  bool
	lastInputVal string

	// Input history
	inputHist []string
	histIdx   int
	histSaved string
}

func initialModel(version, profile, serverOverride string) model {
	cfg, err := config.Load(profile)
	if err != nil {
		cfg = &config.Config{Profile: profile}
	}
	if serverOverride != "" {
		cfg.Server = serverOverride
	}

	th := themeFor(cfg.DarkMode)

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Focus()
	ti.CharLimit = 4096
	ti.Prompt = "❯ "
	ti.PromptStyle = th.promptSymbol

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.statusText

	threadID, err := cfg.EnsureThreadID()
	if err != nil {
		threadID = config.NewThreadID()
	}

	store, _ := history.NewStore()

	return model{
		input:    ti,
		spinner:  sp,
		version:  version,
		profile:  profile,
		cfg:      cfg,
		client:   api.NewClient(cfg.ServerOrDefault()),
		store:    store,
		threadID: threadID,
		theme:    th,
		mode:     modeIdle,
		chat:     transcript.New(),
		histIdx:  -1,
	}
}

// ─── Init ───────────────────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// ─── Update ─────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 6

		vpHeight := m.height - chromeHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.ready = true
			m.viewport = viewport.New(m.width, vpHeight)
			m.refreshViewport()
			if m.chat.Empty() {
				return m.sendMessage(bootstrapPrompt, false)
			}
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
			m.refreshViewport()
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.mode == modeStreaming {
				return m.cancelStream()
			}
			return m, tea.Quit

		case tea.KeyEsc:
			if m.mode == modeStreaming {
				return m.cancelStream()
			}
			if m.cmdMenuOpen {
				m.cmdMenuOpen = false
				m.cmdMenuIdx = 0
				return m, nil
			}

		case tea.KeyUp:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx--
						if m.cmdMenuIdx < 0 {
							m.cmdMenuIdx = len(matches) - 1
						}
						return m, nil
					}
				} else if len(m.inputHist) > 0 {
					if m.histIdx == -1 {
						m.histSaved = m.input.Value()
						m.histIdx = len(m.inputHist) - 1
					} else if m.histIdx > 0 {
						m.histIdx--
					}
					m.input.SetValue(m.inputHist[m.histIdx])
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyDown:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx++
						if m.cmdMenuIdx >= len(matches) {
							m.cmdMenuIdx = 0
						}
						return m, nil
					}
				} else if m.histIdx != -1 {
					m.histIdx++
					if m.histIdx >= len(m.inputHist) {
						m.histIdx = -1
						m.input.SetValue(m.histSaved)
						m.histSaved = ""
					} else {
						m.input.SetValue(m.inputHist[m.histIdx])
					}
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case tea.KeyTab:
			if m.mode == modeIdle && m.cmdMenuOpen {
				matches := matchCommands(m.input.Value())
				if len(matches) > 0 {
					idx := m.cmdMenuIdx
					if idx < 0 || idx >= len(matches) {
						idx = 0
					}
					m.input.SetValue(matches[idx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
				}
				return m, nil
			}

		case tea.KeyEnter:
			if m.mode == modeIdle && m.cmdMenuOpen && m.cmdMenuIdx >= 0 {
				matches := matchCommands(m.input.Value())
				if m.cmdMenuIdx < len(matches) {
					m.input.SetValue(matches[m.cmdMenuIdx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
					return m, nil
				}
			}

			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			if m.mode == modeStreaming {
				return m, nil
			}

			if len(m.inputHist) == 0 || m.inputHist[len(m.inputHist)-1] != value {
				m.inputHist = append(m.inputHist, value)
				if len(m.inputHist) > 1000 {
					m.inputHist = m.inputHist[len(m.inputHist)-1000:]
				}
			}
			m.histIdx = -1
			m.histSaved = ""

			m.input.SetValue("")
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0
			m.notice = ""

			return m.dispatchInput(value)
		}

	// ── Stream messages ───────────────────────────────────────────────
	case streamChunkMsg:
		m.applyChunk(msg.text)
		m.refreshViewport()
		if m.streamCh != nil {
			cmds = append(cmds, waitForStream(m.streamCh))
		}
		return m, tea.Batch(cmds...)

	case streamDoneMsg:
		// Input re-enables whether or not a final marker arrived.
		m.mode = modeIdle
		m.streamCh = nil
		if m.chat.HasPending() {
			text := m.parser.Buffer()
			if strings.TrimSpace(text) == "" {
				text = "(no response)"
			}
			m.chat.FailPending(text)
			m.appendHistory("assistant", text)
		}
		m.refreshViewport()
		return m, nil

	case streamErrMsg:
		m.mode = modeIdle
		m.streamCh = nil
		// An error after finalize carries nothing to show or record.
		if m.chat.HasPending() {
			text := errorText(msg.err)
			m.chat.FailPending(text)
			m.appendHistory("assistant", text)
		}
		m.refreshViewport()
		return m, nil
	}

	// Update sub-components
	var cmd tea.Cmd

	if m.mode != modeStreaming {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	// Track input changes to open/close the command menu.
	newVal := m.input.Value()
	if newVal != m.lastInputVal {
		m.lastInputVal = newVal
		if m.histIdx != -1 && m.histIdx < len(m.inputHist) && m.inputHist[m.histIdx] != newVal {
			m.histIdx = -1
			m.histSaved = ""
		}
		if strings.HasPrefix(newVal, "/") {
			m.cmdMenuOpen = true
			m.cmdMenuIdx = 0
		} else {
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0
		}
	}

	return m, tea.Batch(cmds...)
}

// ─── Streaming ──────────────────────────────────────────────────────────────

// sendMessage starts a chat request. Empty input is a no-op, as is sending
// while a request is already in flight.
func (m model) sendMessage(text string, showUserBubble bool) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.chat.HasPending() {
		return m, nil
	}

	if showUserBubble {
		m.chat.AppendUser(text)
		m.appendHistory("user", text)
	}
	m.chat.BeginPending()
	m.parser = protocol.NewParser()
	m.mode = modeStreaming

	ch, cmd := beginStream(m.client, text, m.threadID)
	m.streamCh = ch
	m.refreshViewport()
	return m, cmd
}

// applyChunk runs one decoded chunk through the parser and the transcript,
// mirroring tool blocks and the final answer into thread history.
func (m *model) applyChunk(text string) {
	for _, op := range m.parser.Feed(text) {
		m.chat.Apply(op)
		switch op.Type {
		case protocol.OpAppendToolCall:
			m.appendHistory("tool_call", op.Text)
		case protocol.OpAppendToolResult:
			m.appendHistory("tool_result", op.Text)
		case protocol.OpFinalize:
			m.appendHistory("assistant", op.Text)
		}
	}
}

func (m model) cancelStream() (tea.Model, tea.Cmd) {
	if ch := m.streamCh; ch != nil {
		// The producer keeps sending until ChatStream returns. Drain so its
		// sends never block and the connection is released.
		go func() {
			for range ch {
			}
		}()
	}
	m.mode = modeIdle
	m.streamCh = nil
	if m.parser != nil {
		m.parser.Close()
	}
	m.chat.FailPending("(cancelled)")
	m.notice = m.theme.warnText.Render("  ! Request cancelled.")
	m.refreshViewport()
	return m, nil
}

func (m *model) appendHistory(role, content string) {
	if m.store == nil || m.threadID == "" {
		return
	}
	_ = m.store.Append(m.threadID, role, content)
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func errorText(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("[Error: %d]", statusErr.Code)
	}
	return connectionErrText
}

// ─── View ───────────────────────────────────────────────────────────────────

func (m model) View() string {
	if !m.ready {
		return ""
	}

	var s strings.Builder

	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	if m.notice != "" {
		s.WriteString(m.notice)
		s.WriteString("\n")
	}

	if m.mode == modeStreaming {
		s.WriteString(m.spinner.View() + " " + m.theme.statusText.Render("Thinking..."))
	} else {
		s.WriteString(m.input.View())
	}
	s.WriteString("\n")

	sepWidth := min(m.width, 80)
	if sepWidth < 20 {
		sepWidth = 20
	}
	s.WriteString(m.theme.separator.Render(strings.Repeat("─", sepWidth)))
	s.WriteString("\n")

	s.WriteString(m.renderHints())

	return s.String()
}

// ─── Hint bar ───────────────────────────────────────────────────────────────

func (m model) renderHints() string {
	if m.mode == modeStreaming {
		return m.theme.hintBar.Render("  Esc cancel")
	}

	if m.cmdMenuOpen {
		matches := matchCommands(m.input.Value())
		if len(matches) > 0 {
			return m.renderCommandMenu(matches)
		}
	}

	return m.theme.hintBar.Render("  ? for help · PgUp/PgDn scroll")
}

func (m model) renderCommandMenu(matches []slashCmd) string {
	maxLen := 0
	for _, c := range matches {
		if len(c.name) > maxLen {
			maxLen = len(c.name)
		}
	}

	var lines []string
	for i, c := range matches {
		padded := c.name
		for len(padded) < maxLen {
			padded += " "
		}

		var line string
		if i == m.cmdMenuIdx {
			line = "  " + m.theme.cmdSelectedName.Render(padded) + "  " + m.theme.cmdSelectedDesc.Render(c.desc)
		} else {
			line = "  " + m.theme.cmdName.Render(padded) + "  " + m.theme.cmdDesc.Render(c.desc)
		}
		lines = append(lines, line)
	}

	lines = append(lines, m.theme.hintBar.Render("  ↑↓ navigate  Tab/Enter select"))

	return strings.Join(lines, "\n")
}

// matchCommands returns all slash commands matching a prefix.
func matchCommands(prefix string) []slashCmd {
	prefix = strings.ToLower(prefix)
	if prefix == "/" {
		return slashCommands
	}
	var matches []slashCmd
	for _, c := range slashCommands {
		if strings.HasPrefix(c.name, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}
