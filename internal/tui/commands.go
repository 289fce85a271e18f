package tui

import (
	"fmt"
	"strconv"
	"strings"

	"graphchat/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Input dispatcher ───────────────────────────────────────────────────────

func (m model) dispatchInput(input string) (tea.Model, tea.Cmd) {
	if input == "?" {
		return m.cmdHelp()
	}
	if strings.HasPrefix(input, "/") {
		return m.dispatchCommand(input)
	}
	// Default: treat as a chat message
	return m.sendMessage(input, true)
}

func (m model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h":
		return m.cmdHelp()
	case "/new":
		return m.cmdNewThread()
	case "/dark":
		return m.cmdDark()
	case "/expand":
		return m.cmdExpand(args)
	case "/threads":
		return m.cmdThreads()
	case "/config":
		return m.cmdConfig()
	case "/clear":
		return m.cmdClear()
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	default:
		m.notice = m.theme.errorText.Render(fmt.Sprintf("  ✗ Unknown command: %s — type /help", cmd))
		return m, nil
	}
}

// ─── /help ──────────────────────────────────────────────────────────────────

func (m model) cmdHelp() (tea.Model, tea.Cmd) {
	pad := func(s string, w int) string {
		for len(s) < w {
			s += " "
		}
		return s
	}

	var b strings.Builder
	b.WriteString(m.theme.dimText.Render("  Shortcuts:") + "\n")
	for _, row := range [][2]string{
		{"/new", "Start a new conversation thread"},
		{"/expand [n]", "Expand/collapse a tool result (default: latest)"},
		{"/threads", "List saved threads"},
		{"/dark", "Toggle dark mode"},
		{"/config", "Show current configuration"},
		{"/clear", "Clear the transcript view"},
		{"/quit", "Exit graphchat"},
	} {
		b.WriteString("  " + pad(m.theme.hintKey.Render(row[0]), 26) + m.theme.dimText.Render(row[1]) + "\n")
	}
	b.WriteString(m.theme.dimText.Render("  Or just type a message to chat!"))
	m.notice = b.String()
	return m, nil
}

// ─── /new ───────────────────────────────────────────────────────────────────

// cmdNewThread rotates the persisted thread id, clears the transcript, and
// opens the fresh thread with the silent bootstrap prompt.
func (m model) cmdNewThread() (tea.Model, tea.Cmd) {
	m.threadID = config.NewThreadID()
	if err := m.cfg.SetThreadID(m.threadID); err != nil {
		m.notice = m.theme.errorText.Render(fmt.Sprintf("  ✗ Could not persist thread: %v", err))
		return m, nil
	}
	m.chat.Clear()
	m.notice = m.theme.successText.Render("  ✓ New thread: " + m.threadID)
	return m.sendMessage(bootstrapPrompt, false)
}

// ─── /dark ──────────────────────────────────────────────────────────────────

func (m model) cmdDark() (tea.Model, tea.Cmd) {
	dark := !m.cfg.DarkMode
	if err := m.cfg.SetDarkMode(dark); err != nil {
		m.notice = m.theme.errorText.Render(fmt.Sprintf("  ✗ Could not save theme: %v", err))
		return m, nil
	}
	m.theme = themeFor(dark)
	m.input.PromptStyle = m.theme.promptSymbol
	m.spinner.Style = m.theme.statusText
	m.refreshViewport()
	m.notice = m.theme.dimText.Render("  Theme: " + m.theme.name)
	return m, nil
}

// ─── /expand ────────────────────────────────────────────────────────────────

func (m model) cmdExpand(args []string) (tea.Model, tea.Cmd) {
	n := 0
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			m.notice = m.theme.warnText.Render("  ! Usage: /expand [n]  (n counts tool results from the top)")
			return m, nil
		}
		n = parsed
	}
	if !m.chat.ToggleResult(n) {
		m.notice = m.theme.warnText.Render("  ! No truncated tool result to toggle.")
		return m, nil
	}
	m.refreshViewport()
	return m, nil
}

// ─── /threads ───────────────────────────────────────────────────────────────

func (m model) cmdThreads() (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.notice = m.theme.errorText.Render("  ✗ Thread history unavailable.")
		return m, nil
	}
	threads, err := m.store.List()
	if err != nil {
		m.notice = m.theme.errorText.Render(fmt.Sprintf("  ✗ Failed to list threads: %v", err))
		return m, nil
	}
	if len(threads) == 0 {
		m.notice = m.theme.warnText.Render("  ! No saved threads yet.")
		return m, nil
	}

	var b strings.Builder
	b.WriteString(m.theme.dimText.Render(fmt.Sprintf("  Threads (%d):", len(threads))) + "\n")
	shown := threads
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, t := range shown {
		marker := "  "
		if t.ID == m.threadID {
			marker = m.theme.successText.Render("* ")
		}
		b.WriteString(fmt.Sprintf("  %s%s\n", marker, t.Title))
		b.WriteString(m.theme.dimText.Render(fmt.Sprintf("      %s · %d messages · %s",
			t.ID, t.MessageCount, t.UpdatedAt.Format("Jan 2 15:04"))) + "\n")
	}
	m.notice = strings.TrimRight(b.String(), "\n")
	return m, nil
}

// ─── /config ────────────────────────────────────────────────────────────────

func (m model) cmdConfig() (tea.Model, tea.Cmd) {
	var b strings.Builder
	b.WriteString(m.theme.dimText.Render("  Configuration:") + "\n")
	b.WriteString(fmt.Sprintf("    Profile: %s\n", config.ProfileName(m.profile)))
	b.WriteString(fmt.Sprintf("    Server:  %s\n", m.cfg.ServerOrDefault()))
	b.WriteString(fmt.Sprintf("    Thread:  %s\n", m.threadID))
	b.WriteString(fmt.Sprintf("    Theme:   %s", m.theme.name))
	m.notice = b.String()
	return m, nil
}

// ─── /clear ─────────────────────────────────────────────────────────────────

func (m model) cmdClear() (tea.Model, tea.Cmd) {
	m.chat.Clear()
	m.refreshViewport()
	return m, nil
}
