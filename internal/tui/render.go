package tui

import (
	"fmt"
	"strings"

	"graphchat/internal/service"
	"graphchat/internal/transcript"

	"github.com/charmbracelet/lipgloss"
)

// ─── Transcript rendering ───────────────────────────────────────────────────
//
// The whole transcript re-renders into the viewport on every change so that
// in-place updates, detach/re-append reordering and theme switches all come
// out of one code path. Assistant and user text is linkified; tool blocks
// stay verbatim.

func (m model) renderTranscript() string {
	var b strings.Builder

	b.WriteString(renderWelcome(m.theme, m.version, m.cfg.ServerOrDefault()))
	b.WriteString("\n")

	wrapWidth := m.width - 4
	if wrapWidth > 100 {
		wrapWidth = 100
	}
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	wrap := lipgloss.NewStyle().Width(wrapWidth)

	for _, block := range m.chat.Blocks() {
		b.WriteString("\n")
		b.WriteString(m.renderBlock(block, wrap))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) renderBlock(block *transcript.Block, wrap lipgloss.Style) string {
	switch block.Role {
	case transcript.RoleUser:
		text := service.Linkify(block.Content)
		return m.theme.userLabel.Render("  ❯ ") + wrap.Render(m.theme.userText.Render(text))

	case transcript.RoleAssistant:
		if block.Pending && block.Content == "" {
			return m.theme.pendingText.Render("  …")
		}
		text := service.Linkify(block.Content)
		style := m.theme.assistantText
		if block.Pending {
			style = m.theme.pendingText
		}
		return "  " + wrap.Render(style.Render(text))

	case transcript.RoleToolCall:
		return m.theme.toolCall.Render("  ⚙ ") + wrap.Render(m.theme.toolCall.Render(block.Content))

	case transcript.RoleToolResult:
		view, hidden := block.ResultView()
		s := m.theme.toolResult.Render("  ↳ ") + wrap.Render(m.theme.toolResult.Render(view))
		if hidden > 0 {
			s += "\n" + m.theme.expandHint.Render(fmt.Sprintf("    … %d more characters — /expand to show", hidden))
		} else if block.Expanded {
			s += "\n" + m.theme.expandHint.Render("    /expand to collapse")
		}
		return s
	}
	return block.Content
}

// ─── Welcome header ─────────────────────────────────────────────────────────

const graphLogo = `
   (a)───(b)
    │  ╲  │
   (c)───(d)───(e)
`

func renderWelcome(th theme, version, server string) string {
	var lines []string
	for _, line := range strings.Split(strings.Trim(graphLogo, "\n"), "\n") {
		lines = append(lines, colorizeLogoLine(th, line))
	}
	logo := strings.Join(lines, "\n")

	title := th.logoTitle.Render("graphchat") + " " + th.version.Render("v"+version)

	serverDisplay := server
	if len(serverDisplay) > 48 {
		serverDisplay = serverDisplay[:45] + "..."
	}
	info := th.dimText.Render(serverDisplay)

	return fmt.Sprintf("%s\n\n  %s\n  %s\n", logo, title, info)
}

// colorizeLogoLine highlights node glyphs and dims the edges.
func colorizeLogoLine(th theme, line string) string {
	var b strings.Builder
	b.WriteString("  ")
	inNode := false
	for _, r := range line {
		switch {
		case r == '(':
			inNode = true
			b.WriteString(th.logoNode.Render(string(r)))
		case r == ')':
			inNode = false
			b.WriteString(th.logoNode.Render(string(r)))
		case inNode:
			b.WriteString(th.logoNode.Render(string(r)))
		case r == ' ':
			b.WriteRune(r)
		default:
			b.WriteString(th.logoEdge.Render(string(r)))
		}
	}
	return b.String()
}
