package tui

import "github.com/charmbracelet/lipgloss"

// ─── Theme ──────────────────────────────────────────────────────────────────
//
// Two palettes, switched live by /dark. Every rendered element pulls its
// style from the active theme so a toggle re-renders the whole transcript.

type theme struct {
	name string

	userLabel      lipgloss.Style
	userText       lipgloss.Style
	assistantLabel lipgloss.Style
	assistantText  lipgloss.Style
	pendingText    lipgloss.Style
	toolCall       lipgloss.Style
	toolResult     lipgloss.Style
	expandHint     lipgloss.Style

	promptSymbol lipgloss.Style
	statusText   lipgloss.Style
	successText  lipgloss.Style
	errorText    lipgloss.Style
	warnText     lipgloss.Style
	dimText      lipgloss.Style
	separator    lipgloss.Style
	hintBar      lipgloss.Style
	hintKey      lipgloss.Style

	cmdName         lipgloss.Style
	cmdDesc         lipgloss.Style
	cmdSelectedName lipgloss.Style
	cmdSelectedDesc lipgloss.Style

	logoNode  lipgloss.Style
	logoEdge  lipgloss.Style
	logoTitle lipgloss.Style
	version   lipgloss.Style

	accent lipgloss.Color
}

func darkTheme() theme {
	accent := lipgloss.Color("81") // sky blue
	gray := lipgloss.Color("242")
	dimGray := lipgloss.Color("238")
	white := lipgloss.Color("255")

	return theme{
		name: "dark",

		userLabel:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		userText:       lipgloss.NewStyle().Foreground(white),
		assistantLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		assistantText:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		pendingText:    lipgloss.NewStyle().Foreground(gray).Italic(true),
		toolCall:       lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		toolResult:     lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		expandHint:     lipgloss.NewStyle().Foreground(gray).Italic(true),

		promptSymbol: lipgloss.NewStyle().Foreground(accent).Bold(true),
		statusText:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		successText:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		errorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		warnText:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		dimText:      lipgloss.NewStyle().Foreground(gray),
		separator:    lipgloss.NewStyle().Foreground(dimGray),
		hintBar:      lipgloss.NewStyle().Foreground(gray),
		hintKey:      lipgloss.NewStyle().Foreground(gray).Bold(true),

		cmdName:         lipgloss.NewStyle().Foreground(accent),
		cmdDesc:         lipgloss.NewStyle().Foreground(gray),
		cmdSelectedName: lipgloss.NewStyle().Foreground(accent).Bold(true).Reverse(true),
		cmdSelectedDesc: lipgloss.NewStyle().Foreground(white).Bold(true),

		logoNode:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		logoEdge:  lipgloss.NewStyle().Foreground(gray),
		logoTitle: lipgloss.NewStyle().Foreground(white).Bold(true),
		version:   lipgloss.NewStyle().Foreground(gray),

		accent: accent,
	}
}

func lightTheme() theme {
	accent := lipgloss.Color("26") // deep blue
	gray := lipgloss.Color("245")
	dimGray := lipgloss.Color("250")
	black := lipgloss.Color("236")

	return theme{
		name: "light",

		userLabel:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		userText:       lipgloss.NewStyle().Foreground(black),
		assistantLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
		assistantText:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		pendingText:    lipgloss.NewStyle().Foreground(gray).Italic(true),
		toolCall:       lipgloss.NewStyle().Foreground(lipgloss.Color("127")),
		toolResult:     lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		expandHint:     lipgloss.NewStyle().Foreground(gray).Italic(true),

		promptSymbol: lipgloss.NewStyle().Foreground(accent).Bold(true),
		statusText:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		successText:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		errorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		warnText:     lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		dimText:      lipgloss.NewStyle().Foreground(gray),
		separator:    lipgloss.NewStyle().Foreground(dimGray),
		hintBar:      lipgloss.NewStyle().Foreground(gray),
		hintKey:      lipgloss.NewStyle().Foreground(gray).Bold(true),

		cmdName:         lipgloss.NewStyle().Foreground(accent),
		cmdDesc:         lipgloss.NewStyle().Foreground(gray),
		cmdSelectedName: lipgloss.NewStyle().Foreground(accent).Bold(true).Reverse(true),
		cmdSelectedDesc: lipgloss.NewStyle().Foreground(black).Bold(true),

		logoNode:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		logoEdge:  lipgloss.NewStyle().Foreground(gray),
		logoTitle: lipgloss.NewStyle().Foreground(black).Bold(true),
		version:   lipgloss.NewStyle().Foreground(gray),

		accent: accent,
	}
}

func themeFor(dark bool) theme {
	if dark {
		return darkTheme()
	}
	return lightTheme()
}
