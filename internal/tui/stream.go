package tui

import (
	"graphchat/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Messages sent from the stream goroutine to Bubble Tea ──────────────────

type streamChunkMsg struct {
	text string
}

type streamDoneMsg struct{}

type streamErrMsg struct {
	err error
}

// ─── Stream command ─────────────────────────────────────────────────────────
//
// Launches the chat request in a goroutine, pumps decoded chunks through a
// channel, and returns a tea.Cmd that reads the first message. The model's
// Update dispatches another waitForStream after each chunk until done.

func beginStream(client api.Agent, userInput, threadID string) (chan tea.Msg, tea.Cmd) {
	ch := make(chan tea.Msg, 64)

	go func() {
		defer close(ch)

		err := client.ChatStream(userInput, threadID, func(chunk string) {
			ch <- streamChunkMsg{text: chunk}
		})
		if err != nil {
			ch <- streamErrMsg{err: err}
			return
		}
		ch <- streamDoneMsg{}
	}()

	return ch, waitForStream(ch)
}

// waitForStream reads the next message from the channel.
func waitForStream(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return msg
	}
}
