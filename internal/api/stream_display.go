package api

import (
	"fmt"
	"io"
	"os"

	"graphchat/internal/display"
	"graphchat/internal/protocol"
	"graphchat/internal/service"
)

// StreamDisplay renders a chat stream as plain terminal output for one-shot
// mode. Unlike the TUI it cannot take text back, so when tools enter the
// picture it ends the partial line and prints the final answer as its own
// block.
type StreamDisplay struct {
	parser  *protocol.Parser
	out     io.Writer
	printed int // bytes of the pending answer already on screen

	// FinalAnswer holds the finalize payload, empty when the stream ended
	// without one.
	FinalAnswer string
	// ToolsUsed mirrors the parser flag for callers that summarize.
	ToolsUsed bool
}

func NewStreamDisplay() *StreamDisplay {
	return &StreamDisplay{parser: protocol.NewParser(), out: os.Stdout}
}

// HandleChunk is the ChunkCallback for ChatStream.
func (d *StreamDisplay) HandleChunk(text string) {
	for _, op := range d.parser.Feed(text) {
		d.render(op)
	}
	d.ToolsUsed = d.parser.ToolsUsed()
}

// Finish flushes parser state after the stream ends. Ending without a final
// marker leaves whatever streamed on screen.
func (d *StreamDisplay) Finish() {
	for _, op := range d.parser.Close() {
		d.render(op)
	}
	if d.printed > 0 {
		fmt.Fprintln(d.out)
		d.printed = 0
	}
}

func (d *StreamDisplay) render(op protocol.Op) {
	switch op.Type {
	case protocol.OpUpdatePending:
		// Incremental typing: print only the unseen suffix.
		if len(op.Text) > d.printed {
			fmt.Fprint(d.out, op.Text[d.printed:])
			d.printed = len(op.Text)
		}

	case protocol.OpDetachPending:
		if d.printed > 0 {
			fmt.Fprintln(d.out)
			d.printed = 0
		}

	case protocol.OpAppendToolCall:
		fmt.Fprintf(d.out, "%s⚙ tool%s  %s\n", display.Magenta, display.Reset, op.Text)

	case protocol.OpAppendToolResult:
		preview, truncated := service.TruncateResult(op.Text)
		fmt.Fprintf(d.out, "%s↳ result%s %s\n", display.Blue, display.Reset, preview)
		if truncated {
			hidden := service.RuneCount(op.Text) - service.RuneCount(preview)
			fmt.Fprintf(d.out, "%s  … %d more characters (interactive mode can expand them)%s\n",
				display.Dim, hidden, display.Reset)
		}

	case protocol.OpFinalize:
		d.FinalAnswer = op.Text
		if d.printed > 0 {
			fmt.Fprintln(d.out)
			d.printed = 0
		}
		fmt.Fprintln(d.out)
		fmt.Fprintf(d.out, "%s%s\n", service.Linkify(op.Text), display.Reset)
	}
}
