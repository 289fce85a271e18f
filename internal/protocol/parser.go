package protocol

// ─── Render operations ──────────────────────────────────────────────────────

// OpType identifies a transcript operation emitted by the Parser.
type OpType int

const (
	// OpUpdatePending replaces the pending assistant block's content with
	// Text (the accumulated buffer) — the incremental typing effect.
	OpUpdatePending OpType = iota
	// OpDetachPending removes the pending assistant block from view while
	// tool activity streams. Its identity is retained for OpFinalize.
	OpDetachPending
	// OpAppendToolCall appends an immutable tool-call block at the end of
	// the transcript. Text is the call summary.
	OpAppendToolCall
	// OpAppendToolResult appends an immutable tool-result block. Text is
	// the result payload.
	OpAppendToolResult
	// OpFinalize carries the complete answer. A detached pending block is
	// re-appended at the current end of the transcript; otherwise the
	// pending block is updated in place.
	OpFinalize
)

// Op is one transcript operation. Ops apply in emission order.
type Op struct {
	Type OpType
	Text string
}

// ─── Parser ─────────────────────────────────────────────────────────────────

// Parser is the render state machine for one chat request. It consumes
// decoded text chunks and emits transcript operations. It has no dependency
// on Bubble Tea or any rendering — the consumer decides how each op is
// applied and styled (assistant text linkified, tool text verbatim).
//
// States: streaming-plain (initial), streaming-with-tools (after the first
// tool marker), done (after the final marker or end of stream).
type Parser struct {
	toolsUsed bool
	done      bool
	buffer    string
}

// NewParser returns a parser in the streaming-plain state.
func NewParser() *Parser {
	return &Parser{}
}

// ToolsUsed reports whether any tool marker has been seen in this stream.
// It never resets until the stream ends.
func (p *Parser) ToolsUsed() bool { return p.toolsUsed }

// Done reports whether the stream reached its terminal state.
func (p *Parser) Done() bool { return p.done }

// Buffer returns the accumulated assistant text that has not been finalized.
func (p *Parser) Buffer() string { return p.buffer }

// Feed consumes one decoded chunk and returns the resulting transcript
// operations. Chunks arriving after the final marker are ignored.
func (p *Parser) Feed(chunk string) []Op {
	if p.done || chunk == "" {
		return nil
	}

	ev := Classify(chunk)
	switch ev.Kind {
	case EventFinalize:
		p.done = true
		p.buffer = ev.Text
		return []Op{{Type: OpFinalize, Text: ev.Text}}

	case EventToolCall:
		return p.toolOps(OpAppendToolCall, ev.Text)

	case EventToolResult:
		return p.toolOps(OpAppendToolResult, ev.Text)

	default:
		p.buffer += ev.Text
		if p.toolsUsed {
			// Silent accumulate: only the final answer is shown once
			// tools are in play.
			return nil
		}
		return []Op{{Type: OpUpdatePending, Text: p.buffer}}
	}
}

// toolOps appends a tool block, detaching the pending assistant block on the
// first tool marker of the stream.
func (p *Parser) toolOps(appendType OpType, text string) []Op {
	var ops []Op
	if !p.toolsUsed {
		p.toolsUsed = true
		p.buffer = ""
		ops = append(ops, Op{Type: OpDetachPending})
	}
	return append(ops, Op{Type: appendType, Text: text})
}

// Close signals end of stream. Ending without a final marker is a graceful
// but incomplete termination: whatever was last rendered stands.
func (p *Parser) Close() []Op {
	p.done = true
	return nil
}
