package transcript

import (
	"graphchat/internal/protocol"
	"graphchat/internal/service"
)

// Role identifies what kind of block a transcript entry is.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleToolCall
	RoleToolResult
)

// Block is one rendered unit of the transcript. Blocks are immutable once
// finalized; only the single pending assistant block mutates, and only until
// its stream finalizes or fails.
type Block struct {
	Role     Role
	Content  string
	Pending  bool
	Expanded bool // long tool results start collapsed
}

// ResultView returns the payload a tool-result block displays right now and
// how many runes stay hidden. Toggling Expanded alternates deterministically
// between exactly these two views; nothing is refetched or re-parsed.
func (b *Block) ResultView() (string, int) {
	if b.Expanded {
		return b.Content, 0
	}
	preview, truncated := service.TruncateResult(b.Content)
	if !truncated {
		return b.Content, 0
	}
	return preview, service.RuneCount(b.Content) - service.RuneCount(preview)
}

// Toggle flips a collapsed tool result open and back. A no-op for blocks
// that fit under the preview limit.
func (b *Block) Toggle() {
	if _, truncated := service.TruncateResult(b.Content); truncated {
		b.Expanded = !b.Expanded
	}
}

// Transcript is the append-only ordered list of message blocks plus the one
// mutable pending slot. It consumes parser ops; rendering lives with the
// caller.
type Transcript struct {
	blocks   []*Block
	pending  *Block
	detached bool // pending removed from view, awaiting finalize
}

func New() *Transcript {
	return &Transcript{}
}

// Blocks returns the visible blocks in order.
func (t *Transcript) Blocks() []*Block {
	return t.blocks
}

func (t *Transcript) Empty() bool {
	return len(t.blocks) == 0 && t.pending == nil
}

// HasPending reports whether a request is mid-stream.
func (t *Transcript) HasPending() bool {
	return t.pending != nil
}

// AppendUser appends a finalized user block.
func (t *Transcript) AppendUser(content string) {
	t.blocks = append(t.blocks, &Block{Role: RoleUser, Content: content})
}

// BeginPending creates the empty pending assistant block for a new request
// and appends it. At most one pending block exists at a time; requests are
// serialized upstream by the input gate.
func (t *Transcript) BeginPending() {
	b := &Block{Role: RoleAssistant, Pending: true}
	t.pending = b
	t.detached = false
	t.blocks = append(t.blocks, b)
}

// Apply maps one parser op onto the block list.
func (t *Transcript) Apply(op protocol.Op) {
	switch op.Type {
	case protocol.OpUpdatePending:
		if t.pending != nil && !t.detached {
			t.pending.Content = op.Text
		}

	case protocol.OpDetachPending:
		if t.pending != nil && !t.detached {
			t.remove(t.pending)
			t.detached = true
		}

	case protocol.OpAppendToolCall:
		t.blocks = append(t.blocks, &Block{Role: RoleToolCall, Content: op.Text})

	case protocol.OpAppendToolResult:
		t.blocks = append(t.blocks, &Block{Role: RoleToolResult, Content: op.Text})

	case protocol.OpFinalize:
		t.settlePending(op.Text)
	}
}

// FailPending replaces the pending block's content with an error rendering
// and finalizes it. A detached block is brought back so the error is
// visible. No-op when no request is in flight.
func (t *Transcript) FailPending(content string) {
	t.settlePending(content)
}

func (t *Transcript) settlePending(content string) {
	if t.pending == nil {
		return
	}
	t.pending.Content = content
	t.pending.Pending = false
	if t.detached {
		// Re-append at the current end, after any tool blocks.
		t.blocks = append(t.blocks, t.pending)
		t.detached = false
	}
	t.pending = nil
}

// Clear drops every block, including a pending one.
func (t *Transcript) Clear() {
	t.blocks = nil
	t.pending = nil
	t.detached = false
}

// ToggleResult toggles the n-th tool-result block (1-based). n == 0 means
// the most recent one. Reports whether a toggleable block was found.
func (t *Transcript) ToggleResult(n int) bool {
	var results []*Block
	for _, b := range t.blocks {
		if b.Role == RoleToolResult {
			results = append(results, b)
		}
	}
	if len(results) == 0 {
		return false
	}
	var target *Block
	if n == 0 {
		target = results[len(results)-1]
	} else if n >= 1 && n <= len(results) {
		target = results[n-1]
	} else {
		return false
	}
	if _, truncated := service.TruncateResult(target.Content); !truncated {
		return false
	}
	target.Toggle()
	return true
}

func (t *Transcript) remove(b *Block) {
	for i, cur := range t.blocks {
		if cur == b {
			t.blocks = append(t.blocks[:i], t.blocks[i+1:]...)
			return
		}
	}
}
