package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"graphchat/internal/api"
	"graphchat/internal/config"
	"graphchat/internal/protocol"
	"graphchat/internal/transcript"

	tea "github.com/charmbracelet/bubbletea"
)

var errTest = errors.New("connection refused")

func protocolAppendResult(text string) protocol.Op {
	return protocol.Op{Type: protocol.OpAppendToolResult, Text: text}
}

// mockAgent implements api.Agent for testing.
type mockAgent struct {
	chunks []string
	err    error

	lastInput  string
	lastThread string
	calls      int
}

// ChatStream delivers every chunk before returning err, the way a real
// request fails mid-body after partial delivery.
func (m *mockAgent) ChatStream(userInput, threadID string, cb api.ChunkCallback) error {
	m.calls++
	m.lastInput = userInput
	m.lastThread = threadID
	for _, c := range m.chunks {
		cb(c)
	}
	return m.err
}

var _ api.Agent = (*mockAgent)(nil)

// signalAgent closes returned when ChatStream finishes, so tests can assert
// the stream goroutine is not blocked.
type signalAgent struct {
	mockAgent
	returned chan struct{}
}

func (s *signalAgent) ChatStream(userInput, threadID string, cb api.ChunkCallback) error {
	defer close(s.returned)
	return s.mockAgent.ChatStream(userInput, threadID, cb)
}

func newTestModel(t *testing.T) model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	m := initialModel("test", "", "")
	m.client = &mockAgent{}
	m.width = 80
	m.height = 24
	return m
}

// drain applies stream messages from the channel until it closes, simulating
// the waitForStream pump synchronously.
func drain(t *testing.T, m model) model {
	t.Helper()
	ch := m.streamCh
	if ch == nil {
		t.Fatal("no active stream channel")
	}
	for msg := range ch {
		result, _ := m.Update(msg)
		m = result.(model)
	}
	return m
}

func TestDispatchCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantMode appMode
	}{
		{"/help", modeIdle},
		{"/config", modeIdle},
		{"/clear", modeIdle},
		{"/dark", modeIdle},
		{"/threads", modeIdle},
		{"/quit", modeIdle}, // quit returns tea.Quit cmd
		{"/unknown", modeIdle},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := newTestModel(t)
			result, _ := m.dispatchCommand(tt.input)
			rm := result.(model)
			if rm.mode != tt.wantMode {
				t.Errorf("mode = %d, want %d", rm.mode, tt.wantMode)
			}
		})
	}
}

func TestDispatchInput(t *testing.T) {
	t.Run("question mark shows help", func(t *testing.T) {
		m := newTestModel(t)
		result, _ := m.dispatchInput("?")
		rm := result.(model)
		if rm.notice == "" {
			t.Error("expected help notice")
		}
	})

	t.Run("plain text starts a request", func(t *testing.T) {
		m := newTestModel(t)
		result, cmd := m.dispatchInput("what is 2+3?")
		rm := result.(model)
		if rm.mode != modeStreaming {
			t.Errorf("mode = %d, want modeStreaming", rm.mode)
		}
		if cmd == nil {
			t.Error("expected stream cmd, got nil")
		}
	})
}

func TestSendMessageEmptyIsNoOp(t *testing.T) {
	m := newTestModel(t)
	result, cmd := m.sendMessage("   ", true)
	rm := result.(model)
	if rm.mode != modeIdle {
		t.Errorf("mode = %d, want modeIdle", rm.mode)
	}
	if cmd != nil {
		t.Error("expected no cmd for empty input")
	}
	if !rm.chat.Empty() {
		t.Error("transcript should stay empty")
	}
}

func TestSendMessageGatedWhilePending(t *testing.T) {
	m := newTestModel(t)
	result, _ := m.sendMessage("first", true)
	m = result.(model)

	result, cmd := m.sendMessage("second", true)
	rm := result.(model)
	if cmd != nil {
		t.Error("expected no cmd while a request is in flight")
	}
	agent := rm.client.(*mockAgent)
	if agent.calls != 1 {
		t.Errorf("ChatStream called %d times, want 1", agent.calls)
	}
}

func TestStreamLifecyclePlain(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{chunks: []string{"Hi", " there", "\n__FINAL__:Hi there!"}}

	result, _ := m.sendMessage("hello", true)
	m = drain(t, result.(model))

	if m.mode != modeIdle {
		t.Errorf("mode = %d, want modeIdle after stream", m.mode)
	}
	blocks := m.chat.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want user + assistant", len(blocks))
	}
	if blocks[0].Role != transcript.RoleUser || blocks[0].Content != "hello" {
		t.Errorf("user block = %+v", blocks[0])
	}
	if blocks[1].Role != transcript.RoleAssistant || blocks[1].Content != "Hi there!" {
		t.Errorf("assistant block = %+v", blocks[1])
	}
	if blocks[1].Pending {
		t.Error("assistant block still pending after finalize")
	}
}

func TestStreamLifecycleWithTools(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{chunks: []string{
		"Let me check.",
		"__TOOL_CALL__: Calling tool 'add' with args {'a': 2, 'b': 3}",
		"__TOOL_CALL_RESULT__: Tool 'add' returned: 5",
		"\n__FINAL__:The answer is 5.",
	}}

	result, _ := m.sendMessage("what is 2+3?", true)
	m = drain(t, result.(model))

	blocks := m.chat.Blocks()
	if len(blocks) != 4 {
		t.Fatalf("blocks = %d, want user, call, result, assistant", len(blocks))
	}
	wantRoles := []transcript.Role{
		transcript.RoleUser,
		transcript.RoleToolCall,
		transcript.RoleToolResult,
		transcript.RoleAssistant,
	}
	for i, want := range wantRoles {
		if blocks[i].Role != want {
			t.Errorf("blocks[%d].Role = %d, want %d", i, blocks[i].Role, want)
		}
	}
	if blocks[3].Content != "The answer is 5." {
		t.Errorf("final answer = %q", blocks[3].Content)
	}
}

func TestStreamEndWithoutFinal(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{chunks: []string{"partial ", "answer"}}

	result, _ := m.sendMessage("q", true)
	m = drain(t, result.(model))

	if m.mode != modeIdle {
		t.Error("input not re-enabled after incomplete stream")
	}
	blocks := m.chat.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[1].Content != "partial answer" {
		t.Errorf("assistant block = %q, want streamed text to stand", blocks[1].Content)
	}
	if blocks[1].Pending {
		t.Error("assistant block still pending")
	}
}

func TestStreamStatusError(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{err: &api.StatusError{Code: 500}}

	result, _ := m.sendMessage("q", true)
	m = drain(t, result.(model))

	if m.mode != modeIdle {
		t.Error("input not re-enabled after error")
	}
	blocks := m.chat.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[1].Content != "[Error: 500]" {
		t.Errorf("error rendering = %q, want [Error: 500]", blocks[1].Content)
	}
}

func TestStreamNetworkError(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{err: errTest}

	result, _ := m.sendMessage("q", true)
	m = drain(t, result.(model))

	blocks := m.chat.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[1].Content != connectionErrText {
		t.Errorf("error rendering = %q, want %q", blocks[1].Content, connectionErrText)
	}
}

func TestNewThreadRotatesID(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{chunks: []string{"\n__FINAL__:Hello! I'm your assistant."}}
	m.chat.AppendUser("old message")
	oldID := m.threadID

	result, _ := m.cmdNewThread()
	rm := result.(model)

	if rm.threadID == oldID {
		t.Error("thread id did not rotate")
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ThreadID != rm.threadID {
		t.Errorf("persisted thread = %q, want %q", cfg.ThreadID, rm.threadID)
	}

	rm = drain(t, rm)
	// Only the bootstrap exchange remains, with no user bubble.
	blocks := rm.chat.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want just the greeting", len(blocks))
	}
	if blocks[0].Role != transcript.RoleAssistant {
		t.Errorf("blocks[0].Role = %d, want assistant", blocks[0].Role)
	}
	agent := rm.client.(*mockAgent)
	if agent.lastThread != rm.threadID {
		t.Errorf("bootstrap used thread %q, want %q", agent.lastThread, rm.threadID)
	}
}

func TestDarkToggle(t *testing.T) {
	m := newTestModel(t)
	if m.theme.name != "light" {
		t.Fatalf("default theme = %q, want light", m.theme.name)
	}

	result, _ := m.cmdDark()
	rm := result.(model)
	if rm.theme.name != "dark" {
		t.Errorf("theme = %q, want dark", rm.theme.name)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.DarkMode {
		t.Error("dark mode not persisted")
	}

	result, _ = rm.cmdDark()
	rm = result.(model)
	if rm.theme.name != "light" {
		t.Errorf("theme = %q, want light after second toggle", rm.theme.name)
	}
}

func TestExpandToggle(t *testing.T) {
	m := newTestModel(t)
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	m.chat.Apply(protocolAppendResult(string(long)))

	result, _ := m.cmdExpand(nil)
	rm := result.(model)
	blocks := rm.chat.Blocks()
	if !blocks[0].Expanded {
		t.Error("tool result not expanded")
	}

	result, _ = rm.cmdExpand(nil)
	rm = result.(model)
	if rm.chat.Blocks()[0].Expanded {
		t.Error("tool result not collapsed on second toggle")
	}
}

func TestExpandNoTarget(t *testing.T) {
	m := newTestModel(t)
	result, _ := m.cmdExpand(nil)
	rm := result.(model)
	if rm.notice == "" {
		t.Error("expected warning notice when nothing to expand")
	}
}

func TestMatchCommands(t *testing.T) {
	if got := len(matchCommands("/")); got != len(slashCommands) {
		t.Errorf("matchCommands(/) = %d, want all %d", got, len(slashCommands))
	}
	matches := matchCommands("/ex")
	if len(matches) != 1 || matches[0].name != "/expand" {
		t.Errorf("matchCommands(/ex) = %v", matches)
	}
	if got := matchCommands("/zzz"); len(got) != 0 {
		t.Errorf("matchCommands(/zzz) = %v, want none", got)
	}
}

func TestErrorAfterFinalizeNotRecorded(t *testing.T) {
	m := newTestModel(t)
	m.client = &mockAgent{chunks: []string{"\n__FINAL__:done"}, err: errTest}

	result, _ := m.sendMessage("q", true)
	m = drain(t, result.(model))

	blocks := m.chat.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[1].Content != "done" {
		t.Errorf("assistant block = %q, want the finalized answer to stand", blocks[1].Content)
	}

	thread, err := m.store.Load(m.threadID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(thread.Messages) != 2 {
		t.Fatalf("history has %d messages, want user + assistant", len(thread.Messages))
	}
	for _, msg := range thread.Messages {
		if strings.Contains(msg.Content, "Error") {
			t.Errorf("spurious error entry recorded: %q", msg.Content)
		}
	}
}

func TestCancelStream(t *testing.T) {
	m := newTestModel(t)
	result, _ := m.sendMessage("q", true)
	m = result.(model)

	result, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	rm := result.(model)
	if rm.mode != modeIdle {
		t.Errorf("mode = %d, want modeIdle after cancel", rm.mode)
	}
	if rm.chat.HasPending() {
		t.Error("pending block survived cancel")
	}
}

func TestCancelStreamReleasesProducer(t *testing.T) {
	m := newTestModel(t)
	// Well past the stream channel buffer, so the producer is still sending
	// when the cancel lands.
	chunks := make([]string, 200)
	for i := range chunks {
		chunks[i] = "chunk "
	}
	agent := &signalAgent{
		mockAgent: mockAgent{chunks: chunks},
		returned:  make(chan struct{}),
	}
	m.client = agent

	result, _ := m.sendMessage("q", true)
	m = result.(model)

	result, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	rm := result.(model)
	if rm.streamCh != nil {
		t.Error("stream channel still attached after cancel")
	}

	select {
	case <-agent.returned:
	case <-time.After(2 * time.Second):
		t.Fatal("ChatStream still blocked after cancel")
	}
}
