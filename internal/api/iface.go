package api

// Agent defines the streaming interface the TUI depends on. *Client
// satisfies it; tests substitute scripted mocks.
type Agent interface {
	ChatStream(userInput, threadID string, cb ChunkCallback) error
}

var _ Agent = (*Client)(nil)
