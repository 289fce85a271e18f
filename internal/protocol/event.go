package protocol

import "strings"

// Marker sentinels the agent server embeds in the chat stream. Everything
// that matches none of them is plain incremental assistant text.
const (
	finalMarker      = "\n__FINAL__:"
	toolCallMarker   = "__TOOL_CALL__:"
	toolResultMarker = "__TOOL_CALL_RESULT__:"
)

// EventKind identifies what a decoded stream chunk carries.
type EventKind int

const (
	EventPlainText EventKind = iota
	EventToolCall
	EventToolResult
	EventFinalize
)

// Event is the classified form of one stream chunk.
type Event struct {
	Kind EventKind
	Text string // plain text, call summary, result payload, or final answer
}

// Classify matches one chunk against the marker grammar.
//
// The final marker must begin the chunk and claims the whole remainder,
// untrimmed. Tool markers may sit anywhere in the chunk and anything after
// the colon, trimmed, is their payload. A chunk carries at most one marker;
// markers split across transport chunks are not reassembled and fall through
// as plain text.
func Classify(chunk string) Event {
	if strings.HasPrefix(chunk, finalMarker) {
		return Event{Kind: EventFinalize, Text: chunk[len(finalMarker):]}
	}
	if i := strings.Index(chunk, toolCallMarker); i >= 0 {
		return Event{Kind: EventToolCall, Text: strings.TrimSpace(chunk[i+len(toolCallMarker):])}
	}
	if i := strings.Index(chunk, toolResultMarker); i >= 0 {
		return Event{Kind: EventToolResult, Text: strings.TrimSpace(chunk[i+len(toolResultMarker):])}
	}
	return Event{Kind: EventPlainText, Text: chunk}
}
