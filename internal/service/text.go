package service

// ResultPreviewLimit is how many runes of a tool result payload render
// before the rest hides behind the expand affordance.
const ResultPreviewLimit = 500

// TruncateResult returns the preview text for a tool result payload and
// whether anything was held back. Payloads at or under the limit pass
// through unchanged.
func TruncateResult(payload string) (string, bool) {
	runes := []rune(payload)
	if len(runes) <= ResultPreviewLimit {
		return payload, false
	}
	return string(runes[:ResultPreviewLimit]), true
}

// RuneCount avoids recomputing []rune conversions at call sites that need
// the hidden-rune count for the affordance label.
func RuneCount(s string) int {
	return len([]rune(s))
}
