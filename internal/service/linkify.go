package service

import (
	"regexp"
	"strings"

	"github.com/muesli/termenv"
)

// OSC 8 hyperlink framing as emitted by termenv.Hyperlink.
const (
	osc8Open  = "\x1b]8;;"
	osc8Close = "\x1b\\"
)

// linkRe matches scheme URLs first, then bare host-like tokens
// (label.label...tld, optionally with a path).
var linkRe = regexp.MustCompile(`https?://[^\s<>"']+|(?:[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?\.)+[A-Za-z]{2,}(?:/[^\s<>"']*)?`)

// Linkify converts URLs and bare domains in text to OSC 8 terminal
// hyperlinks. Bare domains get an https target while the visible label stays
// the matched text. CRLF line endings are normalized to LF.
//
// Linkify is idempotent: text already inside a hyperlink span is left
// untouched, so re-render paths can call it repeatedly on accumulating
// buffers without double-wrapping anchors.
func Linkify(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.Contains(text, osc8Open) {
		return linkifySegment(text)
	}

	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, osc8Open)
		if start < 0 {
			b.WriteString(linkifySegment(rest))
			break
		}
		b.WriteString(linkifySegment(rest[:start]))

		span := hyperlinkSpanLen(rest[start:])
		if span < 0 {
			// Unterminated span: pass the remainder through untouched.
			b.WriteString(rest[start:])
			break
		}
		b.WriteString(rest[start : start+span])
		rest = rest[start+span:]
	}
	return b.String()
}

// hyperlinkSpanLen returns the length of the hyperlink span s begins with,
// through its closing empty OSC 8 sequence, or -1 if unterminated.
func hyperlinkSpanLen(s string) int {
	closer := osc8Open + osc8Close
	i := strings.Index(s[len(osc8Open):], closer)
	if i < 0 {
		return -1
	}
	return len(osc8Open) + i + len(closer)
}

func linkifySegment(s string) string {
	return linkRe.ReplaceAllStringFunc(s, func(m string) string {
		label, trail := splitTrailingPunct(m)
		if label == "" {
			return m
		}
		target := label
		if !strings.HasPrefix(label, "http://") && !strings.HasPrefix(label, "https://") {
			target = "https://" + label
		}
		return termenv.Hyperlink(target, label) + trail
	})
}

// splitTrailingPunct peels sentence punctuation off the end of a match so
// "see example.com." links example.com, not "example.com.".
func splitTrailingPunct(m string) (string, string) {
	cut := len(m)
	for cut > 0 && strings.ContainsRune(".,;:!?)", rune(m[cut-1])) {
		cut--
	}
	return m[:cut], m[cut:]
}
