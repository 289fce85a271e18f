package protocol

import (
	"strings"
	"unicode/utf8"
)

// Decoder converts raw network byte chunks into text. It only buffers the
// trailing bytes of a UTF-8 sequence split across reads; invalid bytes are
// substituted with U+FFFD rather than failing the stream.
type Decoder struct {
	pending []byte
}

// Decode returns the text for one byte chunk, joined with any incomplete
// rune tail held back from the previous chunk.
func (d *Decoder) Decode(p []byte) string {
	if len(d.pending) > 0 {
		p = append(d.pending, p...)
		d.pending = nil
	}

	keep := incompleteTail(p)
	text := decodeReplacing(p[:len(p)-keep])
	if keep > 0 {
		d.pending = append([]byte(nil), p[len(p)-keep:]...)
	}
	return text
}

// Flush drains a tail still held at end of stream, substituting it if it
// never completed.
func (d *Decoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	text := decodeReplacing(d.pending)
	d.pending = nil
	return text
}

// incompleteTail returns how many trailing bytes form the start of a UTF-8
// sequence that could still complete in the next chunk. 0 when the slice
// ends on a rune boundary or the tail can never complete (those bytes then
// decode as substitutions).
func incompleteTail(p []byte) int {
	n := len(p)
	for i := 1; i <= utf8.UTFMax && i <= n; i++ {
		b := p[n-i]
		if b < 0x80 {
			return 0
		}
		if b >= 0xC0 { // lead byte
			if seqLen(b) > i {
				return i
			}
			return 0
		}
		// continuation byte, keep scanning back
	}
	return 0
}

func seqLen(lead byte) int {
	switch {
	case lead >= 0xF0:
		return 4
	case lead >= 0xE0:
		return 3
	default:
		return 2
	}
}

// decodeReplacing decodes p, substituting each invalid byte with U+FFFD.
func decodeReplacing(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	var b strings.Builder
	b.Grow(len(p))
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(p[:size])
		}
		p = p[size:]
	}
	return b.String()
}
