// Package lineproto implements the ASCII line protocol spoken on both
// serial links: newline-terminated, keyword-prefixed messages with
// comma-separated fields.
package lineproto

import "strings"

// Framer accumulates raw bytes and yields complete lines. Partial lines
// are preserved verbatim across pushes; there is no flush on timeout.
type Framer struct {
	buf []byte
}

// Push appends received bytes and returns every line completed by them,
// with trailing whitespace (including '\r') trimmed. Empty lines are
// returned as empty strings so callers can skip them.
func (f *Framer) Push(data []byte) []string {
	var lines []string
	for _, b := range data {
		if b == '\n' {
			lines = append(lines, strings.TrimRight(string(f.buf), " \t\r"))
			f.buf = f.buf[:0]
			continue
		}
		f.buf = append(f.buf, b)
	}
	return lines
}

// Pending is the number of buffered bytes of the current partial line.
func (f *Framer) Pending() int { return len(f.buf) }

// Reset discards any partial line.
func (f *Framer) Reset() { f.buf = f.buf[:0] }
