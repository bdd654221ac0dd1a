// Package normalize cleans raw note text into a canonical form the
// section detector and extractors can rely on.
package normalize

import "strings"

// Normalize unifies line endings to LF, strips C0 control characters except
// LF and tab, and collapses runs of 3+ horizontal whitespace to one space
// while preserving line breaks. It never fails and is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))

	// Horizontal whitespace run tracking. A run of 3 or more spaces/tabs
	// collapses to a single space; shorter runs pass through unchanged.
	var run []byte
	flushRun := func() {
		if len(run) >= 3 {
			b.WriteByte(' ')
		} else {
			b.Write(run)
		}
		run = run[:0]
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\r':
			flushRun()
			b.WriteByte('\n')
			// CRLF counts as one newline.
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case c == '\n':
			flushRun()
			b.WriteByte('\n')
		case c == ' ' || c == '\t':
			run = append(run, c)
		case c < 0x20:
			// Other C0 controls are dropped outright.
		default:
			flushRun()
			b.WriteByte(c)
		}
	}
	flushRun()

	return b.String()
}
