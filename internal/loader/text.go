package loader

import (
	"bufio"
	"io"
	"strings"
)

// TextLoader handles plain text notes.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var b strings.Builder
	first := true
	for scanner.Scan() {
		if !first {
			b.WriteString("\n")
		}
		first = false
		b.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
