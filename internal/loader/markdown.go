package loader

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader handles Markdown notes using goldmark. Headings become
// their own lines so the section detector can resolve them against the
// synonym table ("## Assessment" turns into the header line "Assessment:").
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var out strings.Builder
	writeBlock := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title != "" {
				writeBlock(title + ":")
			}
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				writeBlock("- " + nodeText(item, src))
			}
		default:
			writeBlock(nodeText(n, src))
		}
	}

	return out.String(), nil
}

// nodeText gets the text content of a goldmark AST node. Blocks with
// parsed inline children render through them; raw lines are only read for
// childless blocks such as fenced code, so text is never emitted twice.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.FirstChild() == nil && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
