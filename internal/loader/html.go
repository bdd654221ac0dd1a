package loader

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLLoader handles HTML note exports. Heading tags become their own
// header-style lines; paragraph-level elements become text lines.
type HTMLLoader struct{}

func (l *HTMLLoader) Load(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isHeadingTag(n.Data) {
				writeBlock(textContent(n) + ":")
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "title":
				return
			case "li":
				writeBlock("- " + textContent(n))
				return
			case "p", "td", "blockquote", "div":
				// Only flush leaf-level blocks; containers recurse.
				if !hasBlockChild(n) {
					writeBlock(textContent(n))
					return
				}
			case "br":
				writeBlock("")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return out.String(), nil
}

func isHeadingTag(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "p", "div", "ul", "ol", "table", "blockquote":
			return true
		}
		if isHeadingTag(c.Data) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
