package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobtext"
	"golang.org/x/net/html"
)

var _ jobtext.TextRenderer = (*Renderer)(nil)

// Renderer renders the visible text of HTML documents.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// VisibleText returns the text a reader would see in the document body.
func (r *Renderer) VisibleText(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", jobtext.Errorf(jobtext.EINVALID, "failed to parse HTML: %v", err)
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return Text(doc.Selection), nil
	}
	return Text(body), nil
}

// Elements never rendered as text.
var invisible = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"canvas":   true,
	"iframe":   true,
	"object":   true,
}

// Elements that start a new line.
var lineBlocks = map[string]bool{
	"address": true, "article": true, "aside": true, "dd": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "section": true, "tr": true,
}

// Elements that are set apart by a blank line.
var paragraphBlocks = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "table": true, "blockquote": true,
	"pre": true,
}

// Text returns the visible text of sel. Block elements start new lines,
// hidden subtrees are skipped and whitespace is collapsed the way a browser
// collapses it.
func Text(sel *goquery.Selection) string {
	w := &textWriter{}
	for _, n := range sel.Nodes {
		w.walk(n, false)
	}
	return w.String()
}

type textWriter struct {
	buf []byte
}

func (w *textWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			w.buf = append(w.buf, n.Data...)
		} else {
			w.text(n.Data)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if invisible[n.Data] || hidden(n) {
			return
		}
	}

	name := ""
	if n.Type == html.ElementNode {
		name = n.Data
	}
	switch {
	case name == "br":
		w.trimSpace()
		w.buf = append(w.buf, '\n')
		return
	case paragraphBlocks[name]:
		w.newlines(2)
	case lineBlocks[name]:
		w.newlines(1)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre || name == "pre")
	}

	switch {
	case paragraphBlocks[name]:
		w.newlines(2)
	case lineBlocks[name]:
		w.newlines(1)
	case name == "td" || name == "th":
		w.text(" ")
	}
}

// text appends s with HTML whitespace collapsed to single spaces.
func (w *textWriter) text(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			if len(w.buf) == 0 {
				continue
			}
			if last := w.buf[len(w.buf)-1]; last == ' ' || last == '\n' {
				continue
			}
			w.buf = append(w.buf, ' ')
		default:
			w.buf = append(w.buf, c)
		}
	}
}

// newlines ends the current line and makes sure the text ends with at least
// n line breaks.
func (w *textWriter) newlines(n int) {
	w.trimSpace()
	if len(w.buf) == 0 {
		return
	}
	have := len(w.buf) - len(bytes.TrimRight(w.buf, "\n"))
	for ; have < n; have++ {
		w.buf = append(w.buf, '\n')
	}
}

func (w *textWriter) trimSpace() {
	w.buf = bytes.TrimRight(w.buf, " ")
}

func (w *textWriter) String() string {
	return strings.TrimSpace(string(w.buf))
}

// hidden reports whether an element is hidden by markup alone.
func hidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return true
			}
		case "style":
			style := strings.ToLower(strings.ReplaceAll(a.Val, " ", ""))
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}
