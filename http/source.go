package http

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/fwojciec/jobtext"
	"golang.org/x/sync/errgroup"
)

var _ jobtext.ContextSource = (*Source)(nil)

// maxFrames bounds the number of iframe documents fetched per page.
const maxFrames = 8

// FrameFinder lists the iframe sources of a document.
type FrameFinder interface {
	FrameURLs(html, baseURL string) []string
}

// Source opens postings as static documents. Each iframe found in the top
// document is fetched as its own execution context; frames that fail to
// load are left out.
type Source struct {
	Fetcher *Fetcher
	Frames  FrameFinder
	Text    jobtext.TextRenderer
}

// NewSource creates a Source.
func NewSource(fetcher *Fetcher, frames FrameFinder, text jobtext.TextRenderer) *Source {
	return &Source{Fetcher: fetcher, Frames: frames, Text: text}
}

// Open fetches url and its iframes.
func (s *Source) Open(ctx context.Context, url string) (jobtext.Page, error) {
	raw, final, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	top := &Document{id: "top", url: final, html: raw, text: s.Text}

	var frameURLs []string
	if s.Frames != nil {
		frameURLs = s.Frames.FrameURLs(raw, final)
	}
	if len(frameURLs) > maxFrames {
		frameURLs = frameURLs[:maxFrames]
	}

	frames := make([]*Document, len(frameURLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, u := range frameURLs {
		g.Go(func() error {
			body, frameFinal, err := s.Fetcher.Fetch(gctx, u)
			if err != nil {
				return nil
			}
			frames[i] = &Document{
				id:   jobtext.ContextID(fmt.Sprintf("frame-%d", i+1)),
				url:  frameFinal,
				html: body,
				text: s.Text,
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &Page{url: final, contexts: []jobtext.ExecutionContext{top}}
	for _, f := range frames {
		if f != nil {
			page.contexts = append(page.contexts, f)
		}
	}
	return page, nil
}

// Close is a no-op.
func (s *Source) Close() error {
	return nil
}

var _ jobtext.Page = (*Page)(nil)

// Page is a fetched posting.
type Page struct {
	url      string
	contexts []jobtext.ExecutionContext
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Contexts() []jobtext.ExecutionContext {
	return p.contexts
}

func (p *Page) Close() error {
	return nil
}

var _ jobtext.ExecutionContext = (*Document)(nil)

// Document is one fetched HTML document. Its content never changes, so
// readiness settles as soon as it has been sampled enough times.
type Document struct {
	id   jobtext.ContextID
	url  string
	html string
	text jobtext.TextRenderer

	once   sync.Once
	length int
	err    error
}

func (d *Document) ID() jobtext.ContextID {
	return d.id
}

func (d *Document) URL() string {
	return d.url
}

// TextLength returns the rune count of the document's visible text, or of
// its raw HTML when no renderer is set.
func (d *Document) TextLength(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.once.Do(func() {
		if d.text == nil {
			d.length = utf8.RuneCountInString(d.html)
			return
		}
		var text string
		text, d.err = d.text.VisibleText(d.html)
		d.length = utf8.RuneCountInString(text)
	})
	return d.length, d.err
}

func (d *Document) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.html, nil
}
