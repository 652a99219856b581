package mock

import (
	"context"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.ExecutionContext = (*ExecutionContext)(nil)

// ExecutionContext is a mock implementation of jobtext.ExecutionContext.
type ExecutionContext struct {
	IDFn         func() jobtext.ContextID
	URLFn        func() string
	TextLengthFn func(ctx context.Context) (int, error)
	HTMLFn       func(ctx context.Context) (string, error)
}

func (c *ExecutionContext) ID() jobtext.ContextID {
	return c.IDFn()
}

func (c *ExecutionContext) URL() string {
	return c.URLFn()
}

func (c *ExecutionContext) TextLength(ctx context.Context) (int, error) {
	return c.TextLengthFn(ctx)
}

func (c *ExecutionContext) HTML(ctx context.Context) (string, error) {
	return c.HTMLFn(ctx)
}

// StaticContext returns an ExecutionContext serving fixed HTML whose text
// length never changes.
func StaticContext(id jobtext.ContextID, url, html string) *ExecutionContext {
	return &ExecutionContext{
		IDFn:  func() jobtext.ContextID { return id },
		URLFn: func() string { return url },
		TextLengthFn: func(context.Context) (int, error) {
			return len(html), nil
		},
		HTMLFn: func(context.Context) (string, error) {
			return html, nil
		},
	}
}

var _ jobtext.Page = (*Page)(nil)

// Page is a mock implementation of jobtext.Page.
type Page struct {
	URLFn      func() string
	ContextsFn func() []jobtext.ExecutionContext
	CloseFn    func() error
}

func (p *Page) URL() string {
	return p.URLFn()
}

func (p *Page) Contexts() []jobtext.ExecutionContext {
	return p.ContextsFn()
}

func (p *Page) Close() error {
	return p.CloseFn()
}

var _ jobtext.ContextSource = (*ContextSource)(nil)

// ContextSource is a mock implementation of jobtext.ContextSource.
type ContextSource struct {
	OpenFn  func(ctx context.Context, url string) (jobtext.Page, error)
	CloseFn func() error
}

func (s *ContextSource) Open(ctx context.Context, url string) (jobtext.Page, error) {
	return s.OpenFn(ctx, url)
}

func (s *ContextSource) Close() error {
	return s.CloseFn()
}

var _ jobtext.TextRenderer = (*TextRenderer)(nil)

// TextRenderer is a mock implementation of jobtext.TextRenderer.
type TextRenderer struct {
	VisibleTextFn func(html string) (string, error)
}

func (r *TextRenderer) VisibleText(html string) (string, error) {
	return r.VisibleTextFn(html)
}

var _ jobtext.EmbedFinder = (*EmbedFinder)(nil)

// EmbedFinder is a mock implementation of jobtext.EmbedFinder.
type EmbedFinder struct {
	EmbedURLsFn func(html, baseURL string) []string
}

func (f *EmbedFinder) EmbedURLs(html, baseURL string) []string {
	return f.EmbedURLsFn(html, baseURL)
}
