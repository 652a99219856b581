package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/go-rod/rod"
)

var _ jobtext.ContextSource = (*Source)(nil)

// DefaultSettle is how long Source waits after the load event for scripts to
// inject embedded frames.
const DefaultSettle = time.Second

// maxFrames bounds the number of iframe contexts collected per page.
const maxFrames = 16

const (
	textLengthJS = `() => document.body ? document.body.innerText.length : 0`
	locationJS   = `() => location.href`
)

// Source opens postings in browser tabs.
type Source struct {
	manager *BrowserManager
	settle  time.Duration
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithSettle sets the delay between the load event and frame discovery.
func WithSettle(d time.Duration) SourceOption {
	return func(s *Source) {
		s.settle = d
	}
}

// NewSource creates a Source backed by manager. Closing the Source closes
// the manager.
func NewSource(manager *BrowserManager, opts ...SourceOption) *Source {
	s := &Source{manager: manager, settle: DefaultSettle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open navigates a fresh tab to url, waits for the load event and the settle
// delay, and collects the top document and its iframes, depth first.
func (s *Source) Open(ctx context.Context, url string) (jobtext.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tab, err := s.manager.NewPage()
	if err != nil {
		return nil, err
	}

	p := tab.Context(ctx)
	if err := p.Navigate(url); err != nil {
		_ = s.manager.ClosePage(tab)
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		_ = s.manager.ClosePage(tab)
		return nil, fmt.Errorf("waiting for %s: %w", url, err)
	}
	if err := sleep(ctx, s.settle); err != nil {
		_ = s.manager.ClosePage(tab)
		return nil, err
	}

	page := &Page{manager: s.manager, tab: tab, url: url}
	page.contexts = append(page.contexts, &Frame{id: "top", url: location(p, url), page: tab})
	page.collectFrames(ctx, tab)
	return page, nil
}

// Close stops the browser.
func (s *Source) Close() error {
	return s.manager.Close()
}

var _ jobtext.Page = (*Page)(nil)

// Page is a browser tab holding a loaded posting.
type Page struct {
	manager  *BrowserManager
	tab      *rod.Page
	url      string
	contexts []jobtext.ExecutionContext
	once     sync.Once
	err      error
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Contexts() []jobtext.ExecutionContext {
	return p.contexts
}

// Close closes the tab.
func (p *Page) Close() error {
	p.once.Do(func() {
		p.err = p.manager.ClosePage(p.tab)
	})
	return p.err
}

// collectFrames appends the iframes of parent and their own iframes.
// Frames that cannot be entered are skipped.
func (p *Page) collectFrames(ctx context.Context, parent *rod.Page) {
	els, err := parent.Context(ctx).Elements("iframe")
	if err != nil {
		return
	}
	for _, el := range els {
		if len(p.contexts) > maxFrames {
			return
		}
		frame, err := el.Frame()
		if err != nil {
			continue
		}
		id := jobtext.ContextID(fmt.Sprintf("frame-%d", len(p.contexts)))
		p.contexts = append(p.contexts, &Frame{id: id, url: location(frame.Context(ctx), ""), page: frame})
		p.collectFrames(ctx, frame)
	}
}

var _ jobtext.ExecutionContext = (*Frame)(nil)

// Frame is one document of a tab: the top document or an iframe.
type Frame struct {
	id   jobtext.ContextID
	url  string
	page *rod.Page
}

func (f *Frame) ID() jobtext.ContextID {
	return f.id
}

func (f *Frame) URL() string {
	return f.url
}

// TextLength returns the length of the body's innerText.
func (f *Frame) TextLength(ctx context.Context) (int, error) {
	res, err := f.page.Context(ctx).Eval(textLengthJS)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// HTML returns the rendered document.
func (f *Frame) HTML(ctx context.Context) (string, error) {
	return f.page.Context(ctx).HTML()
}

// location returns the address of the document in p, or fallback when it
// cannot be read.
func location(p *rod.Page, fallback string) string {
	res, err := p.Eval(locationJS)
	if err != nil {
		return fallback
	}
	if href := res.Value.Str(); href != "" {
		return href
	}
	return fallback
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
