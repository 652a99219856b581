package jobtext

import "context"

// ExecutionContext is one isolated document within a page: the top-level
// document or a nested frame. Extraction runs independently in each one.
type ExecutionContext interface {
	// ID identifies the context within its page.
	ID() ContextID

	// URL returns the address of the document loaded in the context.
	URL() string

	// TextLength returns the current length of the document's visible text.
	// It is the content-size proxy polled while waiting for readiness.
	TextLength(ctx context.Context) (int, error)

	// HTML returns the current serialized document.
	HTML(ctx context.Context) (string, error)
}

// Page is a loaded page and the execution contexts it contains,
// top-level document first.
type Page interface {
	URL() string
	Contexts() []ExecutionContext

	// Close releases the page. Contexts must not be used afterwards.
	Close() error
}

// ContextSource loads pages.
// Implementations may use browser automation to render JavaScript.
type ContextSource interface {
	Open(ctx context.Context, url string) (Page, error)

	// Close releases resources held by the source.
	Close() error
}

// FrameURLs returns the URLs of every context of p except the top-level one.
func FrameURLs(p Page) []string {
	contexts := p.Contexts()
	if len(contexts) <= 1 {
		return nil
	}
	urls := make([]string, 0, len(contexts)-1)
	for _, c := range contexts[1:] {
		urls = append(urls, c.URL())
	}
	return urls
}

// TextRenderer renders the visible text of an HTML document.
type TextRenderer interface {
	VisibleText(html string) (string, error)
}

// EmbedFinder lists the URLs of the documents a page embeds, such as iframe
// sources and job board embed scripts, as found in its markup.
type EmbedFinder interface {
	EmbedURLs(html, baseURL string) []string
}
