package goquery_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/goquery"
	"github.com/fwojciec/jobtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generic(opts ...goquery.GenericOption) *goquery.GenericStrategy {
	return goquery.NewGenericStrategy(jobtext.DefaultSelectors(), testThresholds(), opts...)
}

func TestGenericStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("picks the longest region above the floor", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title>Careers | Acme</title></head><body>
<main><p>Short main text here.</p></main>
<article><p>The article holds the full posting with responsibilities and requirements.</p></article>
</body></html>`
		doc := mock.StaticContext("top", "https://acme.com/careers/1", page)

		got, err := generic().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "The article holds the full posting with responsibilities and requirements.", got.Text)
		assert.Equal(t, "Careers | Acme", got.Title)
		assert.Equal(t, jobtext.SourceGenericScrape, got.SourceKind)
	})

	t.Run("removes noise from regions", func(t *testing.T) {
		t.Parallel()

		page := `<body><main><div class="cookie-banner">We use cookies</div>` +
			`<p>Ship features to millions of users every week.</p></main></body>`
		doc := mock.StaticContext("top", "https://acme.com/careers/2", page)

		got, err := generic().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Ship features to millions of users every week.", got.Text)
	})

	t.Run("uses the whole page when no region qualifies", func(t *testing.T) {
		t.Parallel()

		page := `<body><nav>Menu</nav><div>Hello</div><div>World</div></body>`
		doc := mock.StaticContext("top", "https://acme.com/careers/3", page)

		got, err := generic().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Hello\nWorld", got.Text)
	})

	t.Run("never returns nil for a page with visible text", func(t *testing.T) {
		t.Parallel()

		page := `<body><nav>Only navigation text</nav></body>`
		doc := mock.StaticContext("top", "https://acme.com/careers/4", page)

		got, err := generic().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Only navigation text", got.Text)
	})

	t.Run("returns nil for a page without visible text", func(t *testing.T) {
		t.Parallel()

		doc := mock.StaticContext("top", "https://acme.com/careers/5", `<body><script>boot()</script></body>`)

		got, err := generic().Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("main content candidate competes with regions", func(t *testing.T) {
		t.Parallel()

		// Given an extractor that isolates more text than any region
		long := strings.Repeat("Responsibilities include designing services. ", 5)
		main := &mock.Extractor{
			ExtractFn: func(html string) (*jobtext.MainContent, error) {
				assert.Contains(t, html, "Short main text")
				return &jobtext.MainContent{HTML: "<div><p>" + long + "</p></div>"}, nil
			},
		}
		page := `<body><main><p>Short main text that qualifies.</p></main></body>`
		doc := mock.StaticContext("top", "https://acme.com/careers/6", page)

		// When
		got, err := generic(goquery.WithMainContent(main)).Extract(context.Background(), doc)

		// Then
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, strings.TrimSpace(long), got.Text)
	})

	t.Run("ignores a failing main content extractor", func(t *testing.T) {
		t.Parallel()

		main := &mock.Extractor{
			ExtractFn: func(string) (*jobtext.MainContent, error) {
				return nil, errors.New("no main content")
			},
		}
		page := `<body><main><p>Regions still work without the extractor.</p></main></body>`
		doc := mock.StaticContext("top", "https://acme.com/careers/7", page)

		got, err := generic(goquery.WithMainContent(main)).Extract(context.Background(), doc)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Regions still work without the extractor.", got.Text)
	})
}
