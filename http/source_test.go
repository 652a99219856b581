package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/goquery"
	jobhttp "github.com/fwojciec/jobtext/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embedPage = `<html><body><h1>Staff Engineer</h1><script>x()</script><p>Build the ledger.</p></body></html>`

func newCareersServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/careers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Careers</h1>
<iframe src="/embed?for=acme&token=4012345"></iframe>
<iframe src="/missing"></iframe>
</body></html>`)
	})
	mux.HandleFunc("/embed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, embedPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_Open(t *testing.T) {
	t.Parallel()

	var _ jobtext.ContextSource = (*jobhttp.Source)(nil)

	t.Run("fetches iframes as separate contexts", func(t *testing.T) {
		t.Parallel()

		// Given a careers page embedding one working and one broken frame
		srv := newCareersServer(t)
		source := jobhttp.NewSource(jobhttp.NewFetcher(), goquery.NewDetector(), goquery.NewRenderer())

		// When the page is opened
		page, err := source.Open(context.Background(), srv.URL+"/careers")
		require.NoError(t, err)
		defer page.Close()

		// Then the working frame is a context and the broken one is left out
		contexts := page.Contexts()
		require.Len(t, contexts, 2)
		assert.Equal(t, jobtext.ContextID("top"), contexts[0].ID())
		assert.Equal(t, srv.URL+"/embed?for=acme&token=4012345", contexts[1].URL())
		assert.Equal(t, []string{srv.URL + "/embed?for=acme&token=4012345"}, jobtext.FrameURLs(page))

		html, err := contexts[1].HTML(context.Background())
		require.NoError(t, err)
		assert.Contains(t, html, "Build the ledger.")
	})

	t.Run("measures visible text", func(t *testing.T) {
		t.Parallel()

		srv := newCareersServer(t)
		source := jobhttp.NewSource(jobhttp.NewFetcher(), nil, goquery.NewRenderer())

		page, err := source.Open(context.Background(), srv.URL+"/embed")
		require.NoError(t, err)

		n, err := page.Contexts()[0].TextLength(context.Background())

		require.NoError(t, err)
		want, err := goquery.NewRenderer().VisibleText(embedPage)
		require.NoError(t, err)
		assert.Equal(t, utf8.RuneCountInString(want), n)
		assert.NotContains(t, want, "x()")
	})

	t.Run("without a frame finder only the top document is loaded", func(t *testing.T) {
		t.Parallel()

		srv := newCareersServer(t)
		source := jobhttp.NewSource(jobhttp.NewFetcher(), nil, nil)

		page, err := source.Open(context.Background(), srv.URL+"/careers")

		require.NoError(t, err)
		assert.Len(t, page.Contexts(), 1)
	})

	t.Run("top document failure is returned", func(t *testing.T) {
		t.Parallel()

		srv := newCareersServer(t)
		source := jobhttp.NewSource(jobhttp.NewFetcher(), goquery.NewDetector(), nil)

		_, err := source.Open(context.Background(), srv.URL+"/missing")

		assert.Equal(t, jobtext.ENOTFOUND, jobtext.ErrorCode(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		srv := newCareersServer(t)
		source := jobhttp.NewSource(jobhttp.NewFetcher(), nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := source.Open(ctx, srv.URL+"/careers")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
