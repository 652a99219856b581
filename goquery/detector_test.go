package goquery_test

import (
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/goquery"
	"github.com/stretchr/testify/assert"
)

const embedPage = `<html><body>
<div id="grnhse_app"></div>
<iframe src="/widgets/chat#top"></iframe>
<iframe src="about:blank"></iframe>
<iframe src="https://boards.greenhouse.io/embed/job_app?for=acme&amp;token=4012345"></iframe>
<iframe src="/widgets/chat"></iframe>
<script src="https://boards.greenhouse.io/embed/job_board/js?for=acme"></script>
<script src="/static/app.js"></script>
</body></html>`

func TestDetector_FrameURLs(t *testing.T) {
	t.Parallel()

	d := goquery.NewDetector()

	got := d.FrameURLs(embedPage, "https://acme.com/careers?gh_jid=4012345")

	assert.Equal(t, []string{
		"https://acme.com/widgets/chat",
		"https://boards.greenhouse.io/embed/job_app?for=acme&token=4012345",
	}, got)
}

func TestDetector_EmbedURLs(t *testing.T) {
	t.Parallel()

	d := goquery.NewDetector()

	got := d.EmbedURLs(embedPage, "https://acme.com/careers?gh_jid=4012345")

	assert.Equal(t, []string{
		"https://acme.com/widgets/chat",
		"https://boards.greenhouse.io/embed/job_app?for=acme&token=4012345",
		"https://boards.greenhouse.io/embed/job_board/js?for=acme",
	}, got)
}

func TestDetector_EmbedURLs_resolve_the_board(t *testing.T) {
	t.Parallel()

	// Given a page that loads the board with a script and no iframe yet
	page := `<body><div id="grnhse_app"></div>` +
		`<script src="https://boards.greenhouse.io/embed/job_board/js?for=globex"></script></body>`

	// When
	urls := goquery.NewDetector().EmbedURLs(page, "https://globex.com/jobs?gh_jid=7")
	id := jobtext.Classify("https://globex.com/jobs?gh_jid=7", urls...)

	// Then
	assert.True(t, id.Resolved())
	assert.Equal(t, "globex", id.BoardToken)
}

func TestDetector_ignores_unparseable_base(t *testing.T) {
	t.Parallel()

	assert.Empty(t, goquery.NewDetector().FrameURLs(embedPage, "://bad"))
}
