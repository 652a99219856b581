package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/goquery"
	"github.com/fwojciec/jobtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rocketship() *goquery.MarkerStrategy {
	sel := jobtext.DefaultSelectors()
	return goquery.NewMarkerStrategy(sel.Markers[jobtext.SiteRemoteRocketship], sel, testThresholds())
}

func TestMarkerStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("cuts the page at the first marker", func(t *testing.T) {
		t.Parallel()

		// Given a posting followed by a similar jobs section
		page := `<html><head><title>Data Engineer</title></head><body>
<nav>Home Jobs</nav>
<h1>Data Engineer</h1>
<p>All the job details you need to apply.</p>
<h2>Similar Jobs</h2>
<p>more jobs</p>
</body></html>`
		doc := mock.StaticContext("top", "https://www.remoterocketship.com/company/acme/jobs/data-engineer", page)

		// When
		got, err := rocketship().Extract(context.Background(), doc)

		// Then nothing from the marker onwards survives
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Data Engineer\n\nAll the job details you need to apply.", got.Text)
		assert.Equal(t, "Data Engineer", got.Title)
		assert.Equal(t, jobtext.SourceMarkerTruncated, got.SourceKind)
	})

	t.Run("returns nil below the minimum length", func(t *testing.T) {
		t.Parallel()

		page := `<body><p>Short</p><h2>Similar Jobs</h2><p>Lots and lots of other postings here</p></body>`
		doc := mock.StaticContext("top", "https://www.remoterocketship.com/x", page)

		got, err := rocketship().Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestTruncateAtMarker(t *testing.T) {
	t.Parallel()

	markers := []string{"Remote Rocketship", "Similar Jobs"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"earliest position wins over list order", "Intro Similar Jobs middle Remote Rocketship tail", "Intro"},
		{"markers are case sensitive", "Intro similar jobs tail", "Intro similar jobs tail"},
		{"no marker leaves text unchanged", "Just the posting", "Just the posting"},
		{"marker at start leaves nothing", "Similar Jobs everywhere", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, goquery.TruncateAtMarker(tt.text, markers))
		})
	}
}
