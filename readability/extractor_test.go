package readability_test

import (
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingPage = `<!DOCTYPE html>
<html>
<head><title>Data Engineer at Globex</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/jobs">Jobs Nav Link</a></nav>
<article>
<h1>Data Engineer</h1>
<p>Globex is hiring a data engineer to build the pipelines that feed our analytics and machine learning teams.</p>
<p>You will model warehouse tables, tune batch and streaming jobs, and work closely with analysts across the company.</p>
<p>Experience with SQL, Python or Go, and a cloud data warehouse is expected for this role.</p>
</article>
<aside class="sidebar"><p>Similar jobs sidebar</p></aside>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns the article", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(postingPage)

		require.NoError(t, err)
		assert.Equal(t, "Data Engineer at Globex", result.Title)
		assert.Contains(t, result.HTML, "pipelines that feed our analytics")
		assert.NotContains(t, result.HTML, "Home Nav Link")
		assert.NotContains(t, result.HTML, "Footer copyright text")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, jobtext.EINVALID, jobtext.ErrorCode(err))
	})
}
