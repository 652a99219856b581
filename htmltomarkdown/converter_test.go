package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("keeps the structure of a description", func(t *testing.T) {
		t.Parallel()

		html := `<h2>Responsibilities</h2><ul><li>Design APIs</li><li>Review code</li></ul>` +
			`<h2>Requirements</h2><ol><li>5+ years of Go</li></ol><p>Apply at <a href="https://acme.com/apply">our site</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "## Responsibilities")
		assert.Contains(t, md, "- Design APIs")
		assert.Contains(t, md, "- Review code")
		assert.Contains(t, md, "1. 5+ years of Go")
		assert.Contains(t, md, "[our site](https://acme.com/apply)")
	})

	t.Run("converts compensation tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Level</th><th>Range</th></tr></thead>` +
			`<tbody><tr><td>Senior</td><td>$150k</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Level")
		assert.Contains(t, md, "Senior")
		assert.Contains(t, md, "$150k")
	})

	t.Run("trims the result", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n\n<p>Hello</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Hello", md)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		assert.Equal(t, jobtext.EINVALID, jobtext.ErrorCode(err))
	})

	t.Run("reports markup without text", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("<div><span></span></div>")

		assert.Equal(t, jobtext.ENOCONTENT, jobtext.ErrorCode(err))
	})
}
