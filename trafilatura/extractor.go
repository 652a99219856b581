// Package trafilatura isolates the main content of a posting page with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/jobtext"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ jobtext.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. It is used as an extra content candidate
// by the generic scraping strategy.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's main content. A page where trafilatura finds no
// content node is ENOCONTENT.
func (e *Extractor) Extract(rawHTML string) (*jobtext.MainContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}
	if result.ContentNode == nil {
		return nil, jobtext.Errorf(jobtext.ENOCONTENT, "no main content found")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}
	return &jobtext.MainContent{
		Title: result.Metadata.Title,
		HTML:  buf.String(),
	}, nil
}
