// Package readability isolates the main content of a posting page with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/jobtext"
	"github.com/go-shiori/go-readability"
)

var _ jobtext.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability. It is an alternative to the trafilatura
// extractor as the generic strategy's extra content candidate.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable article of the page, or ENOCONTENT when
// readability finds none.
func (e *Extractor) Extract(rawHTML string) (*jobtext.MainContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, jobtext.Errorf(jobtext.ENOCONTENT, "no readable content found")
	}
	return &jobtext.MainContent{
		Title: article.Title,
		HTML:  article.Content,
	}, nil
}
