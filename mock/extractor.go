package mock

import "github.com/fwojciec/jobtext"

var _ jobtext.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of jobtext.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*jobtext.MainContent, error)
}

func (e *Extractor) Extract(html string) (*jobtext.MainContent, error) {
	return e.ExtractFn(html)
}
