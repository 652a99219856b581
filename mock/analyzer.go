package mock

import (
	"context"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of jobtext.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, text, sourceURL string) (*jobtext.JobPosting, error)
}

func (a *Analyzer) Analyze(ctx context.Context, text, sourceURL string) (*jobtext.JobPosting, error) {
	return a.AnalyzeFn(ctx, text, sourceURL)
}
