package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer logs calls to an analysis provider.
type LoggingAnalyzer struct {
	next     jobtext.Analyzer
	provider string
	logger   *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer for the named provider.
func NewLoggingAnalyzer(next jobtext.Analyzer, provider string, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, provider: provider, logger: logger}
}

func (a *LoggingAnalyzer) Analyze(ctx context.Context, text, sourceURL string) (posting *jobtext.JobPosting, err error) {
	defer func(begin time.Time) {
		title := ""
		if posting != nil {
			title = posting.Title
		}
		a.logger.Info("analyze",
			"provider", a.provider,
			"url", sourceURL,
			"chars", len(text),
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(ctx, text, sourceURL)
}
