package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.ContextSource = (*LoggingSource)(nil)

// LoggingSource logs page loads.
type LoggingSource struct {
	next   jobtext.ContextSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next jobtext.ContextSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Open logs the URL and the number of execution contexts found.
func (s *LoggingSource) Open(ctx context.Context, url string) (page jobtext.Page, err error) {
	defer func(begin time.Time) {
		contexts := 0
		if page != nil {
			contexts = len(page.Contexts())
		}
		s.logger.Info("open",
			"url", url,
			"contexts", contexts,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Open(ctx, url)
}

func (s *LoggingSource) Close() error {
	return s.next.Close()
}
