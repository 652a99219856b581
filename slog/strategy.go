// Package slog decorates jobtext services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy logs every extraction attempt at debug level.
type LoggingStrategy struct {
	next   jobtext.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next jobtext.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

func (s *LoggingStrategy) Name() string { return s.next.Name() }

func (s *LoggingStrategy) Kind() jobtext.SourceKind { return s.next.Kind() }

// Extract logs the strategy, the context it ran in and how much it found.
func (s *LoggingStrategy) Extract(ctx context.Context, doc jobtext.ExecutionContext) (result *jobtext.ExtractionResult, err error) {
	defer func(begin time.Time) {
		contextID := jobtext.ContextOrchestrator
		if doc != nil {
			contextID = doc.ID()
		}
		chars := 0
		if result != nil {
			chars = result.ContentLength
		}
		s.logger.Debug("strategy",
			"name", s.next.Name(),
			"context", contextID,
			"found", result != nil,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, doc)
}

// WrapStrategies decorates each strategy with a LoggingStrategy.
func WrapStrategies(strategies []jobtext.Strategy, logger *slog.Logger) []jobtext.Strategy {
	out := make([]jobtext.Strategy, len(strategies))
	for i, s := range strategies {
		out[i] = NewLoggingStrategy(s, logger)
	}
	return out
}
