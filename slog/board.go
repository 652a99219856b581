package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.JobBoard = (*LoggingJobBoard)(nil)

// LoggingJobBoard logs job board API calls.
type LoggingJobBoard struct {
	next   jobtext.JobBoard
	logger *slog.Logger
}

// NewLoggingJobBoard creates a new LoggingJobBoard.
func NewLoggingJobBoard(next jobtext.JobBoard, logger *slog.Logger) *LoggingJobBoard {
	return &LoggingJobBoard{next: next, logger: logger}
}

func (b *LoggingJobBoard) FetchJob(ctx context.Context, boardToken, jobID string) (job *jobtext.BoardJob, err error) {
	defer func(begin time.Time) {
		b.logger.Info("board fetch",
			"board", boardToken,
			"job", jobID,
			"found", job != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.FetchJob(ctx, boardToken, jobID)
}
