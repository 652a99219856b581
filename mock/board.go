package mock

import (
	"context"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.JobBoard = (*JobBoard)(nil)

// JobBoard is a mock implementation of jobtext.JobBoard.
type JobBoard struct {
	FetchJobFn func(ctx context.Context, boardToken, jobID string) (*jobtext.BoardJob, error)
}

func (b *JobBoard) FetchJob(ctx context.Context, boardToken, jobID string) (*jobtext.BoardJob, error) {
	return b.FetchJobFn(ctx, boardToken, jobID)
}
