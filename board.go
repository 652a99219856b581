package jobtext

import "context"

// BoardJob is a posting as returned by a job board API.
type BoardJob struct {
	Title       string
	Location    string
	Departments []string

	// ContentHTML is the posting body, already HTML-unescaped.
	ContentHTML string

	URL       string
	UpdatedAt string
}

// JobBoard fetches postings from a job board's public API.
type JobBoard interface {
	FetchJob(ctx context.Context, boardToken, jobID string) (*BoardJob, error)
}
