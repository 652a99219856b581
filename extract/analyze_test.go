package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/fwojciec/jobtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzingSink(sendErr, analyzeErr error) (*extract.AnalyzingTransport, *[]string) {
	var written []string
	t := &extract.AnalyzingTransport{
		Next: &mock.Transport{
			SendFn: func(context.Context, jobtext.Payload) (*jobtext.Ack, error) {
				if sendErr != nil {
					return nil, sendErr
				}
				return &jobtext.Ack{Status: jobtext.AckSuccess, ID: "job_1", Filename: "/out/job_1_raw.txt"}, nil
			},
		},
		Analyzer: &mock.Analyzer{
			AnalyzeFn: func(_ context.Context, text, _ string) (*jobtext.JobPosting, error) {
				if analyzeErr != nil {
					return nil, analyzeErr
				}
				return &jobtext.JobPosting{Title: "Staff Engineer"}, nil
			},
		},
		Postings: &mock.PostingWriter{
			WritePostingFn: func(_ context.Context, ref string, p *jobtext.JobPosting) (string, error) {
				written = append(written, ref+"|"+p.SourceURL+"|"+p.ExtractedAt)
				return "/out/" + ref + "_structured.json", nil
			},
		},
		Now: func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) },
	}
	return t, &written
}

func TestAnalyzingTransport_Send(t *testing.T) {
	t.Parallel()

	p := jobtext.Payload{Text: "JOB TITLE: Staff Engineer", Metadata: map[string]string{jobtext.MetaSourceURL: "https://acme.com/jobs/1"}}

	t.Run("stores the analysis of a delivered payload", func(t *testing.T) {
		t.Parallel()

		sink, written := analyzingSink(nil, nil)

		ack, err := sink.Send(context.Background(), p)

		require.NoError(t, err)
		assert.Equal(t, "/out/job_1_structured.json", ack.JSONFile)
		assert.Equal(t, "/out/job_1_raw.txt", ack.Filename)
		assert.Equal(t, []string{"job_1|https://acme.com/jobs/1|2024-03-09T14:05:07Z"}, *written)
	})

	t.Run("analysis failure keeps the delivery", func(t *testing.T) {
		t.Parallel()

		sink, written := analyzingSink(nil, errors.New("provider down"))

		ack, err := sink.Send(context.Background(), p)

		require.NoError(t, err)
		assert.Empty(t, ack.JSONFile)
		assert.Empty(t, *written)
	})

	t.Run("delivery failure skips analysis", func(t *testing.T) {
		t.Parallel()

		sink, written := analyzingSink(errors.New("disk full"), nil)

		_, err := sink.Send(context.Background(), p)

		require.Error(t, err)
		assert.Empty(t, *written)
	})
}
