package mock

import (
	"context"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Transport = (*Transport)(nil)

// Transport is a mock implementation of jobtext.Transport.
type Transport struct {
	SendFn func(ctx context.Context, p jobtext.Payload) (*jobtext.Ack, error)
}

func (t *Transport) Send(ctx context.Context, p jobtext.Payload) (*jobtext.Ack, error) {
	return t.SendFn(ctx, p)
}

var _ jobtext.PostingWriter = (*PostingWriter)(nil)

// PostingWriter is a mock implementation of jobtext.PostingWriter.
type PostingWriter struct {
	WritePostingFn func(ctx context.Context, ref string, posting *jobtext.JobPosting) (string, error)
}

func (w *PostingWriter) WritePosting(ctx context.Context, ref string, posting *jobtext.JobPosting) (string, error) {
	return w.WritePostingFn(ctx, ref, posting)
}

// Sink is a Transport that can also store postings.
type Sink struct {
	Transport
	PostingWriter
}
