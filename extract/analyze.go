package extract

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Transport = (*AnalyzingTransport)(nil)

// AnalyzingTransport delivers payloads to Next and then stores a structured
// analysis of each delivered payload through Postings. Analysis failures are
// logged and never fail the delivery.
type AnalyzingTransport struct {
	Next     jobtext.Transport
	Analyzer jobtext.Analyzer
	Postings jobtext.PostingWriter
	Logger   *slog.Logger

	// Now stamps the analysis. Defaults to time.Now.
	Now func() time.Time
}

// Send delivers p and, on success, analyzes it. The returned Ack names the
// stored analysis in JSONFile.
func (t *AnalyzingTransport) Send(ctx context.Context, p jobtext.Payload) (*jobtext.Ack, error) {
	ack, err := t.Next.Send(ctx, p)
	if err != nil {
		return nil, err
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	posting, err := t.Analyzer.Analyze(ctx, p.Text, p.SourceURL())
	if err != nil {
		logger.Warn("analysis failed", "ref", ack.ID, "err", err)
		return ack, nil
	}
	if posting.SourceURL == "" {
		posting.SourceURL = p.SourceURL()
	}
	if posting.ExtractedAt == "" {
		now := time.Now
		if t.Now != nil {
			now = t.Now
		}
		posting.ExtractedAt = now().UTC().Format(time.RFC3339)
	}

	ref, err := t.Postings.WritePosting(ctx, ack.ID, posting)
	if err != nil {
		logger.Warn("storing analysis failed", "ref", ack.ID, "err", err)
		return ack, nil
	}
	out := *ack
	out.JSONFile = ref
	return &out, nil
}
