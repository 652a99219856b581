package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Transport = (*LoggingTransport)(nil)

// LoggingTransport logs every delivered payload.
type LoggingTransport struct {
	next   jobtext.Transport
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport(next jobtext.Transport, logger *slog.Logger) *LoggingTransport {
	return &LoggingTransport{next: next, logger: logger}
}

func (t *LoggingTransport) Send(ctx context.Context, p jobtext.Payload) (ack *jobtext.Ack, err error) {
	defer func(begin time.Time) {
		id := ""
		if ack != nil {
			id = ack.ID
		}
		t.logger.Info("send",
			"url", p.SourceURL(),
			"kind", p.Metadata[jobtext.MetaSourceKind],
			"bytes", len(p.Text),
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Send(ctx, p)
}
