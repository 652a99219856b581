package nativemsg

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
)

// AnalyzerFactory returns the analyzer for s, or nil when s selects none.
type AnalyzerFactory func(s jobtext.Settings) (jobtext.Analyzer, error)

// Host is the receiving end of the native messaging protocol. It stores each
// message through Sink and, when the message's settings enable a provider,
// stores a structured analysis through Postings.
type Host struct {
	Sink      jobtext.Transport
	Postings  jobtext.PostingWriter
	Analyzers AnalyzerFactory

	// Settings apply to messages that name no provider.
	Settings jobtext.Settings

	Logger *slog.Logger
}

// Serve handles one message read from r and writes the reply to w. An
// unreadable message is answered with an error status and returned.
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	var msg Message
	if err := ReadMessage(r, &msg); err != nil {
		_ = WriteMessage(w, Response{Status: jobtext.AckError, Error: jobtext.ErrorMessage(err)})
		return err
	}
	return WriteMessage(w, h.Handle(ctx, msg))
}

// Handle stores msg and returns the reply.
func (h *Host) Handle(ctx context.Context, msg Message) Response {
	logger := h.logger()
	logger.Info("message received", "bytes", len(msg.Text), "provider", msg.Settings.Provider)

	ack, err := h.sink(msg.Settings.Analysis()).Send(ctx, msg.Payload())
	if err != nil {
		logger.Error("storing payload failed", "err", err)
		return Response{Status: jobtext.AckError, Error: jobtext.ErrorMessage(err)}
	}
	filename := ack.Filename
	if filename == "" {
		filename = ack.ID
	}
	return Response{Status: jobtext.AckSuccess, Filename: filename, JSONFile: ack.JSONFile}
}

// sink returns Sink, wrapped with analysis when settings allow it.
func (h *Host) sink(settings jobtext.Settings) jobtext.Transport {
	if settings.Provider == "" {
		settings = h.Settings
	}
	if !settings.Enabled() || h.Analyzers == nil || h.Postings == nil {
		return h.Sink
	}
	analyzer, err := h.Analyzers(settings)
	if err != nil || analyzer == nil {
		if err != nil {
			h.logger().Warn("analysis disabled", "provider", settings.Provider, "err", err)
		}
		return h.Sink
	}
	return &extract.AnalyzingTransport{
		Next:     h.Sink,
		Analyzer: analyzer,
		Postings: h.Postings,
		Logger:   h.logger(),
	}
}

func (h *Host) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Logger
}
