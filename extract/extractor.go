// Package extract orchestrates job posting extraction. It classifies the
// posting URL, picks the site's plan, runs it across every execution context
// of the loaded page and forwards the single best result to a transport.
package extract

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/jobtext"
	"github.com/google/uuid"
)

// Request is an inbound "start extraction" trigger.
type Request struct {
	URL string

	// TabID identifies the browser tab or caller the request came from.
	TabID string
}

// Outcome describes a completed extraction.
type Outcome struct {
	RequestID string
	Identity  jobtext.SiteIdentity
	Result    *jobtext.ExtractionResult

	// Ack is nil when the Extractor has no Transport.
	Ack *jobtext.Ack
}

// Extractor is the extraction service.
type Extractor struct {
	Source      jobtext.ContextSource
	Dispatcher  *Dispatcher
	Detector    jobtext.ReadinessDetector
	Coordinator *Coordinator
	Transport   jobtext.Transport
	Policy      jobtext.EmbeddedPolicy
	Logger      *slog.Logger

	// Embeds, if set, is consulted when no frame of an embedded Greenhouse
	// page names the board.
	Embeds jobtext.EmbedFinder
}

// Session returns a copy of e with its own Coordinator, so that its requests
// do not supersede requests made through e.
func (e *Extractor) Session() *Extractor {
	s := *e
	s.Coordinator = e.Coordinator.Fork()
	return &s
}

// Extract runs one extraction request and forwards exactly one payload.
//
// Per-strategy failures are recovered by falling back to the next strategy;
// an error is returned only when nothing produced content, the embedded
// board cannot be resolved under EmbeddedFail, or the transport fails.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Outcome, error) {
	if req.URL == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "URL required")
	}
	logger := e.logger()
	requestID := uuid.New().String()

	id := jobtext.Classify(req.URL)
	plan := e.Dispatcher.Plan(id)
	logger.Debug("classified", "request", requestID, "url", req.URL, "tab", req.TabID, "site", id)

	if id.Kind == jobtext.SiteDirectGreenhouse {
		result, err := runChain(ctx, plan.Direct, nil, plan.DirectRules, logger)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return e.forward(ctx, requestID, id, result)
		}
	}

	page, err := e.Source.Open(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if id.Kind == jobtext.SiteEmbeddedGreenhouse {
		id = e.resolveEmbedded(ctx, req.URL, page)
		if !id.Resolved() {
			if e.Policy != jobtext.EmbeddedFallback {
				return nil, jobtext.Errorf(jobtext.ENOTFOUND, "greenhouse board token not found for job %s", id.JobID)
			}
			logger.Debug("board token not found, scraping page", "request", requestID, "job", id.JobID)
			id = jobtext.SiteIdentity{Kind: jobtext.SiteGeneric}
		}
		plan = e.Dispatcher.Plan(id)

		result, err := runChain(ctx, plan.Direct, nil, plan.DirectRules, logger)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return e.forward(ctx, requestID, id, result)
		}
	}

	adapter := NewAdapter(e.Detector, plan, logger)
	cmd := jobtext.Command{Action: jobtext.ActionExtract, Variant: id.Kind}
	result, err := e.Coordinator.Run(ctx, page.Contexts(), cmd, adapter.Run)
	if err != nil {
		return nil, err
	}
	return e.forward(ctx, requestID, id, result)
}

// resolveEmbedded classifies an embedded posting again with the URLs of the
// page's frames and, failing that, of the embeds found in its markup.
func (e *Extractor) resolveEmbedded(ctx context.Context, rawURL string, page jobtext.Page) jobtext.SiteIdentity {
	frames := jobtext.FrameURLs(page)
	id := jobtext.Classify(rawURL, frames...)
	if id.Resolved() || e.Embeds == nil {
		return id
	}
	contexts := page.Contexts()
	if len(contexts) == 0 {
		return id
	}
	raw, err := contexts[0].HTML(ctx)
	if err != nil {
		return id
	}
	return jobtext.Classify(rawURL, append(frames, e.Embeds.EmbedURLs(raw, contexts[0].URL())...)...)
}

func (e *Extractor) forward(ctx context.Context, requestID string, id jobtext.SiteIdentity, result *jobtext.ExtractionResult) (*Outcome, error) {
	out := &Outcome{RequestID: requestID, Identity: id, Result: result}
	if e.Transport == nil {
		return out, nil
	}

	payload := result.Payload()
	payload.Metadata[jobtext.MetaRequestID] = requestID
	payload.Metadata[jobtext.MetaSite] = string(id.Kind)
	payload.Metadata[jobtext.MetaContentHash] = ContentHash(result.Text)

	ack, err := e.Transport.Send(ctx, payload)
	if err != nil {
		if jobtext.ErrorCode(err) == jobtext.EINTERNAL {
			return nil, &jobtext.Error{Code: jobtext.ETRANSPORT, Message: err.Error()}
		}
		return nil, err
	}
	out.Ack = ack
	return out, nil
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}
