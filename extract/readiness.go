package extract

import (
	"context"
	"time"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.ReadinessDetector = (*PollDetector)(nil)

// PollDetector decides a document is ready once its measured text length
// has stayed unchanged for RequiredStableSamples consecutive polls and is at
// least MinimumLength, or once MaxWait has elapsed.
//
// It is a heuristic for "the page has stopped changing" and works on any
// page that can report a text length.
type PollDetector struct {
	config jobtext.ReadinessConfig
}

// NewPollDetector creates a PollDetector.
func NewPollDetector(config jobtext.ReadinessConfig) *PollDetector {
	return &PollDetector{config: config}
}

// AwaitReady polls measure once per interval until the document is stable,
// MaxWait elapses or ctx is done. It always returns within
// MaxWait + PollInterval. A failed measurement resets the stability count.
func (d *PollDetector) AwaitReady(ctx context.Context, measure jobtext.MeasureFunc) jobtext.Readiness {
	cfg := d.config

	// Bounds a measurement that ignores its interval.
	mctx, cancel := context.WithTimeout(ctx, cfg.MaxWait+cfg.PollInterval)
	defer cancel()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(cfg.MaxWait)
	defer deadline.Stop()

	last, stable := -1, 0
	for {
		select {
		case <-ctx.Done():
			return jobtext.ReadyCanceled
		case <-deadline.C:
			return jobtext.ReadyTimeout
		case <-ticker.C:
		}

		n, err := measure(mctx)
		if err != nil {
			if ctx.Err() != nil {
				return jobtext.ReadyCanceled
			}
			last, stable = -1, 0
			continue
		}
		if n == last {
			stable++
		} else {
			last, stable = n, 0
		}
		if stable >= cfg.RequiredStableSamples && n >= cfg.MinimumLength {
			return jobtext.ReadyStable
		}
	}
}

var _ jobtext.ReadinessDetector = StaticDetector{}

// StaticDetector reports every document ready at once. It suits documents
// fetched whole over HTTP, which never change after loading.
type StaticDetector struct{}

// AwaitReady returns ReadyStable, or ReadyCanceled if ctx is done.
func (StaticDetector) AwaitReady(ctx context.Context, _ jobtext.MeasureFunc) jobtext.Readiness {
	if ctx.Err() != nil {
		return jobtext.ReadyCanceled
	}
	return jobtext.ReadyStable
}
