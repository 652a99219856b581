package extract

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/bloom"
	"golang.org/x/sync/errgroup"
)

// Batch extracts a list of posting URLs with bounded concurrency.
type Batch struct {
	Extractor   *Extractor
	Limiter     jobtext.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Extracted  int
	Failed     int
	Duplicates int
	Chars      int
}

// BatchEvent reports the outcome of one batch URL.
type BatchEvent struct {
	Completed int
	Total     int
	URL       string
	Outcome   *Outcome
	Err       error
}

// BatchFunc receives batch events. Calls are serialized.
type BatchFunc func(event BatchEvent)

// Run extracts every distinct URL in urls. Failures of single URLs are
// reported through progress and counted, never returned; Run only returns an
// error when ctx is done.
func (b *Batch) Run(ctx context.Context, urls []string, progress BatchFunc) (*BatchResult, error) {
	queue := NewQueue(uint(max(len(urls), 1)), 0.001)
	res := &BatchResult{}
	for _, u := range urls {
		if !queue.Push(u) && bloom.Key(u) != "" {
			res.Duplicates++
		}
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	total := queue.Len()
	var completed atomic.Int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for {
		u, ok := queue.Pop()
		if !ok {
			break
		}
		g.Go(func() error {
			// A Session per URL keeps concurrent requests from superseding
			// each other.
			session := b.Extractor.Session()
			out, err := b.extractOne(gctx, session, u, delays)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
			} else {
				res.Extracted++
				res.Chars += out.Result.ContentLength
			}
			if progress != nil {
				progress(BatchEvent{
					Completed: int(completed.Add(1)),
					Total:     total,
					URL:       u,
					Outcome:   out,
					Err:       err,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (b *Batch) extractOne(ctx context.Context, session *Extractor, u string, delays []time.Duration) (*Outcome, error) {
	return withRetry(ctx, delays, func(ctx context.Context) (*Outcome, error) {
		if b.Limiter != nil {
			if err := b.Limiter.Wait(ctx, Domain(u)); err != nil {
				return nil, err
			}
		}
		return session.Extract(ctx, Request{URL: u, TabID: "batch"})
	})
}
