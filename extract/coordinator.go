package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/google/uuid"
)

// RunFunc extracts one execution context. It is called on its own goroutine.
type RunFunc func(ctx context.Context, cmd jobtext.Command, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error)

// Report is what an execution context sends back to the coordinator.
// Failures travel as data in Err.
type Report struct {
	ContextID jobtext.ContextID
	Result    *jobtext.ExtractionResult
	Err       error
}

// ErrSuperseded is returned by a Run that was replaced by a newer one.
var ErrSuperseded = jobtext.Errorf(jobtext.ECONFLICT, "extraction superseded by a newer request")

// window is the aggregation state of one Run. It is only touched by the
// goroutine executing that Run.
type window struct {
	requestID  string
	deadline   time.Time
	dispatched int
	reported   int
	results    []*jobtext.ExtractionResult
	earlyArmed bool
}

// Coordinator fans an extraction command out to every execution context of a
// page and selects one result under a deadline.
//
// A new Run supersedes the one in flight: the older Run returns ErrSuperseded
// and its late reports are dropped.
type Coordinator struct {
	config jobtext.CoordinatorConfig
	logger *slog.Logger

	mu      sync.Mutex
	gen     uint64
	current context.CancelCauseFunc
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets the logger. Defaults to discarding output.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(config jobtext.CoordinatorConfig, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fork returns a new Coordinator with the same configuration and no Run in
// flight.
func (c *Coordinator) Fork() *Coordinator {
	return &Coordinator{config: c.config, logger: c.logger}
}

// Run dispatches cmd to every context and returns the selected result.
//
// Aggregation finishes when every context has reported, when the early
// trigger fires after a result longer than EarlyTriggerLength arrived, or at
// the hard deadline. The longest result wins; ties go to the earliest
// arrival. With a single context its result is used as is. If nothing was
// collected Run returns an ETIMEOUT error when contexts were still pending,
// or ENOCONTENT when every context reported without content.
func (c *Coordinator) Run(ctx context.Context, contexts []jobtext.ExecutionContext, cmd jobtext.Command, fn RunFunc) (*jobtext.ExtractionResult, error) {
	if len(contexts) == 0 {
		return nil, jobtext.Errorf(jobtext.EINVALID, "no execution contexts to extract")
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	gen := c.supersede(cancel)
	defer c.release(gen)

	w := &window{
		requestID:  uuid.New().String(),
		deadline:   time.Now().Add(c.config.HardDeadline),
		dispatched: len(contexts),
	}

	// Buffered so that contexts reporting after finalization never block.
	reports := make(chan Report, len(contexts))
	for _, doc := range contexts {
		go dispatch(runCtx, cmd, doc, fn, reports)
	}

	hard := time.NewTimer(c.config.HardDeadline)
	defer hard.Stop()
	var early <-chan time.Time
	var earlyTimer *time.Timer
	defer func() {
		if earlyTimer != nil {
			earlyTimer.Stop()
		}
	}()

	reason := "all reported"
collect:
	for w.reported < w.dispatched {
		select {
		case <-runCtx.Done():
			return nil, interrupted(ctx, runCtx)
		case <-hard.C:
			reason = "deadline"
			break collect
		case <-early:
			reason = "early trigger"
			break collect
		case r := <-reports:
			w.reported++
			if r.Err != nil {
				c.logger.Debug("context failed", "request", w.requestID, "context", r.ContextID, "err", r.Err)
				continue
			}
			if r.Result.Empty() {
				continue
			}
			w.results = append(w.results, r.Result)
			if !w.earlyArmed && r.Result.ContentLength > c.config.EarlyTriggerLength {
				w.earlyArmed = true
				earlyTimer = time.NewTimer(c.config.EarlyTriggerDelay)
				early = earlyTimer.C
			}
		}
	}
	// The last report may race the cancellation that caused it.
	if runCtx.Err() != nil {
		return nil, interrupted(ctx, runCtx)
	}
	cancel(nil)

	c.logger.Debug("aggregation finished",
		"request", w.requestID,
		"reason", reason,
		"dispatched", w.dispatched,
		"reported", w.reported,
		"results", len(w.results),
		"remaining", time.Until(w.deadline).Round(time.Millisecond),
	)

	best := w.best()
	if best == nil {
		if w.reported < w.dispatched {
			return nil, jobtext.Errorf(jobtext.ETIMEOUT, "no content collected")
		}
		return nil, jobtext.Errorf(jobtext.ENOCONTENT, "no content collected")
	}
	return best, nil
}

// best returns the longest result, earliest first on ties.
func (w *window) best() *jobtext.ExtractionResult {
	if len(w.results) == 0 {
		return nil
	}
	if w.dispatched == 1 {
		return w.results[0]
	}
	best := w.results[0]
	for _, r := range w.results[1:] {
		if r.ContentLength > best.ContentLength {
			best = r
		}
	}
	return best
}

// interrupted returns the error of a Run whose context ended before it
// finalized.
func interrupted(parent, runCtx context.Context) error {
	if errors.Is(context.Cause(runCtx), ErrSuperseded) {
		return ErrSuperseded
	}
	return parent.Err()
}

func dispatch(ctx context.Context, cmd jobtext.Command, doc jobtext.ExecutionContext, fn RunFunc, reports chan<- Report) {
	id := doc.ID()
	defer func() {
		if p := recover(); p != nil {
			reports <- Report{ContextID: id, Err: fmt.Errorf("context %s panicked: %v", id, p)}
		}
	}()
	result, err := fn(ctx, cmd, doc)
	reports <- Report{ContextID: id, Result: result, Err: err}
}

// supersede cancels the Run in flight, if any, and makes cancel current.
func (c *Coordinator) supersede(cancel context.CancelCauseFunc) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current(ErrSuperseded)
	}
	c.gen++
	c.current = cancel
	return c.gen
}

// release forgets the current Run if it is still generation gen.
func (c *Coordinator) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.current = nil
	}
}
