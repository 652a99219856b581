package extract

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/jobtext"
)

// Adapter runs a plan's per-context strategies inside one execution context:
// it waits for readiness, tries each strategy in order and normalizes the
// first result found.
type Adapter struct {
	detector jobtext.ReadinessDetector
	plan     Plan
	logger   *slog.Logger
}

// NewAdapter creates an Adapter. A nil logger discards output.
func NewAdapter(detector jobtext.ReadinessDetector, plan Plan, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{detector: detector, plan: plan, logger: logger}
}

// Run implements RunFunc.
func (a *Adapter) Run(ctx context.Context, cmd jobtext.Command, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
	if cmd.Action != jobtext.ActionExtract {
		return nil, jobtext.Errorf(jobtext.EINVALID, "unsupported command %q", cmd.Action)
	}

	readiness := a.detector.AwaitReady(ctx, doc.TextLength)
	a.logger.Debug("readiness", "context", doc.ID(), "variant", cmd.Variant, "state", readiness)
	if readiness == jobtext.ReadyCanceled {
		return nil, ctx.Err()
	}

	result, err := runChain(ctx, a.plan.PerContext, doc, a.plan.Rules, a.logger)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, jobtext.Errorf(jobtext.ENOCONTENT, "no strategy found content in %s", doc.URL())
	}
	return result, nil
}

// runChain evaluates strategies in order until one yields non-empty text
// after normalization. Strategy errors other than cancellation count as
// "no content".
func runChain(ctx context.Context, strategies []jobtext.Strategy, doc jobtext.ExecutionContext, rules jobtext.RuleSet, logger *slog.Logger) (*jobtext.ExtractionResult, error) {
	for _, s := range strategies {
		result, err := s.Extract(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug("strategy failed", "strategy", s.Name(), "err", err)
			continue
		}
		if result.Empty() {
			continue
		}
		result = result.WithText(jobtext.Normalize(result.Text, rules))
		if result.Empty() {
			continue
		}
		return result, nil
	}
	return nil, nil
}
