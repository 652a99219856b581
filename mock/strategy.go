package mock

import (
	"context"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of jobtext.Strategy.
type Strategy struct {
	NameFn    func() string
	KindFn    func() jobtext.SourceKind
	ExtractFn func(ctx context.Context, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error)
}

func (s *Strategy) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *Strategy) Kind() jobtext.SourceKind {
	if s.KindFn == nil {
		return jobtext.SourceGenericScrape
	}
	return s.KindFn()
}

func (s *Strategy) Extract(ctx context.Context, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
	return s.ExtractFn(ctx, doc)
}

var _ jobtext.ReadinessDetector = (*ReadinessDetector)(nil)

// ReadinessDetector is a mock implementation of jobtext.ReadinessDetector.
type ReadinessDetector struct {
	AwaitReadyFn func(ctx context.Context, measure jobtext.MeasureFunc) jobtext.Readiness
}

func (d *ReadinessDetector) AwaitReady(ctx context.Context, measure jobtext.MeasureFunc) jobtext.Readiness {
	return d.AwaitReadyFn(ctx, measure)
}

// ImmediateReadiness returns a detector that reports stable without polling.
func ImmediateReadiness() *ReadinessDetector {
	return &ReadinessDetector{
		AwaitReadyFn: func(context.Context, jobtext.MeasureFunc) jobtext.Readiness {
			return jobtext.ReadyStable
		},
	}
}
