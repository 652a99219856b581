package jobtext

import (
	"context"
	"time"
)

// Strategy is one algorithm for turning a loaded document, or a board API
// response, into extracted text.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Kind is the SourceKind of every result the strategy produces.
	Kind() SourceKind

	// Extract returns the extracted result, or nil when no content passed
	// the strategy's minimum bar and the next strategy should be tried.
	// Errors are reserved for cancellation; content failures are never errors.
	// Strategies that do not read the page accept a nil doc.
	Extract(ctx context.Context, doc ExecutionContext) (*ExtractionResult, error)
}

// MeasureFunc samples a content-size proxy of a document.
type MeasureFunc func(ctx context.Context) (int, error)

// Readiness is the terminal state of a readiness wait.
type Readiness string

const (
	ReadyStable   Readiness = "stable"
	ReadyTimeout  Readiness = "timeout"
	ReadyCanceled Readiness = "canceled"
)

// ReadinessDetector waits until a document has stopped changing.
// AwaitReady never fails: a timeout is a valid outcome because a partially
// loaded page is still worth extracting.
type ReadinessDetector interface {
	AwaitReady(ctx context.Context, measure MeasureFunc) Readiness
}

// ReadinessConfig tunes polling readiness detection.
type ReadinessConfig struct {
	PollInterval          time.Duration
	RequiredStableSamples int
	MinimumLength         int
	MaxWait               time.Duration
}

// CoordinatorConfig tunes result aggregation across execution contexts.
type CoordinatorConfig struct {
	// EarlyTriggerLength is the content length above which a single result
	// arms the early trigger.
	EarlyTriggerLength int

	// EarlyTriggerDelay is the grace period after the early trigger is armed.
	EarlyTriggerDelay time.Duration

	// HardDeadline bounds the whole aggregation.
	HardDeadline time.Duration
}

// Command is sent to every execution context of a request.
type Command struct {
	Action  string
	Variant SiteKind
}

// ActionExtract is the only command action.
const ActionExtract = "extract"

// MainContent is the main content an Extractor found in an HTML page.
type MainContent struct {
	Title string

	// HTML is the content with page chrome removed.
	HTML string
}

// Extractor isolates the main content of an HTML page. Scraping strategies
// use it as one more candidate region.
type Extractor interface {
	Extract(html string) (*MainContent, error)
}

// Converter renders a board's HTML description fragment as readable text.
type Converter interface {
	Convert(html string) (string, error)
}
