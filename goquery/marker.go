package goquery

import (
	"context"
	"strings"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Strategy = (*MarkerStrategy)(nil)

// MarkerStrategy reads the whole page and cuts it at the first trailing
// boilerplate marker.
type MarkerStrategy struct {
	markers   []string
	noise     []string
	minLength int
}

// NewMarkerStrategy creates a MarkerStrategy. Markers are matched case
// sensitively.
func NewMarkerStrategy(markers []string, sel jobtext.Selectors, th jobtext.Thresholds) *MarkerStrategy {
	return &MarkerStrategy{
		markers:   markers,
		noise:     sel.Noise,
		minLength: th.MinMarkerLength,
	}
}

func (s *MarkerStrategy) Name() string { return "marker" }

func (s *MarkerStrategy) Kind() jobtext.SourceKind { return jobtext.SourceMarkerTruncated }

func (s *MarkerStrategy) Extract(ctx context.Context, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
	d, err := readDocument(ctx, doc)
	if d == nil {
		return nil, err
	}

	text := TruncateAtMarker(cleanText(d.Find("body"), s.noise), s.markers)
	if runeLen(text) < s.minLength || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return jobtext.NewExtractionResult(text, doc.URL(), pageTitle(d), s.Kind(), doc.ID()), nil
}

// TruncateAtMarker cuts text strictly before the earliest occurrence of any
// marker. Text without markers is returned unchanged.
func TruncateAtMarker(text string, markers []string) string {
	cut := -1
	for _, m := range markers {
		if m == "" {
			continue
		}
		if i := strings.Index(text, m); i != -1 && (cut == -1 || i < cut) {
			cut = i
		}
	}
	if cut == -1 {
		return text
	}
	return strings.TrimSpace(text[:cut])
}
