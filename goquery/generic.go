package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobtext"
)

var _ jobtext.Strategy = (*GenericStrategy)(nil)

// GenericStrategy is the scraper of last resort. It picks the longest
// content region and falls back to the whole page.
type GenericStrategy struct {
	regions   []string
	noise     []string
	minRegion int
	main      jobtext.Extractor
}

// GenericOption configures a GenericStrategy.
type GenericOption func(*GenericStrategy)

// WithMainContent adds the main content isolated by e as one more candidate
// region.
func WithMainContent(e jobtext.Extractor) GenericOption {
	return func(s *GenericStrategy) {
		s.main = e
	}
}

// NewGenericStrategy creates a GenericStrategy.
func NewGenericStrategy(sel jobtext.Selectors, th jobtext.Thresholds, opts ...GenericOption) *GenericStrategy {
	s := &GenericStrategy{
		regions:   sel.Regions,
		noise:     sel.Noise,
		minRegion: th.MinRegionLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GenericStrategy) Name() string { return "generic" }

func (s *GenericStrategy) Kind() jobtext.SourceKind { return jobtext.SourceGenericScrape }

// Extract returns nil only for a page with no visible text.
func (s *GenericStrategy) Extract(ctx context.Context, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
	d, err := readDocument(ctx, doc)
	if d == nil {
		return nil, err
	}

	text := s.longestRegion(d)
	if text == "" {
		text = cleanText(d.Find("body"), s.noise)
	}
	if text == "" {
		text = Text(d.Find("body"))
	}
	if text == "" {
		return nil, nil
	}
	return jobtext.NewExtractionResult(text, doc.URL(), pageTitle(d), s.Kind(), doc.ID()), nil
}

// longestRegion returns the longest candidate text above the floor. On ties
// the earlier region in priority order wins.
func (s *GenericStrategy) longestRegion(d *goquery.Document) string {
	best, bestLen := "", s.minRegion-1
	consider := func(text string) {
		if n := runeLen(text); n > bestLen {
			best, bestLen = text, n
		}
	}
	for _, r := range s.regions {
		d.Find(r).Each(func(_ int, sel *goquery.Selection) {
			consider(cleanText(sel, s.noise))
		})
	}
	if s.main != nil {
		consider(s.mainContent(d))
	}
	return best
}

// mainContent returns the text of the region isolated by the main content
// extractor, or "" when there is none.
func (s *GenericStrategy) mainContent(d *goquery.Document) string {
	if s.main == nil {
		return ""
	}
	raw, err := d.Html()
	if err != nil {
		return ""
	}
	res, err := s.main.Extract(raw)
	if err != nil || res == nil || strings.TrimSpace(res.HTML) == "" {
		return ""
	}
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		return ""
	}
	return Text(frag.Selection)
}
