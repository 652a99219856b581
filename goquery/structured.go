package goquery

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobtext"
)

var _ jobtext.Strategy = (*StructuredStrategy)(nil)

// compensationMarker matches text that looks like pay or equity.
var compensationMarker = regexp.MustCompile(`[$€£¥₹%]|\b(?:USD|EUR|GBP|CAD|AUD|INR|CHF|JPY)\b`)

// StructuredStrategy reads a posting field by field from known selectors.
type StructuredStrategy struct {
	fields         jobtext.FieldSelectors
	noise          []string
	main           []string
	minDescription int
}

// NewStructuredStrategy creates a StructuredStrategy for one site's field
// table, removing the noise selectors of sel and falling back to its main
// regions.
func NewStructuredStrategy(fields jobtext.FieldSelectors, sel jobtext.Selectors, th jobtext.Thresholds) *StructuredStrategy {
	return &StructuredStrategy{
		fields:         fields,
		noise:          sel.Noise,
		main:           sel.Main,
		minDescription: th.MinDescriptionLength,
	}
}

func (s *StructuredStrategy) Name() string { return "structured" }

func (s *StructuredStrategy) Kind() jobtext.SourceKind { return jobtext.SourceStructuredDOM }

// Extract formats the fields it finds as a report. Optional fields that are
// missing are left out; without a description the result is nil.
func (s *StructuredStrategy) Extract(ctx context.Context, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
	d, err := readDocument(ctx, doc)
	if d == nil {
		return nil, err
	}

	title := firstValid(d, s.fields.Title, validTitle)
	compensation := firstValid(d, s.fields.Compensation, validCompensation)
	location := firstValid(d, s.fields.Location, validLocation)

	description := firstRegion(d, s.fields.Description, s.noise, s.minDescription)
	if description == "" {
		description = firstRegion(d, s.main, s.noise, s.minDescription)
	}
	if description == "" {
		return nil, nil
	}

	var b strings.Builder
	if title != "" {
		b.WriteString("JOB TITLE: " + title + "\n\n")
	}
	if compensation != "" {
		b.WriteString("COMPENSATION: " + compensation + "\n\n")
	}
	if location != "" {
		b.WriteString("LOCATION: " + location + "\n\n")
	}
	b.WriteString("DESCRIPTION:\n" + description)

	if title == "" {
		title = pageTitle(d)
	}
	return jobtext.NewExtractionResult(b.String(), doc.URL(), title, s.Kind(), doc.ID()), nil
}

// firstValid returns the text of the first element, across selectors in
// order, that passes valid.
func firstValid(d *goquery.Document, selectors []string, valid func(string) bool) string {
	for _, s := range selectors {
		var found string
		d.Find(s).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := collapse(Text(sel))
			if valid(text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func validTitle(s string) bool {
	n := runeLen(s)
	return n >= 1 && n <= 150
}

func validCompensation(s string) bool {
	return s != "" && runeLen(s) <= 200 && compensationMarker.MatchString(s)
}

func validLocation(s string) bool {
	n := runeLen(s)
	return n >= 1 && n <= 200
}

// collapse joins the lines of a field value into one line.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
