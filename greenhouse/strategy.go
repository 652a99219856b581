package greenhouse

import (
	"context"
	"strings"

	"github.com/fwojciec/jobtext"
	"golang.org/x/net/html"
)

var _ jobtext.Strategy = (*Strategy)(nil)

// Strategy reads a Greenhouse posting from the board API instead of the page.
type Strategy struct {
	board     jobtext.JobBoard
	converter jobtext.Converter
	id        jobtext.SiteIdentity
}

// NewStrategy creates a Strategy for one resolved posting. The description is
// converted with converter when it is not nil, and read as plain text
// otherwise or when conversion fails.
func NewStrategy(board jobtext.JobBoard, converter jobtext.Converter, id jobtext.SiteIdentity) *Strategy {
	return &Strategy{board: board, converter: converter, id: id}
}

func (s *Strategy) Name() string { return "greenhouse-api" }

func (s *Strategy) Kind() jobtext.SourceKind { return jobtext.SourceAPI }

// Extract makes a single API request and ignores doc. A failed request
// yields nil so the page can be scraped instead.
func (s *Strategy) Extract(ctx context.Context, _ jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
	if !s.id.Resolved() {
		return nil, nil
	}
	job, err := s.board.FetchJob(ctx, s.id.BoardToken, s.id.JobID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}

	text := FormatReport(job, s.describe(job.ContentHTML))
	return jobtext.NewExtractionResult(text, job.URL, job.Title, s.Kind(), jobtext.ContextOrchestrator), nil
}

func (s *Strategy) describe(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if s.converter != nil {
		if md, err := s.converter.Convert(content); err == nil && strings.TrimSpace(md) != "" {
			return strings.TrimSpace(md)
		}
	}
	return PlainText(content)
}

// FormatReport lays a posting out as the fixed-shape text report.
func FormatReport(job *jobtext.BoardJob, description string) string {
	location := job.Location
	if location == "" {
		location = "Not specified"
	}
	department := strings.Join(job.Departments, ", ")
	if department == "" {
		department = "Not specified"
	}

	var b strings.Builder
	b.WriteString("JOB TITLE: " + job.Title + "\n\n")
	b.WriteString("LOCATION: " + location + "\n\n")
	b.WriteString("DEPARTMENT: " + department + "\n\n")
	b.WriteString("DESCRIPTION:\n" + description + "\n\n")
	b.WriteString("URL: " + job.URL + "\n")
	b.WriteString("UPDATED: " + job.UpdatedAt)
	return b.String()
}

// PlainText returns the concatenated text content of an HTML fragment.
func PlainText(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.TrimSpace(b.String())
}
