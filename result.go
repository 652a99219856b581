package jobtext

import (
	"strings"
	"unicode/utf8"
)

// SourceKind records which kind of strategy produced a result.
type SourceKind string

const (
	SourceAPI             SourceKind = "api"
	SourceStructuredDOM   SourceKind = "structured-dom"
	SourceMarkerTruncated SourceKind = "marker-truncated"
	SourceGenericScrape   SourceKind = "generic-scrape"
)

// ContextID identifies one execution context within a page.
type ContextID string

// ContextOrchestrator is the ContextID of results produced outside any page
// context, such as board API responses.
const ContextOrchestrator ContextID = "orchestrator"

// ExtractionResult is the text extracted from one execution context.
// Construct it with NewExtractionResult so that Text is trimmed and
// ContentLength always equals the rune count of Text.
type ExtractionResult struct {
	Text          string
	SourceURL     string
	Title         string
	ContentLength int
	SourceKind    SourceKind
	ContextID     ContextID
}

// NewExtractionResult builds a result from raw text.
func NewExtractionResult(text, sourceURL, title string, kind SourceKind, id ContextID) *ExtractionResult {
	text = strings.TrimSpace(text)
	return &ExtractionResult{
		Text:          text,
		SourceURL:     sourceURL,
		Title:         strings.TrimSpace(title),
		ContentLength: utf8.RuneCountInString(text),
		SourceKind:    kind,
		ContextID:     id,
	}
}

// WithText returns a copy of r carrying new text, keeping the length
// invariant intact.
func (r *ExtractionResult) WithText(text string) *ExtractionResult {
	return NewExtractionResult(text, r.SourceURL, r.Title, r.SourceKind, r.ContextID)
}

// Empty reports whether the result carries no text.
func (r *ExtractionResult) Empty() bool {
	return r == nil || r.ContentLength == 0
}

// Metadata keys attached to a Payload.
const (
	MetaSourceURL   = "source_url"
	MetaTitle       = "title"
	MetaSourceKind  = "source_kind"
	MetaContextID   = "context_id"
	MetaRequestID   = "request_id"
	MetaSite        = "site"
	MetaContentHash = "content_hash"
)

// Payload returns the transport payload for r.
func (r *ExtractionResult) Payload() Payload {
	return Payload{
		Text: r.Text,
		Metadata: map[string]string{
			MetaSourceURL:  r.SourceURL,
			MetaTitle:      r.Title,
			MetaSourceKind: string(r.SourceKind),
			MetaContextID:  string(r.ContextID),
		},
	}
}
