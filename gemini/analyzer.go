// Package gemini structures job postings and counts tokens with Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/jobtext"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var _ jobtext.Analyzer = (*Analyzer)(nil)

// Analyzer implements jobtext.Analyzer using Google Gemini.
type Analyzer struct {
	client *genai.Client
	model  string
}

// NewAnalyzer creates a new Analyzer. An empty model selects DefaultModel.
func NewAnalyzer(client *genai.Client, model string) *Analyzer {
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{client: client, model: model}
}

// NewClient creates a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "gemini API key required")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Analyze asks Gemini to structure text.
func (a *Analyzer) Analyze(ctx context.Context, text, sourceURL string) (*jobtext.JobPosting, error) {
	if text == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "posting text required")
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(jobtext.AnalysisPrompt(text, sourceURL), genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, jobtext.Errorf(jobtext.EINTERNAL, "gemini returned nil result")
	}
	return jobtext.ParsePosting(result.Text())
}

// BuildConfig returns the GenerateContentConfig for analysis calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: jobtext.AnalysisInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
