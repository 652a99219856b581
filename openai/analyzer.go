// Package openai structures job postings with OpenAI-compatible chat APIs:
// Perplexity in the cloud and Ollama locally.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/jobtext"
	goopenai "github.com/sashabaranov/go-openai"
)

// Provider endpoints and default models.
const (
	PerplexityBaseURL = "https://api.perplexity.ai"
	PerplexityModel   = "sonar-pro"
	OllamaBaseURL     = "http://localhost:11434/v1"
	OllamaModel       = "qwen2.5:7b"
)

// ChatClient is the part of the go-openai client the Analyzer needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

var _ jobtext.Analyzer = (*Analyzer)(nil)

// Analyzer implements jobtext.Analyzer on a chat completion endpoint.
type Analyzer struct {
	client ChatClient
	model  string
}

// NewAnalyzer creates an Analyzer that sends requests for model to client.
func NewAnalyzer(client ChatClient, model string) *Analyzer {
	return &Analyzer{client: client, model: model}
}

// NewPerplexity creates an Analyzer for the Perplexity API. An empty model
// selects PerplexityModel.
func NewPerplexity(apiKey, model string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "perplexity API key required")
	}
	if model == "" {
		model = PerplexityModel
	}
	return NewAnalyzer(newClient(apiKey, PerplexityBaseURL), model), nil
}

// NewOllama creates an Analyzer for an Ollama server. An empty baseURL
// selects OllamaBaseURL and an empty model selects OllamaModel.
func NewOllama(baseURL, model string) *Analyzer {
	if baseURL == "" {
		baseURL = OllamaBaseURL
	}
	if model == "" {
		model = OllamaModel
	}
	// Ollama ignores the key but the client always sends one.
	return NewAnalyzer(newClient("ollama", baseURL), model)
}

func newClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return goopenai.NewClientWithConfig(cfg)
}

// Analyze asks the model to structure text.
func (a *Analyzer) Analyze(ctx context.Context, text, sourceURL string) (*jobtext.JobPosting, error) {
	if text == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "posting text required")
	}

	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: a.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: jobtext.AnalysisInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: jobtext.AnalysisPrompt(text, sourceURL)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, jobtext.Errorf(jobtext.ENOCONTENT, "%s returned no choices", a.model)
	}
	return jobtext.ParsePosting(resp.Choices[0].Message.Content)
}
