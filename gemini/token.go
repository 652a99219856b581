package gemini

import (
	"context"

	"github.com/fwojciec/jobtext"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ jobtext.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts extracted posting tokens offline with the Gemini
// tokenizer, so a caller can tell whether a posting fits an analysis prompt.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model. An empty model selects
// DefaultModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, jobtext.Errorf(jobtext.EINVALID, "no tokenizer for model %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the tokens of text as a single user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

// PromptTokens counts the tokens an analysis request for text would send,
// system instruction included.
func (tc *TokenCounter) PromptTokens(ctx context.Context, text, sourceURL string) (int, error) {
	n, err := tc.CountTokens(ctx, jobtext.AnalysisPrompt(text, sourceURL))
	if err != nil {
		return 0, err
	}
	m, err := tc.CountTokens(ctx, jobtext.AnalysisInstruction)
	if err != nil {
		return 0, err
	}
	return n + m, nil
}
