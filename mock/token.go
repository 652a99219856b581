package mock

import (
	"context"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of jobtext.TokenCounter.
type TokenCounter struct {
	CountTokensFn  func(ctx context.Context, text string) (int, error)
	PromptTokensFn func(ctx context.Context, text, sourceURL string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

func (tc *TokenCounter) PromptTokens(ctx context.Context, text, sourceURL string) (int, error) {
	return tc.PromptTokensFn(ctx, text, sourceURL)
}
