package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/judge"
)

var _ judge.Engine = (*Engine)(nil)

// Engine is a test double for judge.Engine.
type Engine struct {
	mu sync.Mutex

	SubmitBatchFn func(ctx context.Context, reqs []domain.ExecutionRequest) ([]string, error)
	FetchBatchFn  func(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error)

	// Recorded calls for assertions.
	Submitted  [][]domain.ExecutionRequest
	FetchCalls int
}

// SubmitBatch returns tokens "tok-0".."tok-n" unless SubmitBatchFn is set.
func (m *Engine) SubmitBatch(ctx context.Context, reqs []domain.ExecutionRequest) ([]string, error) {
	m.mu.Lock()
	m.Submitted = append(m.Submitted, reqs)
	m.mu.Unlock()
	if m.SubmitBatchFn != nil {
		return m.SubmitBatchFn(ctx, reqs)
	}
	tokens := make([]string, len(reqs))
	for i := range reqs {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}
	return tokens, nil
}

// FetchBatch reports every token accepted unless FetchBatchFn is set.
func (m *Engine) FetchBatch(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	m.mu.Lock()
	m.FetchCalls++
	m.mu.Unlock()
	if m.FetchBatchFn != nil {
		return m.FetchBatchFn(ctx, tokens)
	}
	results := make([]domain.ExecutionResult, len(tokens))
	for i, tok := range tokens {
		results[i] = domain.ExecutionResult{
			Token:    tok,
			StatusID: domain.EngineStatusAccepted,
			TimeSec:  0.01,
			MemoryKB: 1024,
		}
	}
	return results, nil
}

// Fetches returns the number of FetchBatch calls so far.
func (m *Engine) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}

// WithStatuses returns a FetchBatchFn reporting the given status ids by position.
func WithStatuses(statuses ...int) func(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	return func(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
		results := make([]domain.ExecutionResult, len(tokens))
		for i, tok := range tokens {
			status := domain.EngineStatusAccepted
			if i < len(statuses) {
				status = statuses[i]
			}
			results[i] = domain.ExecutionResult{Token: tok, StatusID: status, TimeSec: 0.01, MemoryKB: 1024}
		}
		return results, nil
	}
}
