package judge

import (
	"context"
	"errors"
	"fmt"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// Engine is a Judge0-compatible execution backend.
type Engine interface {
	// SubmitBatch enqueues the requests and returns one token per request.
	SubmitBatch(ctx context.Context, reqs []domain.ExecutionRequest) ([]string, error)
	// FetchBatch reports the current state of the given tokens.
	FetchBatch(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error)
}

// Dispatch submits the batch in a single engine call and checks that every
// request received a token. It does not retry.
func Dispatch(ctx context.Context, engine Engine, batch []domain.ExecutionRequest) ([]string, error) {
	tokens, err := engine.SubmitBatch(ctx, batch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, asEngineUnavailable(err)
	}
	if len(tokens) != len(batch) {
		return nil, fmt.Errorf("%w: got %d tokens for %d requests", domain.ErrEngineUnavailable, len(tokens), len(batch))
	}
	for i, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("%w: request %d was not accepted", domain.ErrEngineUnavailable, i)
		}
	}
	return tokens, nil
}

func asEngineUnavailable(err error) error {
	if errors.Is(err, domain.ErrEngineUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrEngineUnavailable, err)
}
