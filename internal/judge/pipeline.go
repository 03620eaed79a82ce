package judge

import (
	"context"

	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// Outcome is the result of one judging run.
type Outcome struct {
	Aggregate domain.Aggregate
	// Results are decoded and in test-case order.
	Results []domain.ExecutionResult
}

// Pipeline dispatches a prepared batch, waits for it and reduces the results.
type Pipeline struct {
	engine Engine
	poller *Poller
	logger *zap.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(engine Engine, poller *Poller, logger *zap.Logger) *Pipeline {
	return &Pipeline{engine: engine, poller: poller, logger: logger}
}

// Judge runs the batch through the engine. Errors are domain.ErrEngineUnavailable,
// domain.ErrJudgingTimeout or the context's error; per-case failures are verdicts.
func (p *Pipeline) Judge(ctx context.Context, batch []domain.ExecutionRequest) (*Outcome, error) {
	tokens, err := Dispatch(ctx, p.engine, batch)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Batch dispatched", zap.Int("cases", len(batch)))

	results, err := p.poller.Await(ctx, tokens)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Aggregate: Aggregate(results, len(batch)),
		Results:   results,
	}, nil
}
