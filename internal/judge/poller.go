package judge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/metrics"
)

var errNotReady = errors.New("results not yet terminal")

// PollerConfig bounds the polling loop. Exceeding either bound is a JudgingTimeout.
type PollerConfig struct {
	Interval    time.Duration
	MaxAttempts int
	Budget      time.Duration
}

// Poller waits for a batch of tokens to reach a terminal state.
type Poller struct {
	engine Engine
	cfg    PollerConfig
	logger *zap.Logger
}

// NewPoller creates a new Poller.
func NewPoller(engine Engine, cfg PollerConfig, logger *zap.Logger) *Poller {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Poller{engine: engine, cfg: cfg, logger: logger}
}

// Await fetches the status of all tokens at a fixed interval until every one is
// terminal. Results are decoded and returned in token order.
//
// Cancelling ctx stops the loop and returns ctx.Err(). Running out of attempts
// or budget returns domain.ErrJudgingTimeout. Transport failures are retried
// within the same bounds; a response missing tokens is domain.ErrEngineUnavailable.
func (p *Poller) Await(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens to poll", domain.ErrEngineUnavailable)
	}

	budgetCtx, cancel := context.WithTimeout(ctx, p.cfg.Budget)
	defer cancel()

	var (
		attempts  int
		results   []domain.ExecutionResult
		permanent error
	)

	operation := func() error {
		attempts++
		fetched, err := p.engine.FetchBatch(budgetCtx, tokens)
		if err != nil {
			metrics.EngineErrorsTotal.WithLabelValues("fetch").Inc()
			return err
		}

		ordered, err := orderByToken(tokens, fetched)
		if err != nil {
			permanent = err
			return backoff.Permanent(err)
		}
		for _, r := range ordered {
			if !r.IsTerminal() {
				return errNotReady
			}
		}
		results = ordered
		return nil
	}

	notify := func(err error, next time.Duration) {
		if errors.Is(err, errNotReady) {
			return
		}
		p.logger.Warn("Status fetch failed, retrying",
			zap.Int("attempt", attempts),
			zap.Duration("next", next),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.cfg.Interval), uint64(p.cfg.MaxAttempts-1)),
		budgetCtx,
	)
	err := backoff.RetryNotify(operation, b, notify)
	metrics.PollAttempts.Observe(float64(attempts))

	switch {
	case err == nil:
		decoded := make([]domain.ExecutionResult, len(results))
		for i, r := range results {
			decoded[i] = decodeResult(r)
		}
		return decoded, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case permanent != nil:
		metrics.EngineErrorsTotal.WithLabelValues("malformed").Inc()
		return nil, permanent
	case errors.Is(err, errNotReady), budgetCtx.Err() != nil:
		metrics.EngineErrorsTotal.WithLabelValues("timeout").Inc()
		return nil, fmt.Errorf("%w: %d tokens after %d attempts", domain.ErrJudgingTimeout, len(tokens), attempts)
	default:
		return nil, asEngineUnavailable(err)
	}
}

// orderByToken lines the engine's results up with the dispatched tokens.
func orderByToken(tokens []string, fetched []domain.ExecutionResult) ([]domain.ExecutionResult, error) {
	byToken := make(map[string]domain.ExecutionResult, len(fetched))
	for _, r := range fetched {
		byToken[r.Token] = r
	}
	ordered := make([]domain.ExecutionResult, len(tokens))
	for i, tok := range tokens {
		r, ok := byToken[tok]
		if !ok {
			// Engines that omit tokens in their status payload answer in request order.
			if len(fetched) == len(tokens) && fetched[i].Token == "" {
				r = fetched[i]
				r.Token = tok
			} else {
				return nil, fmt.Errorf("%w: status for token %q missing", domain.ErrEngineUnavailable, tok)
			}
		}
		ordered[i] = r
	}
	return ordered, nil
}
