package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/judge"
	"github.com/himanshu8github/Neetcode/internal/metrics"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

const maxSourceCodeSize = 64 << 10 // 64 KB, the engine's source limit

// Judging modes, used as metric labels.
const (
	modeRun     = "run"
	modeSubmit  = "submit"
	modeRejudge = "rejudge"
)

// Judger runs a prepared batch through the execution engine.
type Judger interface {
	Judge(ctx context.Context, batch []domain.ExecutionRequest) (*judge.Outcome, error)
}

// prepared is a validated request with its batch built.
type prepared struct {
	problem  *domain.Problem
	language domain.Language
	batch    []domain.ExecutionRequest
}

// prepare validates the request and builds the batch without touching the engine.
func prepare(ctx context.Context, problems repository.ProblemRepository, problemID uuid.UUID,
	req *domain.CodeRequest, subset domain.TestSubset) (*prepared, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, domain.ErrEmptySourceCode
	}
	if len(req.Code) > maxSourceCodeSize {
		return nil, domain.ErrPayloadTooLarge
	}

	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	problem, err := problems.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	batch, err := judge.BuildBatch(problem, subset, req.Code, lang)
	if err != nil {
		return nil, err
	}
	return &prepared{problem: problem, language: lang, batch: batch}, nil
}

func observeVerdict(mode string, lang domain.Language, start time.Time, agg domain.Aggregate) {
	metrics.JudgingDuration.WithLabelValues(mode, string(lang)).Observe(time.Since(start).Seconds())
	metrics.VerdictsTotal.WithLabelValues(mode, agg.Verdict.String()).Inc()
}
