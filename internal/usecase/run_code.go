package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/judge"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// RunCodeUsecase judges code against a problem's visible cases without persisting anything.
type RunCodeUsecase struct {
	problems repository.ProblemRepository
	judger   Judger
	logger   *zap.Logger
}

// NewRunCodeUsecase creates a new RunCodeUsecase.
func NewRunCodeUsecase(problems repository.ProblemRepository, judger Judger, logger *zap.Logger) *RunCodeUsecase {
	return &RunCodeUsecase{problems: problems, judger: judger, logger: logger}
}

// Execute validates the request, judges the visible cases and reports each of them.
func (uc *RunCodeUsecase) Execute(ctx context.Context, userID, problemID uuid.UUID, req *domain.CodeRequest) (*domain.RunResponse, error) {
	p, err := prepare(ctx, uc.problems, problemID, req, domain.SubsetVisible)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome, err := uc.judger.Judge(ctx, p.batch)
	if err != nil {
		uc.logger.Warn("Run failed",
			zap.String("user_id", userID.String()),
			zap.String("problem_id", problemID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	observeVerdict(modeRun, p.language, start, outcome.Aggregate)

	reports := make([]domain.CaseReport, len(p.batch))
	for i, r := range p.batch {
		reports[i] = domain.CaseReport{
			Stdin:          judge.DecodeText(r.Stdin),
			ExpectedOutput: judge.DecodeText(r.ExpectedOutput),
		}
		if i < len(outcome.Results) {
			reports[i].Stdout = outcome.Results[i].Stdout
			reports[i].StatusID = outcome.Results[i].StatusID
		}
	}

	agg := outcome.Aggregate
	uc.logger.Info("Run completed",
		zap.String("user_id", userID.String()),
		zap.String("problem_id", problemID.String()),
		zap.Stringer("verdict", agg.Verdict),
		zap.Int("passed", agg.Passed),
		zap.Int("total", agg.Total),
	)

	return &domain.RunResponse{
		Success:      agg.Accepted(),
		TestCases:    reports,
		RuntimeSec:   agg.RuntimeSec,
		MemoryKB:     agg.MemoryKB,
		ErrorMessage: agg.ErrorMessage,
	}, nil
}
