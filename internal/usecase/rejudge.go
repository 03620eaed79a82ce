package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// RejudgeUsecase finishes submissions that were left pending by the API.
type RejudgeUsecase struct {
	submissions repository.SubmissionRepository
	problems    repository.ProblemRepository
	solved      repository.SolvedSetRepository
	idempotency repository.IdempotencyStore
	judger      Judger
	logger      *zap.Logger
}

// NewRejudgeUsecase creates a new RejudgeUsecase.
func NewRejudgeUsecase(
	submissions repository.SubmissionRepository,
	problems repository.ProblemRepository,
	solved repository.SolvedSetRepository,
	idempotency repository.IdempotencyStore,
	judger Judger,
	logger *zap.Logger,
) *RejudgeUsecase {
	return &RejudgeUsecase{
		submissions: submissions,
		problems:    problems,
		solved:      solved,
		idempotency: idempotency,
		judger:      judger,
		logger:      logger,
	}
}

// Execute rejudges the submission named by msg. It returns skipped=true when the
// message is a duplicate: another worker holds the lock or the submission is
// already terminal.
func (uc *RejudgeUsecase) Execute(ctx context.Context, msg *domain.RejudgeMessage) (skipped bool, err error) {
	id := msg.SubmissionID
	log := uc.logger.With(zap.String("submission_id", id.String()))

	token, acquired, err := uc.idempotency.AcquireLock(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		log.Info("Submission is locked by another worker, skipping")
		return true, nil
	}
	defer func() {
		if err := uc.idempotency.ReleaseLock(context.WithoutCancel(ctx), id, token); err != nil {
			log.Error("Failed to release lock", zap.Error(err))
		}
	}()

	sub, err := uc.submissions.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub.Status.IsTerminal() {
		log.Info("Submission already judged, skipping", zap.String("status", string(sub.Status)))
		return true, nil
	}

	req := &domain.CodeRequest{Code: sub.Code, Language: string(sub.Language)}
	p, err := prepare(ctx, uc.problems, sub.ProblemID, req, domain.SubsetHidden)
	if err != nil {
		return false, fmt.Errorf("failed to prepare rejudge: %w", err)
	}
	if len(p.batch) != sub.TestCasesTotal {
		// Finalize stores the new total, so passed and total stay consistent.
		log.Warn("Hidden test cases changed since submission",
			zap.Int("recorded_total", sub.TestCasesTotal),
			zap.Int("current_total", len(p.batch)),
		)
	}

	start := time.Now()
	outcome, err := uc.judger.Judge(ctx, p.batch)
	if err != nil {
		return false, fmt.Errorf("rejudge %s: %w", id, err)
	}
	agg := outcome.Aggregate
	observeVerdict(modeRejudge, p.language, start, agg)

	if err := uc.submissions.Finalize(ctx, id, agg); err != nil {
		if errors.Is(err, domain.ErrSubmissionFinalized) {
			log.Info("Submission finalized concurrently, skipping")
			return true, nil
		}
		return false, fmt.Errorf("failed to finalize submission: %w", err)
	}

	if agg.Accepted() {
		if _, err := uc.solved.MarkSolved(ctx, sub.UserID, sub.ProblemID); err != nil {
			return false, fmt.Errorf("failed to update solved set: %w", err)
		}
	}

	log.Info("Submission rejudged",
		zap.String("reason", msg.Reason),
		zap.Stringer("verdict", agg.Verdict),
		zap.Int("passed", agg.Passed),
		zap.Int("total", agg.Total),
	)
	return false, nil
}
