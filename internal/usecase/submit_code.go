package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/publisher"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// SubmitCodeUsecase judges code against a problem's hidden cases and records the outcome.
type SubmitCodeUsecase struct {
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	solved      repository.SolvedSetRepository
	judger      Judger
	publisher   publisher.Publisher
	archive     repository.SourceArchive // optional
	logger      *zap.Logger
}

// NewSubmitCodeUsecase creates a new SubmitCodeUsecase. archive may be nil.
func NewSubmitCodeUsecase(
	problems repository.ProblemRepository,
	submissions repository.SubmissionRepository,
	solved repository.SolvedSetRepository,
	judger Judger,
	pub publisher.Publisher,
	archive repository.SourceArchive,
	logger *zap.Logger,
) *SubmitCodeUsecase {
	return &SubmitCodeUsecase{
		problems:    problems,
		submissions: submissions,
		solved:      solved,
		judger:      judger,
		publisher:   pub,
		archive:     archive,
		logger:      logger,
	}
}

// Execute creates a pending submission, judges it and finalizes it. When the
// engine cannot produce a verdict the submission stays pending, a rejudge is
// requested and the judging error is returned.
func (uc *SubmitCodeUsecase) Execute(ctx context.Context, userID, problemID uuid.UUID, req *domain.CodeRequest) (*domain.SubmitResponse, error) {
	p, err := prepare(ctx, uc.problems, problemID, req, domain.SubsetHidden)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate submission ID: %w", err)
	}

	sub := &domain.Submission{
		ID:             id,
		UserID:         userID,
		ProblemID:      problemID,
		Code:           req.Code,
		Language:       p.language,
		Status:         domain.StatusPending,
		TestCasesTotal: len(p.batch),
	}
	if err := uc.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	log := uc.logger.With(
		zap.String("submission_id", id.String()),
		zap.String("user_id", userID.String()),
		zap.String("problem_id", problemID.String()),
	)

	if uc.archive != nil {
		if err := uc.archive.Put(ctx, sub); err != nil {
			log.Warn("Failed to archive source", zap.Error(err))
		}
	}

	start := time.Now()
	outcome, err := uc.judger.Judge(ctx, p.batch)
	if err != nil {
		log.Warn("Judging did not complete, submission left pending", zap.Error(err))
		uc.requestRejudge(ctx, log, id, rejudgeReason(err))
		return nil, err
	}
	agg := outcome.Aggregate
	observeVerdict(modeSubmit, p.language, start, agg)

	// The verdict is recorded even if the caller has gone away.
	persistCtx := context.WithoutCancel(ctx)

	if err := uc.submissions.Finalize(persistCtx, id, agg); err != nil {
		log.Error("Failed to finalize submission", zap.Error(err))
		uc.requestRejudge(ctx, log, id, "finalize_failed")
		return nil, fmt.Errorf("failed to finalize submission: %w", err)
	}

	if agg.Accepted() {
		added, err := uc.solved.MarkSolved(persistCtx, userID, problemID)
		if err != nil {
			log.Error("Failed to update solved set", zap.Error(err))
			return nil, fmt.Errorf("failed to update solved set: %w", err)
		}
		if added {
			log.Info("Problem solved for the first time")
		}
	}

	log.Info("Submission judged",
		zap.Stringer("verdict", agg.Verdict),
		zap.Int("passed", agg.Passed),
		zap.Int("total", agg.Total),
	)

	return &domain.SubmitResponse{
		SubmissionID:    id,
		Status:          agg.Verdict.Status(),
		Accepted:        agg.Accepted(),
		TotalTestCases:  agg.Total,
		PassedTestCases: agg.Passed,
		RuntimeSec:      agg.RuntimeSec,
		MemoryKB:        agg.MemoryKB,
		ErrorMessage:    agg.ErrorMessage,
	}, nil
}

// requestRejudge hands the pending submission to the worker. A failed publish is
// only logged; the submission remains pending either way.
func (uc *SubmitCodeUsecase) requestRejudge(ctx context.Context, log *zap.Logger, id uuid.UUID, reason string) {
	msg := &domain.RejudgeMessage{
		SubmissionID: id,
		Reason:       reason,
		RequestedAt:  time.Now().UTC(),
	}
	// The request context may already be done.
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		log.Error("Failed to request rejudge", zap.Error(err))
		return
	}
	log.Info("Rejudge requested", zap.String("reason", msg.Reason))
}

func rejudgeReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrJudgingTimeout):
		return "judging_timeout"
	case errors.Is(err, domain.ErrEngineUnavailable):
		return "engine_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "request_cancelled"
	default:
		return "judging_failed"
	}
}
