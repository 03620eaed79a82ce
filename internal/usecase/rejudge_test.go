package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	enginemock "github.com/himanshu8github/Neetcode/internal/engine/mock"
	repomock "github.com/himanshu8github/Neetcode/internal/repository/mock"
	"github.com/himanshu8github/Neetcode/internal/usecase"
)

type rejudgeFixture struct {
	problem     *domain.Problem
	submissions *repomock.SubmissionRepository
	solved      *repomock.SolvedSetRepository
	idem        *repomock.IdempotencyStore
	engine      *enginemock.Engine
	uc          *usecase.RejudgeUsecase
}

func newRejudgeFixture() *rejudgeFixture {
	f := &rejudgeFixture{
		problem:     newProblem(),
		submissions: repomock.NewSubmissionRepository(),
		solved:      repomock.NewSolvedSetRepository(),
		idem:        &repomock.IdempotencyStore{},
		engine:      &enginemock.Engine{},
	}
	f.uc = usecase.NewRejudgeUsecase(f.submissions, repomock.NewProblemRepository(f.problem),
		f.solved, f.idem, newPipeline(f.engine), zap.NewNop())
	return f
}

func (f *rejudgeFixture) pending(t *testing.T) *domain.Submission {
	t.Helper()
	sub := &domain.Submission{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		ProblemID:      f.problem.ID,
		Code:           "int main() {}",
		Language:       domain.LangCpp,
		TestCasesTotal: len(f.problem.HiddenTestCases),
	}
	if err := f.submissions.Create(context.Background(), sub); err != nil {
		t.Fatal(err)
	}
	return sub
}

func TestRejudge_FinalizesPendingSubmission(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)

	skipped, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID, Reason: "judging_timeout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped {
		t.Fatal("expected rejudge to run")
	}

	got, _ := f.submissions.GetByID(context.Background(), sub.ID)
	if got.Status != domain.StatusAccepted || got.TestCasesPassed != 3 {
		t.Errorf("unexpected submission after rejudge %+v", got)
	}
	if f.solved.Size(sub.UserID) != 1 {
		t.Errorf("expected problem marked solved")
	}
	if len(f.idem.ReleaseCalls) != 1 {
		t.Errorf("expected lock released once, got %d", len(f.idem.ReleaseCalls))
	} else if f.idem.ReleaseTokens[0] != "token-"+sub.ID.String() {
		t.Errorf("lock released with foreign token %q", f.idem.ReleaseTokens[0])
	}
	if got := f.engine.Submitted[0][0].LanguageID; got != 54 {
		t.Errorf("expected c++ language id 54, got %d", got)
	}
}

func TestRejudge_SkipsWhenLocked(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)
	f.idem.AcquireLockFn = func(ctx context.Context, id uuid.UUID) (string, bool, error) { return "", false, nil }

	skipped, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID})
	if err != nil || !skipped {
		t.Fatalf("expected skip, got skipped=%v err=%v", skipped, err)
	}
	if len(f.engine.Submitted) != 0 {
		t.Errorf("engine must not be called")
	}
	if len(f.idem.ReleaseCalls) != 0 {
		t.Errorf("lock held by another worker must not be released")
	}
}

func TestRejudge_SkipsTerminalSubmission(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)
	if err := f.submissions.Finalize(context.Background(), sub.ID, domain.Aggregate{Verdict: domain.VerdictWrongAnswer, Total: 3}); err != nil {
		t.Fatal(err)
	}

	skipped, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID})
	if err != nil || !skipped {
		t.Fatalf("expected skip, got skipped=%v err=%v", skipped, err)
	}
	if len(f.engine.Submitted) != 0 {
		t.Errorf("engine must not be called")
	}
}

func TestRejudge_ConcurrentFinalizeIsSkipped(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)
	f.submissions.FinalizeFn = func(ctx context.Context, id uuid.UUID, agg domain.Aggregate) error {
		return domain.ErrSubmissionFinalized
	}

	skipped, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID})
	if err != nil || !skipped {
		t.Fatalf("expected skip, got skipped=%v err=%v", skipped, err)
	}
	if f.solved.MarkCalls != 0 {
		t.Errorf("solved set must not change")
	}
}

func TestRejudge_EngineFailureKeepsPending(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)
	f.engine.SubmitBatchFn = func(ctx context.Context, reqs []domain.ExecutionRequest) ([]string, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID})
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	got, _ := f.submissions.GetByID(context.Background(), sub.ID)
	if got.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", got.Status)
	}
	if len(f.idem.ReleaseCalls) != 1 {
		t.Errorf("expected lock released")
	}
}

func TestRejudge_UnknownSubmission(t *testing.T) {
	f := newRejudgeFixture()

	_, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: uuid.New()})
	if !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestRejudge_ShrunkHiddenSetKeepsCountsConsistent(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)
	f.problem.HiddenTestCases = f.problem.HiddenTestCases[:2]

	skipped, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID})
	if err != nil || skipped {
		t.Fatalf("expected rejudge to run, got skipped=%v err=%v", skipped, err)
	}

	got, _ := f.submissions.GetByID(context.Background(), sub.ID)
	if got.Status != domain.StatusAccepted {
		t.Fatalf("expected accepted, got %s", got.Status)
	}
	if got.TestCasesPassed != got.TestCasesTotal || got.TestCasesTotal != 2 {
		t.Errorf("accepted with passed %d, total %d", got.TestCasesPassed, got.TestCasesTotal)
	}
}

func TestRejudge_GrownHiddenSetRecordsNewTotal(t *testing.T) {
	f := newRejudgeFixture()
	sub := f.pending(t)
	f.problem.HiddenTestCases = append(f.problem.HiddenTestCases, domain.TestCase{Input: "2 3", ExpectedOutput: "5"})
	f.engine.FetchBatchFn = enginemock.WithStatuses(
		domain.EngineStatusAccepted, domain.EngineStatusAccepted, domain.EngineStatusAccepted, 5)

	if _, err := f.uc.Execute(context.Background(), &domain.RejudgeMessage{SubmissionID: sub.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := f.submissions.GetByID(context.Background(), sub.ID)
	if got.Status != domain.StatusWrongAnswer || got.TestCasesPassed != 3 || got.TestCasesTotal != 4 {
		t.Errorf("unexpected stored counts %+v", got)
	}
	if f.solved.Size(sub.UserID) != 0 {
		t.Errorf("solved set must not change")
	}
}
