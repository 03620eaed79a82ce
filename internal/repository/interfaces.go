package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// SubmissionRepository persists submit attempts.
// Implementations must be safe for concurrent use.
type SubmissionRepository interface {
	// Create inserts a new submission in the pending state.
	Create(ctx context.Context, sub *domain.Submission) error

	// Finalize records the terminal outcome of a pending submission exactly once.
	// The stored total is replaced by agg.Total, the number of cases actually judged.
	// It returns domain.ErrSubmissionFinalized if the submission is no longer pending.
	Finalize(ctx context.Context, id uuid.UUID, agg domain.Aggregate) error

	// GetByID retrieves a submission by its UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// ListByUserAndProblem returns a user's submissions for one problem, newest first.
	ListByUserAndProblem(ctx context.Context, userID, problemID uuid.UUID) ([]*domain.Submission, error)
}

// ProblemRepository reads problems for judging.
type ProblemRepository interface {
	// GetByID returns domain.ErrProblemNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error)
}

// SolvedSetRepository maintains each user's set of solved problems.
type SolvedSetRepository interface {
	// MarkSolved adds the problem if absent. It reports whether the set changed.
	MarkSolved(ctx context.Context, userID, problemID uuid.UUID) (bool, error)

	// ListSolved returns the user's solved problems, most recent first.
	ListSolved(ctx context.Context, userID uuid.UUID) ([]domain.SolvedProblem, error)
}

// RevocationRegistry records session tokens that must no longer be honoured.
type RevocationRegistry interface {
	// IsRevoked reports whether the raw token has been revoked.
	IsRevoked(ctx context.Context, rawToken string) (bool, error)

	// Revoke blocks the raw token until expiresAt.
	Revoke(ctx context.Context, rawToken string, expiresAt time.Time) error
}

// IdempotencyStore defines the interface for distributed per-submission locks.
type IdempotencyStore interface {
	// AcquireLock attempts to acquire an exclusive processing lock for a submission.
	// acquired is false if another worker holds it. The returned token identifies
	// this holder and must be passed to ReleaseLock.
	AcquireLock(ctx context.Context, submissionID uuid.UUID) (token string, acquired bool, err error)

	// ReleaseLock releases the processing lock if token still holds it. A lock
	// that expired and was taken by another worker is left alone.
	ReleaseLock(ctx context.Context, submissionID uuid.UUID, token string) error
}

// SourceArchive keeps a copy of submitted source code outside the database.
type SourceArchive interface {
	Put(ctx context.Context, sub *domain.Submission) error
}
