package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// Ensure pgSubmissionRepo implements repository.SubmissionRepository.
var _ repository.SubmissionRepository = (*pgSubmissionRepo)(nil)

const submissionColumns = `
	id, user_id, problem_id, code, language, status,
	test_cases_passed, test_cases_total, runtime, memory, error_message,
	created_at, updated_at`

type pgSubmissionRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresSubmissionRepository creates a new PostgreSQL-backed submission repository.
func NewPostgresSubmissionRepository(pool *pgxpool.Pool) repository.SubmissionRepository {
	return &pgSubmissionRepo{pool: pool}
}

func (r *pgSubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, user_id, problem_id, code, language, status,
		                         test_cases_passed, test_cases_total, runtime, memory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 0, 0, $8, $9)`

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.Code, sub.Language,
		domain.StatusPending, sub.TestCasesTotal, now, now,
	)
	if err != nil {
		return wrapErr("create submission", err)
	}
	sub.Status = domain.StatusPending
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return nil
}

func (r *pgSubmissionRepo) Finalize(ctx context.Context, id uuid.UUID, agg domain.Aggregate) error {
	query := `
		UPDATE submissions
		SET status = $1, test_cases_passed = $2, test_cases_total = $3, runtime = $4,
		    memory = $5, error_message = $6, updated_at = $7
		WHERE id = $8 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query,
		agg.Verdict.Status(), agg.Passed, agg.Total, agg.RuntimeSec, agg.MemoryKB,
		agg.ErrorMessage, time.Now().UTC(), id,
	)
	if err != nil {
		return wrapErr("finalize submission", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return wrapErr("finalize submission", err)
	}
	if !exists {
		return domain.ErrSubmissionNotFound
	}
	return domain.ErrSubmissionFinalized
}

func (r *pgSubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, wrapErr("get submission by id", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepo) ListByUserAndProblem(ctx context.Context, userID, problemID uuid.UUID) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM submissions
		WHERE user_id = $1 AND problem_id = $2
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, problemID)
	if err != nil {
		return nil, wrapErr("list submissions", err)
	}
	defer rows.Close()

	subs := make([]*domain.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, wrapErr("scan submission", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list submissions", err)
	}
	return subs, nil
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	sub := &domain.Submission{}
	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Code, &sub.Language, &sub.Status,
		&sub.TestCasesPassed, &sub.TestCasesTotal, &sub.RuntimeSec, &sub.MemoryKB, &sub.ErrorMessage,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
