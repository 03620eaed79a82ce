package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

var _ repository.ProblemRepository = (*pgProblemRepo)(nil)

type pgProblemRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresProblemRepository creates a read-only problem repository.
// Test cases and code snippets are stored as JSONB.
func NewPostgresProblemRepository(pool *pgxpool.Pool) repository.ProblemRepository {
	return &pgProblemRepo{pool: pool}
}

func (r *pgProblemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	query := `
		SELECT id, title, difficulty, visible_test_cases, hidden_test_cases, start_code, reference_solution
		FROM problems
		WHERE id = $1`

	p := &domain.Problem{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Difficulty,
		&p.VisibleTestCases, &p.HiddenTestCases, &p.StartCode, &p.ReferenceSolution,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProblemNotFound, id)
	}
	if err != nil {
		return nil, wrapErr("get problem by id", err)
	}
	return p, nil
}
