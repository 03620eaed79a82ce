package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

var _ repository.SolvedSetRepository = (*pgSolvedRepo)(nil)

type pgSolvedRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresSolvedSetRepository creates a solved-set repository keyed on (user_id, problem_id).
func NewPostgresSolvedSetRepository(pool *pgxpool.Pool) repository.SolvedSetRepository {
	return &pgSolvedRepo{pool: pool}
}

// MarkSolved relies on the primary key so concurrent accepts add the problem once.
func (r *pgSolvedRepo) MarkSolved(ctx context.Context, userID, problemID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO user_solved_problems (user_id, problem_id, solved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, problem_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, userID, problemID, time.Now().UTC())
	if err != nil {
		return false, wrapErr("mark solved", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pgSolvedRepo) ListSolved(ctx context.Context, userID uuid.UUID) ([]domain.SolvedProblem, error) {
	query := `
		SELECT s.problem_id, p.title, p.difficulty, s.solved_at
		FROM user_solved_problems s
		JOIN problems p ON p.id = s.problem_id
		WHERE s.user_id = $1
		ORDER BY s.solved_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapErr("list solved", err)
	}
	defer rows.Close()

	solved := make([]domain.SolvedProblem, 0)
	for rows.Next() {
		var sp domain.SolvedProblem
		if err := rows.Scan(&sp.ProblemID, &sp.Title, &sp.Difficulty, &sp.SolvedAt); err != nil {
			return nil, wrapErr("scan solved", err)
		}
		solved = append(solved, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list solved", err)
	}
	return solved, nil
}
