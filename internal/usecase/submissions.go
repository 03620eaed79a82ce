package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// GetSubmissionUsecase retrieves one of the caller's submissions.
type GetSubmissionUsecase struct {
	repo repository.SubmissionRepository
}

// NewGetSubmissionUsecase creates a new GetSubmissionUsecase.
func NewGetSubmissionUsecase(repo repository.SubmissionRepository) *GetSubmissionUsecase {
	return &GetSubmissionUsecase{repo: repo}
}

// Execute returns domain.ErrSubmissionNotFound for unknown ids and for
// submissions owned by another user.
func (uc *GetSubmissionUsecase) Execute(ctx context.Context, userID, id uuid.UUID) (*domain.Submission, error) {
	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, domain.ErrSubmissionNotFound
	}
	return sub, nil
}

// ListSubmissionsUsecase lists the caller's submissions for one problem.
type ListSubmissionsUsecase struct {
	repo repository.SubmissionRepository
}

func NewListSubmissionsUsecase(repo repository.SubmissionRepository) *ListSubmissionsUsecase {
	return &ListSubmissionsUsecase{repo: repo}
}

func (uc *ListSubmissionsUsecase) Execute(ctx context.Context, userID, problemID uuid.UUID) ([]*domain.Submission, error) {
	subs, err := uc.repo.ListByUserAndProblem(ctx, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// SolvedProblemsUsecase lists the caller's solved set.
type SolvedProblemsUsecase struct {
	repo repository.SolvedSetRepository
}

func NewSolvedProblemsUsecase(repo repository.SolvedSetRepository) *SolvedProblemsUsecase {
	return &SolvedProblemsUsecase{repo: repo}
}

func (uc *SolvedProblemsUsecase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.SolvedProblem, error) {
	solved, err := uc.repo.ListSolved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solved problems: %w", err)
	}
	return solved, nil
}
