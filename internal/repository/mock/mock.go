package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// ---- SubmissionRepository mock ----

var _ repository.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository is an in-memory test double with the same
// finalize-once semantics as the Postgres implementation.
type SubmissionRepository struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*domain.Submission

	CreateFn   func(ctx context.Context, sub *domain.Submission) error
	FinalizeFn func(ctx context.Context, id uuid.UUID, agg domain.Aggregate) error
	GetByIDFn  func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// Recorded calls for assertions.
	Finalized []FinalizeCall
}

type FinalizeCall struct {
	ID        uuid.UUID
	Aggregate domain.Aggregate
}

// NewSubmissionRepository creates an empty mock repository.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{subs: make(map[uuid.UUID]*domain.Submission)}
}

func (m *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, sub); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	sub.Status = domain.StatusPending
	sub.CreatedAt, sub.UpdatedAt = now, now
	cp := *sub
	m.subs[sub.ID] = &cp
	return nil
}

func (m *SubmissionRepository) Finalize(ctx context.Context, id uuid.UUID, agg domain.Aggregate) error {
	m.mu.Lock()
	m.Finalized = append(m.Finalized, FinalizeCall{ID: id, Aggregate: agg})
	m.mu.Unlock()
	if m.FinalizeFn != nil {
		return m.FinalizeFn(ctx, id, agg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	if sub.Status != domain.StatusPending {
		return domain.ErrSubmissionFinalized
	}
	sub.Status = agg.Verdict.Status()
	sub.TestCasesPassed = agg.Passed
	sub.TestCasesTotal = agg.Total
	sub.RuntimeSec = agg.RuntimeSec
	sub.MemoryKB = agg.MemoryKB
	sub.ErrorMessage = agg.ErrorMessage
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *SubmissionRepository) ListByUserAndProblem(ctx context.Context, userID, problemID uuid.UUID) ([]*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Submission, 0)
	for _, sub := range m.subs {
		if sub.UserID == userID && sub.ProblemID == problemID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Count returns the number of stored submissions.
func (m *SubmissionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// ---- ProblemRepository mock ----

var _ repository.ProblemRepository = (*ProblemRepository)(nil)

// ProblemRepository serves problems from a map.
type ProblemRepository struct {
	Problems map[uuid.UUID]*domain.Problem

	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Problem, error)
}

// NewProblemRepository creates a mock holding the given problems.
func NewProblemRepository(problems ...*domain.Problem) *ProblemRepository {
	m := &ProblemRepository{Problems: make(map[uuid.UUID]*domain.Problem)}
	for _, p := range problems {
		m.Problems[p.ID] = p
	}
	return m
}

func (m *ProblemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	p, ok := m.Problems[id]
	if !ok {
		return nil, domain.ErrProblemNotFound
	}
	return p, nil
}

// ---- SolvedSetRepository mock ----

var _ repository.SolvedSetRepository = (*SolvedSetRepository)(nil)

type solvedKey struct{ user, problem uuid.UUID }

// SolvedSetRepository is an in-memory set keyed on (user, problem).
type SolvedSetRepository struct {
	mu     sync.Mutex
	solved map[solvedKey]time.Time

	MarkSolvedFn func(ctx context.Context, userID, problemID uuid.UUID) (bool, error)

	MarkCalls int
}

// NewSolvedSetRepository creates an empty solved set.
func NewSolvedSetRepository() *SolvedSetRepository {
	return &SolvedSetRepository{solved: make(map[solvedKey]time.Time)}
}

func (m *SolvedSetRepository) MarkSolved(ctx context.Context, userID, problemID uuid.UUID) (bool, error) {
	m.mu.Lock()
	m.MarkCalls++
	m.mu.Unlock()
	if m.MarkSolvedFn != nil {
		return m.MarkSolvedFn(ctx, userID, problemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := solvedKey{userID, problemID}
	if _, ok := m.solved[k]; ok {
		return false, nil
	}
	m.solved[k] = time.Now().UTC()
	return true, nil
}

func (m *SolvedSetRepository) ListSolved(ctx context.Context, userID uuid.UUID) ([]domain.SolvedProblem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SolvedProblem, 0)
	for k, at := range m.solved {
		if k.user == userID {
			out = append(out, domain.SolvedProblem{ProblemID: k.problem, SolvedAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolvedAt.After(out[j].SolvedAt) })
	return out, nil
}

// Size returns how many problems the user has solved.
func (m *SolvedSetRepository) Size(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.solved {
		if k.user == userID {
			n++
		}
	}
	return n
}

// ---- RevocationRegistry mock ----

var _ repository.RevocationRegistry = (*RevocationRegistry)(nil)

// RevocationRegistry is an in-memory revocation set.
type RevocationRegistry struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	IsRevokedFn func(ctx context.Context, rawToken string) (bool, error)
}

// NewRevocationRegistry creates an empty registry.
func NewRevocationRegistry() *RevocationRegistry {
	return &RevocationRegistry{revoked: make(map[string]time.Time)}
}

func (m *RevocationRegistry) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, rawToken)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[rawToken]
	return ok && exp.After(time.Now()), nil
}

func (m *RevocationRegistry) Revoke(ctx context.Context, rawToken string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[rawToken] = expiresAt
	return nil
}

// ---- IdempotencyStore mock ----

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore is a test double for repository.IdempotencyStore.
type IdempotencyStore struct {
	mu sync.Mutex

	AcquireLockFn func(ctx context.Context, id uuid.UUID) (string, bool, error)
	ReleaseLockFn func(ctx context.Context, id uuid.UUID, token string) error

	AcquireCalls  []uuid.UUID
	ReleaseCalls  []uuid.UUID
	ReleaseTokens []string
}

func (m *IdempotencyStore) AcquireLock(ctx context.Context, id uuid.UUID) (string, bool, error) {
	m.mu.Lock()
	m.AcquireCalls = append(m.AcquireCalls, id)
	m.mu.Unlock()
	if m.AcquireLockFn != nil {
		return m.AcquireLockFn(ctx, id)
	}
	return "token-" + id.String(), true, nil // default: lock acquired
}

func (m *IdempotencyStore) ReleaseLock(ctx context.Context, id uuid.UUID, token string) error {
	m.mu.Lock()
	m.ReleaseCalls = append(m.ReleaseCalls, id)
	m.ReleaseTokens = append(m.ReleaseTokens, token)
	m.mu.Unlock()
	if m.ReleaseLockFn != nil {
		return m.ReleaseLockFn(ctx, id, token)
	}
	return nil
}

// ---- SourceArchive mock ----

var _ repository.SourceArchive = (*SourceArchive)(nil)

// SourceArchive records archived submissions.
type SourceArchive struct {
	mu sync.Mutex

	PutFn func(ctx context.Context, sub *domain.Submission) error

	Stored []uuid.UUID
}

func (m *SourceArchive) Put(ctx context.Context, sub *domain.Submission) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored = append(m.Stored, sub.ID)
	return nil
}
