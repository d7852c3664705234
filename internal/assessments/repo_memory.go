package assessments

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores assessment runs in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]AssessmentRun
	byUser map[string][]AssessmentRun
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]AssessmentRun),
		byUser: make(map[string][]AssessmentRun),
	}
}

// Create stores the run.
func (r *MemoryRepo) Create(ctx context.Context, run AssessmentRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[run.ID] = run
	r.byUser[run.UserID] = append(r.byUser[run.UserID], run)
	return nil
}

// GetByID returns a run by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, runID string) (AssessmentRun, error) {
	if err := ctx.Err(); err != nil {
		return AssessmentRun{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.byID[runID]
	if !ok {
		return AssessmentRun{}, ErrNotFound
	}
	return run, nil
}

// ListByUser returns runs for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]AssessmentRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampListPage(limit, offset)

	r.mu.RLock()
	userRuns := r.byUser[userID]
	r.mu.RUnlock()

	if len(userRuns) == 0 || offset >= len(userRuns) {
		return []AssessmentRun{}, nil
	}

	runs := make([]AssessmentRun, len(userRuns))
	copy(runs, userRuns)
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	end := offset + limit
	if end > len(runs) {
		end = len(runs)
	}
	return runs[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
