package assessments

import "context"

// Repo defines persistence operations for assessment runs. Runs are written
// once, already in their terminal status; there is no update path.
type Repo interface {
	Create(ctx context.Context, run AssessmentRun) error
	GetByID(ctx context.Context, runID string) (AssessmentRun, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]AssessmentRun, error)
}

// List pagination bounds, shared by every Repo implementation so dev and
// prod paginate identically.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampListPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
