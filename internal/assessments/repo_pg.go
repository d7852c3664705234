package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a finished run.
func (r *PGRepo) Create(ctx context.Context, run AssessmentRun) error {
	const query = `
INSERT INTO assessment_runs (
	id, user_id, company_name, product_name, assessment_type,
	provider, model, prompt_hash, status, result,
	error_code, error_message, created_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var resultPayload any
	if run.Result != nil {
		payload, err := json.Marshal(run.Result)
		if err != nil {
			return err
		}
		resultPayload = payload
	}

	_, err := r.DB.ExecContext(ctx, query,
		run.ID,
		run.UserID,
		run.CompanyName,
		run.ProductName,
		run.AssessmentType,
		run.Provider,
		run.Model,
		run.PromptHash,
		run.Status,
		resultPayload,
		nullString(run.ErrorCode),
		nullString(run.ErrorMessage),
		run.CreatedAt,
		run.CompletedAt,
	)
	return err
}

// GetByID returns a run by ID.
func (r *PGRepo) GetByID(ctx context.Context, runID string) (AssessmentRun, error) {
	const query = `
SELECT id, user_id, company_name, product_name, assessment_type,
       provider, model, prompt_hash, status, result,
       error_code, error_message, created_at, completed_at
FROM assessment_runs
WHERE id = $1
LIMIT 1`

	run, err := scanRun(r.DB.QueryRowContext(ctx, query, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AssessmentRun{}, ErrNotFound
		}
		return AssessmentRun{}, err
	}
	return run, nil
}

// ListByUser lists runs for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]AssessmentRun, error) {
	limit, offset = clampListPage(limit, offset)

	const query = `
SELECT id, user_id, company_name, product_name, assessment_type,
       provider, model, prompt_hash, status, result,
       error_code, error_message, created_at, completed_at
FROM assessment_runs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssessmentRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (AssessmentRun, error) {
	var run AssessmentRun
	var productName sql.NullString
	var model sql.NullString
	var promptHash sql.NullString
	var result sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.UserID,
		&run.CompanyName,
		&productName,
		&run.AssessmentType,
		&run.Provider,
		&model,
		&promptHash,
		&run.Status,
		&result,
		&errorCode,
		&errorMessage,
		&run.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return AssessmentRun{}, err
	}
	if productName.Valid {
		run.ProductName = productName.String
	}
	if model.Valid {
		run.Model = model.String
	}
	if promptHash.Valid {
		run.PromptHash = promptHash.String
	}
	if result.Valid {
		var parsed AnalysisResult
		if err := json.Unmarshal([]byte(result.String), &parsed); err == nil {
			run.Result = &parsed
		}
	}
	if errorCode.Valid {
		run.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		run.ErrorMessage = errorMessage.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
