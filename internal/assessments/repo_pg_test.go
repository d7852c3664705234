package assessments

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreatePersistsCompletedRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	completedAt := time.Now().UTC()
	run := AssessmentRun{
		ID:             "run-1",
		UserID:         "user-1",
		CompanyName:    "Acme Corp",
		ProductName:    "Acme Cloud",
		AssessmentType: "security",
		Provider:       "google",
		Model:          "gemini-1.5-flash",
		PromptHash:     "deadbeef",
		Status:         StatusCompleted,
		Result: &AnalysisResult{
			RiskScore: 82,
			RiskLevel: RiskMedium,
		},
		CreatedAt:   time.Now().UTC(),
		CompletedAt: &completedAt,
	}

	mock.ExpectExec("INSERT INTO assessment_runs").
		WithArgs(
			run.ID,
			run.UserID,
			run.CompanyName,
			run.ProductName,
			run.AssessmentType,
			run.Provider,
			run.Model,
			run.PromptHash,
			run.Status,
			sqlmock.AnyArg(), // result json
			nil,              // error_code
			nil,              // error_message
			run.CreatedAt,
			run.CompletedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreatePersistsFailedRunWithoutResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	completedAt := time.Now().UTC()
	run := AssessmentRun{
		ID:             "run-2",
		UserID:         "user-1",
		CompanyName:    "Acme Corp",
		AssessmentType: "security",
		Provider:       "google",
		Status:         StatusFailed,
		ErrorCode:      ErrorCodeProviderNotConfigured,
		ErrorMessage:   "AI provider not configured: set GOOGLE_AI_API_KEY",
		CreatedAt:      time.Now().UTC(),
		CompletedAt:    &completedAt,
	}

	mock.ExpectExec("INSERT INTO assessment_runs").
		WithArgs(
			run.ID,
			run.UserID,
			run.CompanyName,
			"",
			run.AssessmentType,
			run.Provider,
			"",
			"",
			run.Status,
			nil, // result
			run.ErrorCode,
			run.ErrorMessage,
			run.CreatedAt,
			run.CompletedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func runColumns() []string {
	return []string{
		"id", "user_id", "company_name", "product_name", "assessment_type",
		"provider", "model", "prompt_hash", "status", "result",
		"error_code", "error_message", "created_at", "completed_at",
	}
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	result := AnalysisResult{RiskScore: 91, RiskLevel: RiskLow}
	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	createdAt := time.Now().UTC()
	completedAt := createdAt.Add(3 * time.Second)

	mock.ExpectQuery("SELECT (.+) FROM assessment_runs").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(runColumns()).AddRow(
			"run-1", "user-1", "Acme Corp", "Acme Cloud", "security",
			"google", "gemini-1.5-flash", "deadbeef", StatusCompleted, string(payload),
			nil, nil, createdAt, completedAt,
		))

	repo := &PGRepo{DB: db}
	run, err := repo.GetByID(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if run.Result == nil || run.Result.RiskScore != 91 || run.Result.RiskLevel != RiskLow {
		t.Fatalf("result not decoded: %+v", run.Result)
	}
	if run.CompletedAt == nil {
		t.Fatal("completedAt not scanned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM assessment_runs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(runColumns()))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	createdAt := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM assessment_runs").
		WithArgs("user-1", 100, 0).
		WillReturnRows(sqlmock.NewRows(runColumns()).AddRow(
			"run-1", "user-1", "Acme Corp", nil, "security",
			"google", nil, nil, StatusFailed, nil,
			ErrorCodeIngestion, "ingest: no readable text", createdAt, nil,
		))

	repo := &PGRepo{DB: db}
	runs, err := repo.ListByUser(context.Background(), "user-1", 500, -5)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len = %d", len(runs))
	}
	if runs[0].ErrorCode != ErrorCodeIngestion {
		t.Fatalf("errorCode = %q", runs[0].ErrorCode)
	}
	if runs[0].Result != nil {
		t.Fatalf("failed run should have nil result: %+v", runs[0].Result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
