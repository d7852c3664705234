package assessments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"riskassess-backend/internal/documents"
	"riskassess-backend/internal/ingest"
	"riskassess-backend/internal/llm"
	"riskassess-backend/internal/questions"
	"riskassess-backend/internal/shared/metrics"
	"riskassess-backend/internal/shared/storage/object"
	"riskassess-backend/internal/shared/telemetry"
)

// DocumentRef names one uploaded document to include in a run, with an
// optional display label ("Primary", "4th-Party Attestation", ...).
type DocumentRef struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// RunRequest is the input to one assessment run.
type RunRequest struct {
	UserID         string
	CompanyName    string
	ProductName    string
	AssessmentType string
	Documents      []DocumentRef
}

// Service orchestrates the assessment pipeline: load documents, extract text,
// call the provider once, validate the response, score.
type Service struct {
	Repo      Repo
	DocRepo   documents.DocumentsRepo
	Store     object.ObjectStore
	Ingestor  *ingest.Pipeline
	LLM       llm.Client
	Relevance RelevanceChecker
	Provider  string
	Model     string
}

// Run executes one assessment synchronously. The returned run is always
// persisted, in either completed or failed status; err is non-nil exactly
// when the run failed. Pre-flight validation errors are the exception: they
// return before anything is persisted.
func (s *Service) Run(ctx context.Context, req RunRequest) (AssessmentRun, error) {
	if err := validateRunRequest(req); err != nil {
		return AssessmentRun{}, err
	}

	if strings.TrimSpace(req.AssessmentType) == "" {
		req.AssessmentType = questions.TypeSecurity
	}
	qs, err := questions.Catalog(req.AssessmentType)
	if err != nil {
		return AssessmentRun{}, err
	}

	run := AssessmentRun{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		CompanyName:    strings.TrimSpace(req.CompanyName),
		ProductName:    strings.TrimSpace(req.ProductName),
		AssessmentType: req.AssessmentType,
		Provider:       s.providerName(),
		Model:          s.Model,
		Status:         StatusCompleted,
		CreatedAt:      time.Now().UTC(),
	}

	// Fail fast on missing credentials. No document I/O and no network call
	// happens for an unconfigured provider.
	if s.LLM == nil {
		return s.fail(ctx, run, llm.ErrNotConfigured)
	}
	status := s.LLM.Status()
	if !status.Configured {
		return s.fail(ctx, run, llm.ErrNotConfigured)
	}
	if status.Model != "" {
		run.Model = status.Model
	}

	startedAt := time.Now().UTC()
	metrics.IncAssessmentStarted()

	inputDocs, rawByIndex, err := s.loadDocuments(ctx, req)
	if err != nil {
		return s.fail(ctx, run, err)
	}

	extractions, err := s.Ingestor.IngestAll(ctx, inputDocs)
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("ingest: %w", err))
	}

	providerDocs, ingestionIssues, analyzed := buildProviderDocuments(inputDocs, extractions, rawByIndex)
	if analyzed == 0 {
		return s.fail(ctx, run, fmt.Errorf("ingest: no readable text in any of the %d document(s): %s", len(inputDocs), summarizeIssues(ingestionIssues)))
	}

	input := llm.AnalyzeInput{
		CompanyName:    run.CompanyName,
		ProductName:    run.ProductName,
		AssessmentType: run.AssessmentType,
		Questions:      qs,
		Documents:      providerDocs,
	}

	var promptHash string
	raw, err := s.LLM.AnalyzeAssessment(llm.WithPromptHashCapture(ctx, &promptHash), input)
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("provider analyze: %w", err))
	}
	run.PromptHash = promptHash

	result, err := parseProviderResponse(raw, qs, s.Relevance)
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("provider response: %w", err))
	}

	result.RiskScore = ComputeRiskScore(qs, result.Answers)
	result.RiskLevel = LevelForScore(result.RiskScore)
	result.DocumentsAnalyzed = analyzed
	result.AIProvider = run.Provider
	result.AnalysisDate = time.Now().UTC()
	if len(ingestionIssues) > 0 {
		result.IngestionIssues = ingestionIssues
	}

	completedAt := time.Now().UTC()
	run.Result = result
	run.CompletedAt = &completedAt

	if err := s.Repo.Create(ctx, run); err != nil {
		return s.fail(ctx, run, fmt.Errorf("storage: save run: %w", err))
	}

	metrics.IncAssessmentCompleted()
	metrics.ObserveAssessmentDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("assessment.status", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"user_id":     run.UserID,
		"run_id":      run.ID,
		"status":      run.Status,
		"provider":    run.Provider,
		"risk_score":  result.RiskScore,
		"risk_level":  result.RiskLevel,
		"documents":   analyzed,
		"duration_ms": durationMs(startedAt, completedAt),
	})
	return run, nil
}

// Get returns a run by ID.
func (s *Service) Get(ctx context.Context, runID string) (AssessmentRun, error) {
	if runID == "" {
		return AssessmentRun{}, errors.New("runID is required")
	}
	return s.Repo.GetByID(ctx, runID)
}

// List returns runs for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]AssessmentRun, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func validateRunRequest(req RunRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return errors.New("userID is required")
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return errors.New("companyName is required")
	}
	if len(req.Documents) == 0 {
		return errors.New("at least one document is required")
	}
	for _, ref := range req.Documents {
		if strings.TrimSpace(ref.ID) == "" {
			return errors.New("document id is required")
		}
	}
	return nil
}

func (s *Service) providerName() string {
	if strings.TrimSpace(s.Provider) == "" {
		return "google"
	}
	return s.Provider
}

// loadDocuments resolves document refs against the repo and object store.
// The raw bytes are kept per index so direct-upload PDFs can be forwarded
// without re-reading.
func (s *Service) loadDocuments(ctx context.Context, req RunRequest) ([]ingest.Document, map[int][]byte, error) {
	if s.DocRepo == nil || s.Store == nil {
		return nil, nil, errors.New("storage: document store dependencies missing")
	}

	docs := make([]ingest.Document, 0, len(req.Documents))
	rawByIndex := make(map[int][]byte, len(req.Documents))
	for i, ref := range req.Documents {
		doc, err := s.DocRepo.GetByID(ctx, req.UserID, ref.ID)
		if err != nil {
			if errors.Is(err, documents.ErrNotFound) {
				return nil, nil, fmt.Errorf("validation: document %s not found", ref.ID)
			}
			return nil, nil, fmt.Errorf("storage: document lookup id=%s: %w", ref.ID, err)
		}
		data, err := loadObject(ctx, s.Store, doc.StorageKey)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: load object key=%s: %w", doc.StorageKey, err)
		}
		docs = append(docs, ingest.Document{
			FileName: doc.FileName,
			MimeType: doc.MimeType,
			Label:    ref.Label,
			Data:     data,
		})
		rawByIndex[i] = data
	}
	return docs, rawByIndex, nil
}

// buildProviderDocuments pairs each extraction with its source document and
// collects per-file issues. Failed extractions are reported, not fatal, as
// long as at least one document yields content.
func buildProviderDocuments(docs []ingest.Document, extractions []ingest.ExtractionResult, rawByIndex map[int][]byte) ([]llm.InputDocument, map[string][]string, int) {
	providerDocs := make([]llm.InputDocument, 0, len(docs))
	issues := make(map[string][]string)
	analyzed := 0
	for i, res := range extractions {
		name := docs[i].FileName
		if len(res.Issues) > 0 {
			issues[name] = append(issues[name], res.Issues...)
		}
		if !res.Success {
			continue
		}
		input := llm.InputDocument{
			FileName: name,
			Label:    docs[i].Label,
		}
		if res.Method == ingest.MethodDirectUpload {
			input.PDFData = rawByIndex[i]
		} else {
			input.Text = res.Text
		}
		providerDocs = append(providerDocs, input)
		analyzed++
	}
	return providerDocs, issues, analyzed
}

func (s *Service) fail(ctx context.Context, run AssessmentRun, err error) (AssessmentRun, error) {
	completedAt := time.Now().UTC()
	run.Status = StatusFailed
	run.Result = nil
	run.ErrorCode = classifyFailure(err)
	run.ErrorMessage = sanitizeError(err)
	run.CompletedAt = &completedAt

	if s.Repo != nil {
		if saveErr := s.Repo.Create(context.WithoutCancel(ctx), run); saveErr != nil {
			telemetry.Error("assessment.save_failed", map[string]any{
				"run_id": run.ID,
				"error":  saveErr.Error(),
			})
		}
	}
	metrics.IncAssessmentFailed()
	telemetry.Info("assessment.status", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"user_id":    run.UserID,
		"run_id":     run.ID,
		"status":     run.Status,
		"provider":   run.Provider,
		"error_code": run.ErrorCode,
	})
	return run, err
}

// summarizeIssues flattens per-file issues into one line for an error
// message. Full detail stays in the result payload.
func summarizeIssues(issues map[string][]string) string {
	if len(issues) == 0 {
		return "no issues reported"
	}
	parts := make([]string, 0, len(issues))
	for name, fileIssues := range issues {
		if len(fileIssues) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, fileIssues[0]))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

func loadObject(ctx context.Context, store object.ObjectStore, key string) ([]byte, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
