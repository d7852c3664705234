package assessments

import "time"

// Run statuses. A run is a single-pass computation, so it only ever lands on
// one of these two.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// NoEvidenceSentinel is stored as the quote when the provider cited nothing,
// or when a citation failed the relevance check. Renderers must not show
// citation metadata for sentinel excerpts.
const NoEvidenceSentinel = "No relevant evidence found"

// Excerpt is a verbatim quote from a source document backing an answer.
type Excerpt struct {
	FileName   string `json:"fileName,omitempty"`
	Quote      string `json:"quote"`
	PageNumber int    `json:"pageNumber,omitempty"`
	Relevance  string `json:"relevance,omitempty"`
	Label      string `json:"label,omitempty"`
}

// AnalysisResult is the immutable output of one assessment run.
type AnalysisResult struct {
	Answers           map[string]string    `json:"answers"`
	ConfidenceScores  map[string]float64   `json:"confidenceScores"`
	Reasoning         map[string]string    `json:"reasoning"`
	DocumentExcerpts  map[string][]Excerpt `json:"documentExcerpts"`
	OverallAnalysis   string               `json:"overallAnalysis"`
	RiskFactors       []string             `json:"riskFactors"`
	Recommendations   []string             `json:"recommendations"`
	RiskScore         int                  `json:"riskScore"`
	RiskLevel         RiskLevel            `json:"riskLevel"`
	DocumentsAnalyzed int                  `json:"documentsAnalyzed"`
	AIProvider        string               `json:"aiProvider"`
	AnalysisDate      time.Time            `json:"analysisDate"`
	// IngestionIssues carries per-file extraction problems so callers can
	// distinguish "fix your document" from "fix the provider config".
	IngestionIssues map[string][]string `json:"ingestionIssues,omitempty"`
}

// AssessmentRun is the persisted record of one pipeline invocation.
type AssessmentRun struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	CompanyName    string          `json:"companyName"`
	ProductName    string          `json:"productName,omitempty"`
	AssessmentType string          `json:"assessmentType"`
	Provider       string          `json:"provider"`
	Model          string          `json:"model,omitempty"`
	PromptHash     string          `json:"-"`
	Status         string          `json:"status"`
	Result         *AnalysisResult `json:"result,omitempty"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}
