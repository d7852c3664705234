package assessments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"riskassess-backend/internal/llm"
	"riskassess-backend/internal/questions"
	"riskassess-backend/internal/shared/server/middleware"
	"riskassess-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the assessments service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments", h.runAssessment)
	rg.GET("/assessments", h.listAssessments)
	rg.GET("/assessments/:id", h.getAssessment)
	rg.GET("/assessments/types", h.listTypes)
}

type runAssessmentRequest struct {
	CompanyName    string        `json:"companyName"`
	ProductName    string        `json:"productName"`
	AssessmentType string        `json:"assessmentType"`
	Documents      []DocumentRef `json:"documents"`
}

func (h *Handler) runAssessment(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var body runAssessmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req := RunRequest{
		UserID:         userID,
		CompanyName:    body.CompanyName,
		ProductName:    body.ProductName,
		AssessmentType: body.AssessmentType,
		Documents:      body.Documents,
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	run, err := h.Svc.Run(ctx, req)
	if err != nil {
		if run.ID == "" {
			// Pre-flight validation, nothing persisted.
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		status, code := failureStatus(run.ErrorCode, err)
		respond.Error(c, status, code, run.ErrorMessage, gin.H{
			"runId":  run.ID,
			"status": run.Status,
		})
		return
	}

	respond.JSON(c, http.StatusOK, runResponse(run))
}

func (h *Handler) getAssessment(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "assessment id is required", nil)
		return
	}

	run, err := h.Svc.Get(c.Request.Context(), runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch assessment", nil)
		}
		return
	}
	if run.UserID != middleware.UserIDFromContext(c) {
		respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
		return
	}

	respond.JSON(c, http.StatusOK, runResponse(run))
}

func (h *Handler) listAssessments(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	runs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list assessments", nil)
		return
	}

	resp := make([]gin.H, 0, len(runs))
	for _, run := range runs {
		item := gin.H{
			"id":             run.ID,
			"companyName":    run.CompanyName,
			"assessmentType": run.AssessmentType,
			"status":         run.Status,
			"createdAt":      run.CreatedAt,
		}
		if run.Result != nil {
			item["riskScore"] = run.Result.RiskScore
			item["riskLevel"] = run.Result.RiskLevel
		}
		if run.ErrorCode != "" {
			item["errorCode"] = run.ErrorCode
		}
		resp = append(resp, item)
	}
	respond.JSON(c, http.StatusOK, gin.H{"assessments": resp})
}

func (h *Handler) listTypes(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"types": questions.AssessmentTypes()})
}

func runResponse(run AssessmentRun) gin.H {
	resp := gin.H{
		"id":             run.ID,
		"companyName":    run.CompanyName,
		"assessmentType": run.AssessmentType,
		"provider":       run.Provider,
		"status":         run.Status,
		"createdAt":      run.CreatedAt,
	}
	if run.ProductName != "" {
		resp["productName"] = run.ProductName
	}
	if run.Model != "" {
		resp["model"] = run.Model
	}
	if run.Result != nil {
		resp["result"] = run.Result
		resp["riskColor"] = run.Result.RiskLevel.Color()
	}
	if run.CompletedAt != nil {
		resp["completedAt"] = run.CompletedAt
	}
	if run.ErrorCode != "" {
		resp["errorCode"] = run.ErrorCode
		resp["errorMessage"] = run.ErrorMessage
	}
	return resp
}

// failureStatus maps a persisted failure code onto an HTTP status and the
// wire-level error code.
func failureStatus(errorCode string, err error) (int, string) {
	if errors.Is(err, llm.ErrNotConfigured) {
		return http.StatusServiceUnavailable, "provider_not_configured"
	}
	switch errorCode {
	case ErrorCodeValidation:
		return http.StatusBadRequest, "validation_error"
	case ErrorCodeProviderNotConfigured:
		return http.StatusServiceUnavailable, "provider_not_configured"
	case ErrorCodeProviderTimeout:
		return http.StatusGatewayTimeout, "provider_timeout"
	case ErrorCodeProviderResponseInvalid:
		return http.StatusBadGateway, "provider_response_invalid"
	case ErrorCodeIngestion:
		return http.StatusUnprocessableEntity, "ingestion_failed"
	case ErrorCodeStorage:
		return http.StatusInternalServerError, "storage_error"
	}
	return http.StatusInternalServerError, "internal_error"
}
