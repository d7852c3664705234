package assessments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"riskassess-backend/internal/shared/server/middleware"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, w.Body.String())
	}
	return out
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in %s", w.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestRunAssessmentEndpoint(t *testing.T) {
	client := &fakeLLM{
		configured: true,
		raw: json.RawMessage(`{
			"answers": {
				"sec-pentest": {"answer": "yes", "confidence": 0.9}
			},
			"overallAnalysis": "ok"
		}`),
	}
	svc, store, docRepo, _ := newTestService(t, client)
	doc := uploadTestDocument(t, store, docRepo, "user-1", "soc2.txt", "We perform quarterly penetration tests.")
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/api/v1/assessments", "user-1",
		`{"companyName":"Acme Corp","documents":[{"id":"`+doc.ID+`"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["status"] != string(StatusCompleted) {
		t.Fatalf("run status = %v", body["status"])
	}
	if body["id"] == "" || body["id"] == nil {
		t.Fatalf("missing run id: %s", w.Body.String())
	}
	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("missing result: %s", w.Body.String())
	}
	if _, ok := result["riskScore"]; !ok {
		t.Fatalf("result has no riskScore: %v", result)
	}
	if body["riskColor"] == nil {
		t.Fatalf("missing riskColor: %s", w.Body.String())
	}
}

func TestRunAssessmentRequiresIdentity(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeLLM{configured: true})
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/api/v1/assessments", "", `{"companyName":"Acme"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRunAssessmentValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeLLM{configured: true})
	r := newTestRouter(svc)

	// Missing documents.
	w := doRequest(t, r, http.MethodPost, "/api/v1/assessments", "user-1", `{"companyName":"Acme"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if code := errorCodeOf(t, w); code != "validation_error" {
		t.Fatalf("code = %q", code)
	}

	// Malformed JSON.
	w = doRequest(t, r, http.MethodPost, "/api/v1/assessments", "user-1", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRunAssessmentUnconfiguredProviderReturns503(t *testing.T) {
	client := &fakeLLM{configured: false}
	svc, store, docRepo, _ := newTestService(t, client)
	doc := uploadTestDocument(t, store, docRepo, "user-1", "soc2.txt", "We perform quarterly penetration tests.")
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/api/v1/assessments", "user-1",
		`{"companyName":"Acme","documents":[{"id":"`+doc.ID+`"}]}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if code := errorCodeOf(t, w); code != "provider_not_configured" {
		t.Fatalf("code = %q", code)
	}
	if client.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", client.calls)
	}
}

func TestGetAssessmentScopedToOwner(t *testing.T) {
	client := &fakeLLM{
		configured: true,
		raw:        json.RawMessage(`{"answers":{"sec-pentest":{"answer":"yes","confidence":0.9}}}`),
	}
	svc, store, docRepo, _ := newTestService(t, client)
	doc := uploadTestDocument(t, store, docRepo, "user-1", "soc2.txt", "We perform quarterly penetration tests.")

	run, err := svc.Run(context.Background(), RunRequest{
		UserID:      "user-1",
		CompanyName: "Acme",
		Documents:   []DocumentRef{{ID: doc.ID}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/assessments/"+run.ID, "user-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("owner fetch status = %d, body %s", w.Code, w.Body.String())
	}

	// Another user must not see the run, and must not learn it exists.
	w = doRequest(t, r, http.MethodGet, "/api/v1/assessments/"+run.ID, "user-2", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user fetch status = %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/assessments/does-not-exist", "user-1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing run status = %d", w.Code)
	}
}

func TestListAssessments(t *testing.T) {
	client := &fakeLLM{
		configured: true,
		raw:        json.RawMessage(`{"answers":{"sec-pentest":{"answer":"yes","confidence":0.9}}}`),
	}
	svc, store, docRepo, _ := newTestService(t, client)
	doc := uploadTestDocument(t, store, docRepo, "user-1", "soc2.txt", "We perform quarterly penetration tests.")

	for i := 0; i < 2; i++ {
		if _, err := svc.Run(context.Background(), RunRequest{
			UserID:      "user-1",
			CompanyName: "Acme",
			Documents:   []DocumentRef{{ID: doc.ID}},
		}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/assessments", "user-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	items, ok := body["assessments"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("assessments = %v", body["assessments"])
	}
	first, _ := items[0].(map[string]any)
	if first["riskScore"] == nil || first["riskLevel"] == nil {
		t.Fatalf("completed items should carry score and level: %v", first)
	}

	// Other users see an empty list.
	w = doRequest(t, r, http.MethodGet, "/api/v1/assessments", "user-2", "")
	body = decodeBody(t, w)
	if items, _ := body["assessments"].([]any); len(items) != 0 {
		t.Fatalf("user-2 should see no runs, got %v", items)
	}
}

func TestListAssessmentTypes(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeLLM{configured: true})
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/assessments/types", "user-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	types, ok := body["types"].([]any)
	if !ok || len(types) == 0 {
		t.Fatalf("types = %v", body["types"])
	}
	found := false
	for _, v := range types {
		if v == "security" {
			found = true
		}
	}
	if !found {
		t.Fatalf("security type missing from %v", types)
	}
}
