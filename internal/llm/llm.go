// Package llm abstracts the external generative-AI provider used to answer
// assessment questions against uploaded documents.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"riskassess-backend/internal/questions"
)

// ErrNotConfigured is returned before any network call when the provider has
// no credentials. Callers surface it as a configuration error with a
// remediation hint.
var ErrNotConfigured = errors.New("AI provider not configured: set GOOGLE_AI_API_KEY")

// Client abstracts the provider for assessment analysis. One request covers
// the whole run: all questions and all documents go into a single call.
type Client interface {
	AnalyzeAssessment(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
	Status() ProviderStatus
}

// InputDocument is one document included in an analysis request. Either Text
// (extracted content) or PDFData (raw payload for providers that accept
// binary PDFs) is set, never both.
type InputDocument struct {
	FileName string
	Label    string
	Text     string
	PDFData  []byte
}

// AnalyzeInput captures everything the provider needs for one assessment run.
type AnalyzeInput struct {
	CompanyName    string
	ProductName    string
	AssessmentType string
	Questions      []questions.Question
	Documents      []InputDocument
}

// ProviderStatus is the per-provider health snapshot exposed for diagnostics.
type ProviderStatus struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	Configured bool   `json:"configured"`
	Working    bool   `json:"working"`
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(fixJSONKey{}).(string)
	return raw, ok
}

type promptHashKey struct{}

// WithPromptHashCapture returns a context that asks the client to write the
// hash of the final prompt into sink.
func WithPromptHashCapture(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, promptHashKey{}, sink)
}

// PromptHashSinkFromContext returns the prompt-hash sink, if any.
func PromptHashSinkFromContext(ctx context.Context) (*string, bool) {
	sink, ok := ctx.Value(promptHashKey{}).(*string)
	return sink, ok
}

// PlaceholderClient is used when no provider is configured. It fails fast
// without touching the network.
type PlaceholderClient struct{}

// AnalyzeAssessment returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeAssessment(ctx context.Context, input AnalyzeInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}

// Status reports the provider as unconfigured.
func (PlaceholderClient) Status() ProviderStatus {
	return ProviderStatus{Name: "google", Configured: false, Working: false}
}
