package google

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"riskassess-backend/internal/llm"
)

const (
	apiURLTemplate = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	defaultModel   = "gemini-1.5-flash"
)

// Client implements llm.Client using the Google Generative Language API.
type Client struct {
	apiKey     string
	model      string
	directPDF  bool
	httpClient *http.Client
}

// NewClient constructs a Gemini client. The API key is required; the model
// defaults to gemini-1.5-flash. directPDF enables sending raw PDF payloads as
// inline parts instead of pre-extracted text.
func NewClient(apiKey, model string, directPDF bool) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, llm.ErrNotConfigured
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_AI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:    apiKey,
		model:     model,
		directPDF: directPDF,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// AcceptsPDF reports whether raw PDF payloads can be sent to the provider
// directly, skipping local extraction.
func (c *Client) AcceptsPDF() bool {
	return c.directPDF
}

// Status reports configuration health for the diagnostics endpoint.
func (c *Client) Status() llm.ProviderStatus {
	configured := strings.TrimSpace(c.apiKey) != ""
	return llm.ProviderStatus{
		Name:       "google",
		Model:      c.model,
		Configured: configured,
		Working:    configured,
	}
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	Temperature      float32 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      generateContent `json:"content"`
		FinishReason string          `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// AnalyzeAssessment sends one generateContent request covering the whole
// question set and every document, and returns the raw JSON answer payload.
func (c *Client) AnalyzeAssessment(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, llm.ErrNotConfigured
	}

	if rawFix, ok := llm.FixJSONFromContext(ctx); ok {
		return c.analyzeFixJSON(ctx, rawFix)
	}

	system, user := BuildPrompt(input)
	raw, err := c.generateOnce(ctx, system, buildUserParts(user, input, c.directPDF))
	if err != nil {
		return nil, err
	}
	if json.Valid(raw) {
		return raw, nil
	}

	raw, err = c.generateOnce(ctx, systemPromptFixJSON, []generatePart{{Text: fixUserPrompt(raw)}})
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid JSON from google provider")
	}
	return raw, nil
}

func (c *Client) analyzeFixJSON(ctx context.Context, raw string) (json.RawMessage, error) {
	fixed, err := c.generateOnce(ctx, systemPromptFixJSON, []generatePart{{Text: fixUserPrompt([]byte(raw))}})
	if err != nil {
		return nil, err
	}
	if !json.Valid(fixed) {
		return nil, fmt.Errorf("invalid JSON from google provider")
	}
	return fixed, nil
}

func buildUserParts(userPrompt string, input llm.AnalyzeInput, directPDF bool) []generatePart {
	parts := []generatePart{{Text: userPrompt}}
	if !directPDF {
		return parts
	}
	for _, doc := range input.Documents {
		if len(doc.PDFData) == 0 {
			continue
		}
		parts = append(parts, generatePart{
			InlineData: &inlineData{
				MimeType: "application/pdf",
				Data:     base64.StdEncoding.EncodeToString(doc.PDFData),
			},
		})
	}
	return parts
}

func (c *Client) generateOnce(ctx context.Context, system string, parts []generatePart) (json.RawMessage, error) {
	if sink, ok := llm.PromptHashSinkFromContext(ctx); ok && sink != nil {
		*sink = hashPrompt(system, parts)
	}

	reqBody := generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: system}}},
		Contents:          []generateContent{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf(apiURLTemplate, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("google provider request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("google provider response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("google provider error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("google provider response missing candidates")
	}

	var content strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}
	text := stripCodeFence(strings.TrimSpace(content.String()))
	if text == "" {
		return nil, fmt.Errorf("google provider response empty content")
	}

	c.logUsage(&parsed)
	return json.RawMessage(text), nil
}

func (c *Client) logUsage(resp *generateResponse) {
	if resp.UsageMetadata == nil {
		log.Printf("llm response provider=google model=%s", c.model)
		return
	}
	log.Printf("llm response provider=google model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		c.model, resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount, resp.UsageMetadata.TotalTokenCount)
}

// stripCodeFence removes a ```json ... ``` wrapper the model sometimes adds
// despite the JSON response MIME type.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func hashPrompt(system string, parts []generatePart) string {
	h := sha256.New()
	h.Write([]byte(system))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p.Text))
		if p.InlineData != nil {
			h.Write([]byte(p.InlineData.Data))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

var _ llm.Client = (*Client)(nil)
