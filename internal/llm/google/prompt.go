package google

import (
	"fmt"
	"strings"

	"riskassess-backend/internal/llm"
)

const (
	systemPromptAnalyze = "You are a third-party risk analyst. Answer every assessment question strictly from the provided documents. " +
		"Respond with JSON only. Never omit keys. For each question return: answer, confidence (0 to 1), reasoning, " +
		"and evidence as verbatim quotes from the documents with the source file name. " +
		"If the documents contain no relevant information for a question, answer \"unknown\" with confidence 0 and an empty evidence list. " +
		"Never invent quotes."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."
)

const responseSchemaText = `{
  "answers": {
    "<questionId>": {
      "answer": "string",
      "confidence": 0.0,
      "reasoning": "string",
      "evidence": [
        {"fileName": "string", "quote": "string", "pageNumber": 0}
      ]
    }
  },
  "overallAnalysis": "string",
  "riskFactors": ["string"],
  "recommendations": ["string"]
}`

// BuildPrompt renders the system instruction and the user prompt for one
// assessment run. The whole question set and every document go into a single
// request; there is no per-question fan-out.
func BuildPrompt(input llm.AnalyzeInput) (system string, user string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Assessment type: %s\n", orUnspecified(input.AssessmentType))
	fmt.Fprintf(&b, "Company under review: %s\n", orUnspecified(input.CompanyName))
	if strings.TrimSpace(input.ProductName) != "" {
		fmt.Fprintf(&b, "Product/service: %s\n", input.ProductName)
	}

	b.WriteString("\nQuestions:\n")
	for _, q := range input.Questions {
		fmt.Fprintf(&b, "- id: %s\n  text: %s\n  type: %s\n", q.ID, q.Text, q.Type)
		if len(q.Options) > 0 {
			fmt.Fprintf(&b, "  options: %s\n", strings.Join(q.Options, " | "))
		}
	}

	b.WriteString("\nDocuments:\n")
	for _, doc := range input.Documents {
		label := doc.Label
		if label == "" {
			label = "Primary"
		}
		if len(doc.PDFData) > 0 {
			fmt.Fprintf(&b, "--- %s (%s, attached as PDF) ---\n", doc.FileName, label)
			continue
		}
		fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n", doc.FileName, label, doc.Text)
	}

	b.WriteString("\nReturn a single JSON object with exactly this shape:\n")
	b.WriteString(responseSchemaText)
	b.WriteString("\nInclude an entry in \"answers\" for every question id listed above.")

	return systemPromptAnalyze, b.String()
}

func fixUserPrompt(raw []byte) string {
	return fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", string(raw))
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}
