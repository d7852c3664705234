package main

// Exercise the assessment pipeline against local files without the HTTP
// surface:
//   go run ./cmd/assesstest -company "Acme" -type security soc2.pdf policy.txt

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"riskassess-backend/internal/assessments"
	"riskassess-backend/internal/ingest"
	"riskassess-backend/internal/llm"
	"riskassess-backend/internal/llm/google"
	"riskassess-backend/internal/questions"
	"riskassess-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	company := flag.String("company", "", "Company under assessment")
	product := flag.String("product", "", "Product under assessment (optional)")
	assessType := flag.String("type", "security", "Assessment type")
	model := flag.String("model", cfg.GoogleAIModel, "Provider model")
	directPDF := flag.Bool("direct-pdf", cfg.GoogleAIDirectPDF, "Send PDFs to the provider without local extraction")
	extractOnly := flag.Bool("extract-only", false, "Run ingestion only and print extraction results")
	outPath := flag.String("out", "", "Path to write the result JSON (optional)")
	flag.Parse()

	if strings.TrimSpace(*company) == "" && !*extractOnly {
		exitErr("company is required")
	}
	if flag.NArg() == 0 {
		exitErr("at least one document path is required")
	}

	qs, err := questions.Catalog(*assessType)
	if err != nil {
		exitErr(err.Error())
	}

	docs := make([]ingest.Document, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			exitErr(fmt.Sprintf("read %s: %v", path, err))
		}
		name := filepath.Base(path)
		docs = append(docs, ingest.Document{
			FileName: name,
			MimeType: ingest.NormalizeMimeType("", name),
			Data:     data,
		})
	}

	pipeline := ingest.NewPipeline()
	pipeline.ProviderAcceptsPDF = *directPDF

	ctx := context.Background()
	results, err := pipeline.IngestAll(ctx, docs)
	if err != nil {
		exitErr(fmt.Sprintf("ingest: %v", err))
	}

	if *extractOnly {
		writeOut(*outPath, results)
		return
	}

	inputDocs := make([]llm.InputDocument, 0, len(docs))
	for i, res := range results {
		for _, issue := range res.Issues {
			fmt.Fprintf(os.Stderr, "%s: %s\n", docs[i].FileName, issue)
		}
		if !res.Success {
			continue
		}
		input := llm.InputDocument{FileName: docs[i].FileName}
		if res.Method == ingest.MethodDirectUpload {
			input.PDFData = docs[i].Data
		} else {
			input.Text = res.Text
		}
		inputDocs = append(inputDocs, input)
	}
	if len(inputDocs) == 0 {
		exitErr("no readable text in any document")
	}

	client, err := google.NewClient(cfg.GoogleAIAPIKey, *model, *directPDF)
	if err != nil {
		exitErr(err.Error())
	}

	raw, err := client.AnalyzeAssessment(ctx, llm.AnalyzeInput{
		CompanyName:    *company,
		ProductName:    *product,
		AssessmentType: *assessType,
		Questions:      qs,
		Documents:      inputDocs,
	})
	if err != nil {
		exitErr(fmt.Sprintf("provider analyze: %v", err))
	}

	result, err := assessments.ParseResult(raw, qs)
	if err != nil {
		exitErr(fmt.Sprintf("provider response: %v", err))
	}

	fmt.Printf("risk score: %d (%s)\n", result.RiskScore, result.RiskLevel)
	writeOut(*outPath, result)
}

func writeOut(path string, payload any) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("marshal result: %v", err))
	}
	if strings.TrimSpace(path) == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		exitErr(fmt.Sprintf("write %s: %v", path, err))
	}
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
