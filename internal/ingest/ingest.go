// Package ingest turns uploaded files into text the analysis pipeline can use.
// Text-based formats pass through verbatim; PDFs go through a chain of
// extraction strategies so a higher-fidelity parser can be swapped in without
// touching callers.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

const mimePDF = "application/pdf"

var textMimeTypes = map[string]struct{}{
	"text/plain":       {},
	"text/markdown":    {},
	"text/csv":         {},
	"application/json": {},
	"text/html":        {},
	"application/xml":  {},
	"text/xml":         {},
}

var legacyOfficeMimeTypes = map[string]string{
	"application/msword":            "doc",
	"application/vnd.ms-excel":      "xls",
	"application/vnd.ms-powerpoint": "ppt",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
}

var extensionMimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".html": "text/html",
	".htm":  "text/html",
	".xml":  "application/xml",
	".pdf":  mimePDF,
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// Extractor is a single PDF extraction strategy.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, doc Document) (ExtractionResult, error)
}

// Pipeline ingests documents by MIME type, trying PDF strategies in order.
type Pipeline struct {
	// PDFExtractors are attempted in order; the first successful result wins.
	PDFExtractors []Extractor
	// ProviderAcceptsPDF short-circuits extraction entirely: the raw bytes
	// are handed to the AI provider and extraction is skipped.
	ProviderAcceptsPDF bool
}

// NewPipeline builds the default pipeline: structured parser first, byte
// pattern scan as fallback.
func NewPipeline() *Pipeline {
	return &Pipeline{
		PDFExtractors: []Extractor{LibraryPDF{}, PatternPDF{}},
	}
}

// Ingest produces an ExtractionResult for one document. Malformed input is
// reported through the result, never as an error; the error return is
// reserved for context cancellation.
func (p *Pipeline) Ingest(ctx context.Context, doc Document) (ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, err
	}

	mime := NormalizeMimeType(doc.MimeType, doc.FileName)

	if ext, ok := legacyOfficeMimeTypes[mime]; ok {
		return failure(Metadata{}, fmt.Sprintf("unsupported format .%s: convert the file to PDF or a plain-text format (txt, md, csv, json, html, xml) and re-upload", ext)), nil
	}

	if _, ok := textMimeTypes[mime]; ok {
		return p.ingestText(doc), nil
	}

	if mime == mimePDF {
		return p.ingestPDF(ctx, doc)
	}

	return failure(Metadata{}, fmt.Sprintf("unsupported mime type %q: accepted types are pdf, txt, md, csv, json, html, xml", mime)), nil
}

// IngestAll extracts every document concurrently. Per-file extraction is
// independent, so order of results matches the order of inputs.
func (p *Pipeline) IngestAll(ctx context.Context, docs []Document) ([]ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]ExtractionResult, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Ingest(ctx, docs[i])
			if err != nil {
				res = failure(Metadata{}, fmt.Sprintf("extraction aborted: %v", err))
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	return results, ctx.Err()
}

func (p *Pipeline) ingestText(doc Document) ExtractionResult {
	text := string(bytes.TrimPrefix(doc.Data, []byte{0xEF, 0xBB, 0xBF}))
	result := ExtractionResult{
		Success:    true,
		Method:     MethodDirect,
		Confidence: 1.0,
		Text:       text,
	}
	if !utf8.ValidString(text) {
		result.Text = strings.ToValidUTF8(text, "�")
		result.Confidence = 0.8
		result.Issues = append(result.Issues, "file contained invalid UTF-8 sequences; they were replaced")
	}
	return result
}

func (p *Pipeline) ingestPDF(ctx context.Context, doc Document) (ExtractionResult, error) {
	if !bytes.HasPrefix(doc.Data, []byte("%PDF-")) {
		return failure(Metadata{}, "file does not start with a %PDF signature; it may be corrupted or mislabeled"), nil
	}

	meta := classifyPDF(doc.Data)

	if p.ProviderAcceptsPDF {
		return ExtractionResult{
			Success:    true,
			Method:     MethodDirectUpload,
			Confidence: 1.0,
			Metadata:   meta,
		}, nil
	}

	var issues []string
	for _, ex := range p.PDFExtractors {
		if err := ctx.Err(); err != nil {
			return ExtractionResult{}, err
		}
		res, err := ex.Extract(ctx, doc)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", ex.Name(), err))
			continue
		}
		if res.Success && strings.TrimSpace(res.Text) != "" {
			res.Metadata = meta
			res.Issues = append(issues, res.Issues...)
			return res, nil
		}
		issues = append(issues, res.Issues...)
	}

	issues = append(issues, classificationIssues(meta)...)
	return failure(meta, dedupe(issues)...), nil
}

func classificationIssues(meta Metadata) []string {
	var issues []string
	if !meta.HasTextLayer && meta.HasImages {
		issues = append(issues, "possible image-only/scanned PDF: no text layer found, only image objects")
	} else if !meta.HasTextLayer {
		issues = append(issues, "no text layer detected in PDF")
	}
	if meta.HasCompression {
		issues = append(issues, "compressed stream not decoded: text may live inside FlateDecode streams")
	}
	if len(issues) == 0 {
		issues = append(issues, "no extractable text found in PDF")
	}
	return issues
}

// NormalizeMimeType lowers and strips parameters from a declared MIME type,
// falling back to the file extension when the declaration is generic.
func NormalizeMimeType(mimeType, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "", "application/octet-stream", "binary/octet-stream":
		if mapped, ok := extensionMimeTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
			return mapped
		}
	}
	return clean
}

// Accepted reports whether the pipeline supports the given MIME type at all.
func Accepted(mimeType, fileName string) bool {
	mime := NormalizeMimeType(mimeType, fileName)
	if mime == mimePDF {
		return true
	}
	_, ok := textMimeTypes[mime]
	return ok
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
