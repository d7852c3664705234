package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LibraryPDF extracts text through a structural PDF parser. It handles
// cross-reference tables and FlateDecode streams the pattern scanner cannot,
// so it runs first in the default pipeline.
type LibraryPDF struct{}

func (LibraryPDF) Name() string { return "library-pdf" }

// Extract reads the full text layer via github.com/ledongthuc/pdf. The
// library panics on some malformed inputs, so the call is fenced; a panic is
// reported as an unsuccessful result and the pipeline falls through to the
// pattern scanner.
func (LibraryPDF) Extract(ctx context.Context, doc Document) (result ExtractionResult, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ExtractionResult{}, ctxErr
	}

	defer func() {
		if r := recover(); r != nil {
			result = failure(Metadata{}, fmt.Sprintf("pdf parser failed: %v", r))
			err = nil
		}
	}()

	reader, newErr := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if newErr != nil {
		return failure(Metadata{}, fmt.Sprintf("pdf parser failed: %v", newErr)), nil
	}

	plain, plainErr := reader.GetPlainText()
	if plainErr != nil {
		return failure(Metadata{}, fmt.Sprintf("pdf parser found no text: %v", plainErr)), nil
	}

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, plain); copyErr != nil {
		return failure(Metadata{}, fmt.Sprintf("pdf parser read: %v", copyErr)), nil
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return failure(Metadata{}, "pdf parser produced empty text"), nil
	}

	return ExtractionResult{
		Success:    true,
		Method:     MethodPDFParser,
		Confidence: 0.95,
		Text:       text,
	}, nil
}
