package ingest

// Extraction methods recorded on ExtractionResult.
const (
	MethodDirect       = "direct"
	MethodDirectUpload = "direct-upload"
	MethodPDFParser    = "pdf-parser"
	MethodPatternMatch = "pattern-match"
	MethodNone         = "none"
)

// Document is an uploaded file handed to the ingestor.
type Document struct {
	FileName string
	MimeType string
	Label    string
	Data     []byte
}

// Metadata captures structural signals observed in a PDF byte stream.
type Metadata struct {
	HasTextLayer     bool `json:"hasTextLayer"`
	HasEmbeddedFonts bool `json:"hasEmbeddedFonts"`
	HasImages        bool `json:"hasImages"`
	HasCompression   bool `json:"hasCompression"`
}

// ExtractionResult is the outcome of ingesting a single document.
// When Success is false, Text is always empty and Issues explains why.
type ExtractionResult struct {
	Success    bool     `json:"success"`
	Method     string   `json:"method"`
	Confidence float64  `json:"confidence"`
	Text       string   `json:"extractedText"`
	Issues     []string `json:"issues,omitempty"`
	Metadata   Metadata `json:"metadata"`
}

func failure(meta Metadata, issues ...string) ExtractionResult {
	return ExtractionResult{
		Success:  false,
		Method:   MethodNone,
		Issues:   issues,
		Metadata: meta,
	}
}
