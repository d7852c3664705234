package ingest

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// PatternPDF recovers text by scanning the raw byte stream for text-showing
// operators. It is strictly best-effort: it only sees uncompressed content
// streams and approximates the PDF's spacing adjustments as whitespace.
type PatternPDF struct{}

var (
	textBlockRe  = regexp.MustCompile(`(?s)BT(.*?)ET`)
	literalTjRe  = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|')`)
	hexTjRe      = regexp.MustCompile(`<([0-9A-Fa-f\s]+)>\s*Tj`)
	arrayTJRe    = regexp.MustCompile(`\[((?:\\.|[^\[\]\\])*)\]\s*TJ`)
	arrayItemRe  = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)|<([0-9A-Fa-f\s]+)>|(-?\d+(?:\.\d+)?)`)
	imageRe      = regexp.MustCompile(`/Subtype\s*/Image`)
	flateRe      = regexp.MustCompile(`/Filter\s*\[?\s*/FlateDecode`)
	showOpRe     = regexp.MustCompile(`(?:Tj|TJ|')`)
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
)

// Word-spacing adjustments in a TJ array are expressed in thousandths of a
// text-space unit; gaps this large or larger are treated as word breaks.
const wordGapThreshold = 100

func (PatternPDF) Name() string { return "pattern-pdf" }

// Extract scans BT..ET blocks for (..) Tj, [..] TJ and <hex> Tj operands.
func (PatternPDF) Extract(ctx context.Context, doc Document) (ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, err
	}

	var blocks []string
	for _, match := range textBlockRe.FindAllSubmatch(doc.Data, -1) {
		runs := extractRuns(string(match[1]))
		if len(runs) == 0 {
			continue
		}
		block := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.Join(runs, " "), " "))
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	text := strings.Join(blocks, "\n")
	if strings.TrimSpace(text) == "" {
		return failure(Metadata{}, "pattern scan found no text-showing operators"), nil
	}

	return ExtractionResult{
		Success:    true,
		Method:     MethodPatternMatch,
		Confidence: patternConfidence(text),
		Text:       text,
	}, nil
}

func extractRuns(block string) []string {
	var runs []string
	for _, m := range literalTjRe.FindAllStringSubmatch(block, -1) {
		if run := unescapeLiteral(m[1]); run != "" {
			runs = append(runs, run)
		}
	}
	for _, m := range hexTjRe.FindAllStringSubmatch(block, -1) {
		if run := decodeHexString(m[1]); run != "" {
			runs = append(runs, run)
		}
	}
	for _, m := range arrayTJRe.FindAllStringSubmatch(block, -1) {
		if run := decodeTJArray(m[1]); run != "" {
			runs = append(runs, run)
		}
	}
	return runs
}

// decodeTJArray concatenates the string elements of a TJ operand, inserting a
// space wherever the numeric kerning adjustment is large enough to read as a
// word gap.
func decodeTJArray(array string) string {
	var b strings.Builder
	for _, item := range arrayItemRe.FindAllStringSubmatch(array, -1) {
		switch {
		case item[1] != "":
			b.WriteString(unescapeLiteral(item[1]))
		case item[2] != "":
			b.WriteString(decodeHexString(item[2]))
		case item[3] != "":
			if adj, err := strconv.ParseFloat(item[3], 64); err == nil && adj <= -wordGapThreshold {
				b.WriteString(" ")
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func unescapeLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b', 'f':
			// ignore
		case '(', ')', '\\':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i
			for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			if code, err := strconv.ParseUint(s[i:end], 8, 16); err == nil {
				b.WriteRune(rune(code))
			}
			i = end - 1
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func decodeHexString(hex string) string {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, hex)
	if len(clean)%2 != 0 {
		clean += "0"
	}

	raw := make([]byte, 0, len(clean)/2)
	for i := 0; i+1 < len(clean); i += 2 {
		v, err := strconv.ParseUint(clean[i:i+2], 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(v))
	}

	// UTF-16BE with BOM is common for text in hex strings.
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		codes := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			codes = append(codes, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(codes))
	}

	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// patternConfidence grows with the amount of recovered text but never claims
// the certainty of a structural parse.
func patternConfidence(text string) float64 {
	conf := 0.35 + float64(len(text))/2000.0*0.4
	if conf > 0.75 {
		conf = 0.75
	}
	return conf
}

func classifyPDF(data []byte) Metadata {
	hasShowOp := false
	for _, match := range textBlockRe.FindAllSubmatch(data, -1) {
		if showOpRe.Match(match[1]) {
			hasShowOp = true
			break
		}
	}
	return Metadata{
		HasTextLayer:     hasShowOp,
		HasEmbeddedFonts: strings.Contains(string(data), "/FontFile"),
		HasImages:        imageRe.Match(data),
		HasCompression:   flateRe.Match(data),
	}
}
