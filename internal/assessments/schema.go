package assessments

// Provider response schema:
// {
//   "answers": {
//     "<questionId>": {
//       "answer": "string",
//       "confidence": "number (0-1)",
//       "reasoning": "string",
//       "evidence": [
//         {"fileName": "string", "quote": "string", "pageNumber": "number?"}
//       ]
//     }
//   },
//   "overallAnalysis": "string",
//   "riskFactors": ["string"],
//   "recommendations": ["string"]
// }
//
// The shape is validated defensively: every field may be missing or of the
// wrong type in practice, and per-question gaps degrade to "unknown" rather
// than failing the run.
type providerResponse struct {
	Answers         map[string]providerAnswer `json:"answers"`
	OverallAnalysis string                    `json:"overallAnalysis"`
	RiskFactors     []string                  `json:"riskFactors"`
	Recommendations []string                  `json:"recommendations"`
}

type providerAnswer struct {
	Answer     string             `json:"answer"`
	Confidence float64            `json:"confidence"`
	Reasoning  string             `json:"reasoning"`
	Evidence   []providerEvidence `json:"evidence"`
}

type providerEvidence struct {
	FileName   string `json:"fileName"`
	Quote      string `json:"quote"`
	PageNumber int    `json:"pageNumber,omitempty"`
}
