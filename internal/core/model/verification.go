package model

type Status string

const (
	StatusSupported Status = "supported"
	StatusRelevant  Status = "relevant"
	StatusUnsure    Status = "unsure"
)

// VerificationResult is one row of a verify response. Head, Relation and Tail are nil for
// malformed input rows. Status is empty for evidence-based rows; Confidence and Sources are
// only set by them.
type VerificationResult struct {
	Head       *string  `json:"head"`
	Relation   *string  `json:"relation"`
	Tail       *string  `json:"tail"`
	RelNorm    string   `json:"rel_norm,omitempty"`
	Status     Status   `json:"status,omitempty"`
	Count      int      `json:"count"`
	Papers     []string `json:"papers"`
	UIHint     UIHint   `json:"ui_hint"`
	Confidence *float64 `json:"confidence,omitempty"`
	Sources    []string `json:"sources,omitempty"`
}

// MalformedResult is reported for an input row that is not a 3-element triple.
func MalformedResult() VerificationResult {
	return VerificationResult{
		Status: StatusUnsure,
		Papers: []string{},
		UIHint: UIHintMissing,
	}
}
