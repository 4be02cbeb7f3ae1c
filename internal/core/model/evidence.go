package model

import "math"

type UIHint string

const (
	UIHintMissing UIHint = "missing"
	UIHintWeak    UIHint = "weak"
	UIHintStrong  UIHint = "strong"
)

const (
	// StrongThreshold is the weighted count at which evidence counts as strong.
	StrongThreshold = 4.0
	// ConfidenceScale is the α in 1 - e^(-w/α).
	ConfidenceScale = 6.0
	// MaxEvidenceItems caps both papers and sources.
	MaxEvidenceItems = 20
)

// Evidence is aggregated web-search support for a triple. The zero value means no evidence.
type Evidence struct {
	WeightedCount float64  `json:"weighted_count"`
	Count         int      `json:"count"`
	Confidence    float64  `json:"confidence"`
	UIHint        UIHint   `json:"ui_hint"`
	Papers        []string `json:"papers"`
	Sources       []string `json:"sources"`
}

// Confidence maps a weighted count onto [0,1).
func Confidence(weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return 1 - math.Exp(-weight/ConfidenceScale)
}

func HintFor(weight float64) UIHint {
	switch {
	case weight <= 0:
		return UIHintMissing
	case weight < StrongThreshold:
		return UIHintWeak
	default:
		return UIHintStrong
	}
}

// NewEvidence derives every score field from the weighted count.
func NewEvidence(weight float64, papers, sources []string) Evidence {
	if weight < 0 {
		weight = 0
	}
	if papers == nil {
		papers = []string{}
	}
	if sources == nil {
		sources = []string{}
	}
	return Evidence{
		WeightedCount: weight,
		Count:         int(math.Round(weight)),
		Confidence:    Confidence(weight),
		UIHint:        HintFor(weight),
		Papers:        papers,
		Sources:       sources,
	}
}

// NoEvidence is a valid result for a triple nothing supports.
func NoEvidence() Evidence {
	return NewEvidence(0, nil, nil)
}
