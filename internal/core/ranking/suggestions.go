package ranking

import (
	"sort"

	"github.com/agenthands/kgevidence/internal/core/model"
)

// RankSuggestions orders web-scored suggestions by count desc then confidence desc,
// keeping input order for ties, and truncates to k.
func RankSuggestions(in []model.Suggestion, k int) []model.Suggestion {
	out := append([]model.Suggestion(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return confidence(out[i]) > confidence(out[j])
	})
	if k < 0 {
		k = 0
	}
	if len(out) > k {
		out = out[:k]
	}
	if out == nil {
		out = []model.Suggestion{}
	}
	return out
}

func confidence(s model.Suggestion) float64 {
	if s.Confidence == nil {
		return 0
	}
	return *s.Confidence
}
