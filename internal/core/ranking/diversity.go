// Package ranking selects and orders recommendation suggestions.
package ranking

import (
	"sort"
	"strings"

	"github.com/agenthands/kgevidence/internal/core/model"
)

const fallbackType = "Entity"

var genericLabels = map[string]bool{
	"Entity":  true,
	"Thing":   true,
	"Concept": true,
}

// PrimaryType picks the first non-generic label in sorted order, else the first label,
// else "Entity".
func PrimaryType(labels []string) string {
	if len(labels) == 0 {
		return fallbackType
	}
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	for _, l := range sorted {
		if !genericLabels[l] {
			return l
		}
	}
	return sorted[0]
}

// SortPool orders rows by evidence desc, relation asc, tail name asc and drops repeated
// rows, keeping the first occurrence. Opposite-direction edges between the same pair are
// distinct rows.
func SortPool(rows []model.NeighborRow) []model.NeighborRow {
	out := make([]model.NeighborRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Evidence != b.Evidence {
			return a.Evidence > b.Evidence
		}
		if a.Relation != b.Relation {
			return a.Relation < b.Relation
		}
		return strings.ToLower(a.TailName) < strings.ToLower(b.TailName)
	})
	return out
}

// Diversify picks k rows round-robin across primary tail types, at most perTypeCap per
// type, then fills any remaining slots from the evidence-ordered pool ignoring the cap.
func Diversify(rows []model.NeighborRow, k, perTypeCap int) []model.NeighborRow {
	if k <= 0 {
		return []model.NeighborRow{}
	}
	pool := SortPool(rows)

	queues := make(map[string][]model.NeighborRow)
	for _, r := range pool {
		t := PrimaryType(r.TailLabels)
		queues[t] = append(queues[t], r)
	}
	types := make([]string, 0, len(queues))
	for t := range queues {
		types = append(types, t)
	}
	sort.Strings(types)

	size := min(k, len(pool))
	picked := make([]model.NeighborRow, 0, size)
	used := make(map[string]bool, size)
	taken := make(map[string]int, len(types))

	for len(picked) < k {
		progressed := false
		for _, t := range types {
			if taken[t] >= perTypeCap || len(queues[t]) == 0 {
				continue
			}
			r := queues[t][0]
			queues[t] = queues[t][1:]
			picked = append(picked, r)
			used[r.Key()] = true
			taken[t]++
			progressed = true
			if len(picked) >= k {
				break
			}
		}
		if !progressed {
			break
		}
	}

	for _, r := range pool {
		if len(picked) >= k {
			break
		}
		if used[r.Key()] {
			continue
		}
		picked = append(picked, r)
		used[r.Key()] = true
	}

	return picked
}
