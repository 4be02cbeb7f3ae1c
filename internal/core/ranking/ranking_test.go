package ranking

import (
	"fmt"
	"testing"

	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(tail, relation string, evidence int, labels ...string) model.NeighborRow {
	return model.NeighborRow{
		HeadID:     "h",
		HeadName:   "Curcumin",
		TailID:     "id-" + tail,
		TailName:   tail,
		Relation:   relation,
		Direction:  "out",
		TailLabels: labels,
		Evidence:   evidence,
	}
}

func names(rows []model.NeighborRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TailName)
	}
	return out
}

func TestPrimaryType(t *testing.T) {
	assert.Equal(t, "Nutrient", PrimaryType([]string{"Entity", "Nutrient"}))
	assert.Equal(t, "Alpha", PrimaryType([]string{"Zeta", "Concept", "Alpha"}))
	assert.Equal(t, "Entity", PrimaryType([]string{"Thing", "Entity"}))
	assert.Equal(t, "Concept", PrimaryType([]string{"Thing", "Concept"}))
	assert.Equal(t, "Entity", PrimaryType(nil))
}

func TestSortPool(t *testing.T) {
	rows := []model.NeighborRow{
		row("beta", "REDUCES", 3, "Disease"),
		row("Alpha", "REDUCES", 3, "Disease"),
		row("gamma", "MODULATES", 3, "Disease"),
		row("delta", "SUPPORTS", 9, "Disease"),
		row("beta", "REDUCES", 3, "Disease"),
	}

	assert.Equal(t, []string{"delta", "gamma", "Alpha", "beta"}, names(SortPool(rows)))
}

func TestDiversify_RoundRobin(t *testing.T) {
	rows := []model.NeighborRow{
		row("d1", "REDUCES", 10, "Entity", "Disease"),
		row("d2", "REDUCES", 9, "Disease"),
		row("d3", "REDUCES", 8, "Disease"),
		row("d4", "REDUCES", 7, "Disease"),
		row("n1", "SUPPORTS", 1, "Nutrient"),
		row("p1", "MODULATES", 2, "Pathway"),
	}

	got := Diversify(rows, 4, 2)

	// types scanned in name order: Disease, Nutrient, Pathway
	assert.Equal(t, []string{"d1", "n1", "p1", "d2"}, names(got))
}

func TestDiversify_FallbackFill(t *testing.T) {
	rows := []model.NeighborRow{
		row("d1", "REDUCES", 10, "Disease"),
		row("d2", "REDUCES", 9, "Disease"),
		row("d3", "REDUCES", 8, "Disease"),
		row("d4", "REDUCES", 7, "Disease"),
		row("n1", "SUPPORTS", 1, "Nutrient"),
	}

	got := Diversify(rows, 4, 1)

	assert.Equal(t, []string{"d1", "n1", "d2", "d3"}, names(got))
}

func TestDiversify_ZeroCapIsPureEvidenceOrder(t *testing.T) {
	rows := []model.NeighborRow{
		row("n1", "SUPPORTS", 1, "Nutrient"),
		row("d1", "REDUCES", 10, "Disease"),
	}

	assert.Equal(t, []string{"d1", "n1"}, names(Diversify(rows, 5, 0)))
}

func TestDiversify_Sizes(t *testing.T) {
	assert.Empty(t, Diversify([]model.NeighborRow{row("a", "R", 1)}, 0, 2))
	assert.Empty(t, Diversify(nil, 3, 2))

	types := []string{"Disease", "Nutrient", "Pathway"}
	for poolSize := 0; poolSize <= 12; poolSize++ {
		var rows []model.NeighborRow
		for i := 0; i < poolSize; i++ {
			rows = append(rows, row(fmt.Sprintf("t%d", i), "R", poolSize-i, types[i%len(types)]))
			// duplicates never count towards k
			rows = append(rows, row(fmt.Sprintf("t%d", i), "R", poolSize-i, types[i%len(types)]))
		}
		for k := 1; k <= 8; k++ {
			for cap := 0; cap <= 3; cap++ {
				got := Diversify(rows, k, cap)
				want := k
				if poolSize < k {
					want = poolSize
				}
				require.Len(t, got, want, "pool=%d k=%d cap=%d", poolSize, k, cap)

				seen := map[string]bool{}
				for _, r := range got {
					assert.False(t, seen[r.Key()], "duplicate triple")
					seen[r.Key()] = true
				}
			}
		}
	}
}

func TestDiversify_HugeK(t *testing.T) {
	rows := []model.NeighborRow{
		row("d1", "REDUCES", 10, "Disease"),
		row("n1", "SUPPORTS", 1, "Nutrient"),
	}

	require.NotPanics(t, func() {
		got := Diversify(rows, 1<<50, 2)
		assert.Equal(t, []string{"d1", "n1"}, names(got))
	})
}

func TestSortPool_KeepsBothDirections(t *testing.T) {
	out := row("Liver", "PROTECTS", 5, "Organ")
	in := out
	in.Direction = "in"

	got := SortPool([]model.NeighborRow{out, in, out})

	require.Len(t, got, 2)
	assert.Equal(t, "out", got[0].Direction)
	assert.Equal(t, "in", got[1].Direction)
	assert.Len(t, Diversify([]model.NeighborRow{out, in}, 5, 1), 2)
}

func TestDiversify_CapHoldsWhenPoolIsDiverse(t *testing.T) {
	var rows []model.NeighborRow
	for i, typ := range []string{"A", "B", "C"} {
		for j := 0; j < 4; j++ {
			rows = append(rows, row(fmt.Sprintf("%s%d", typ, j), "R", 100-i*10-j, typ))
		}
	}

	got := Diversify(rows, 6, 2)

	counts := map[string]int{}
	for _, r := range got {
		counts[PrimaryType(r.TailLabels)]++
	}
	assert.Equal(t, map[string]int{"A": 2, "B": 2, "C": 2}, counts)
}

func TestRankSuggestions(t *testing.T) {
	conf := func(f float64) *float64 { return &f }
	in := []model.Suggestion{
		{Text: "a", Count: 1, Confidence: conf(0.1)},
		{Text: "b", Count: 3, Confidence: conf(0.3)},
		{Text: "c", Count: 3, Confidence: conf(0.4)},
		{Text: "d", Count: 0},
		{Text: "e", Count: 3, Confidence: conf(0.4)},
	}

	got := RankSuggestions(in, 4)

	require.Len(t, got, 4)
	assert.Equal(t, "c", got[0].Text)
	assert.Equal(t, "e", got[1].Text)
	assert.Equal(t, "b", got[2].Text)
	assert.Equal(t, "a", got[3].Text)
	assert.Equal(t, "a", in[0].Text, "input is not reordered")

	assert.Equal(t, []model.Suggestion{}, RankSuggestions(nil, 5))
	assert.Empty(t, RankSuggestions(in, 0))
}
