package candidates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/logger"
)

func TestGenerate_FromLLM(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "```json\n" + `{
		"candidates": [
			{"relation": "REDUCES", "tail": "Inflammation"},
			{"relation": " reduces ", "tail": "inflammation"},
			{"relation": "PROTECTS", "tail": "Curcumin"},
			{"relation": "", "tail": "Liver"},
			{"relation": "PROTECTS", "tail": " Liver "}
		]
	}` + "\n```"}
	g := NewGenerator(logger.Nop(), 0)

	got := g.Generate(context.Background(), mockLLM, "Curcumin", []string{"REDUCES", "PROTECTS"})

	assert.Equal(t, []model.Candidate{
		{Relation: "REDUCES", Tail: "Inflammation"},
		{Relation: "PROTECTS", Tail: "Liver"},
	}, got)
	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], `"Curcumin"`)
	assert.Contains(t, mockLLM.Prompts[0], "Only use these relation codes: REDUCES, PROTECTS.")
}

func TestGenerate_Limit(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"candidates": [
		{"relation": "A", "tail": "1"}, {"relation": "A", "tail": "2"}, {"relation": "A", "tail": "3"}
	]}`}

	got := NewGenerator(nil, 2).Generate(context.Background(), mockLLM, "X", nil)

	assert.Len(t, got, 2)
	assert.NotContains(t, mockLLM.Prompts[0], "Only use these relation codes")
}

func TestGenerate_FallbackWithoutClient(t *testing.T) {
	got := NewGenerator(nil, 0).Generate(context.Background(), nil, "Curcumin", nil)

	assert.Equal(t, Heuristic("curcumin"), got)
}

func TestGenerate_FallbackOnFailure(t *testing.T) {
	cases := map[string]*MockLLMClient{
		"error":       {Err: errors.New("429 rate limited")},
		"unparseable": {Response: "I cannot help with that."},
		"empty":       {Response: `{"candidates": []}`},
	}
	for name, mockLLM := range cases {
		t.Run(name, func(t *testing.T) {
			log, logs := logger.NewObserved()

			got := NewGenerator(log, 0).Generate(context.Background(), mockLLM, "Omega-3 fatty acids", nil)

			assert.Equal(t, Heuristic("omega-3"), got)
			assert.Equal(t, 1, logs.FilterMessage("candidate generation failed, using heuristic seeds").Len())
		})
	}
}

func TestHeuristic(t *testing.T) {
	curcumin := Heuristic("Curcumin")
	require.NotEmpty(t, curcumin)
	assert.Equal(t, model.Candidate{Relation: "REDUCES", Tail: "Inflammation"}, curcumin[0])

	assert.Equal(t, curcumin, Heuristic("Turmeric extract"))
	assert.Equal(t, Heuristic("omega-3"), Heuristic("Fish oil"))
	assert.Equal(t, "Bone health", Heuristic("Vitamin D3")[0].Tail)
	assert.Equal(t, "Blood pressure", Heuristic("Aerobic exercise")[0].Tail)
	assert.Equal(t, defaultSeeds, Heuristic("Quercetin"))

	// callers may modify the result
	curcumin[0].Tail = "changed"
	assert.Equal(t, "Inflammation", Heuristic("curcumin")[0].Tail)
}
