// Package candidates proposes (relation, tail) pairs for a head entity.
package candidates

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/agenthands/kgevidence/internal/core/common"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/llm"
	"github.com/agenthands/kgevidence/internal/logger"
)

const DefaultMaxCandidates = 12

const promptTemplate = `You are a biomedical knowledge-graph curator.
Propose up to %d plausible relations for the head entity "%s".
%s
Each relation must be an uppercase code such as REDUCES, PROTECTS, MODULATES, SUPPORTS,
ASSOCIATED_WITH, MEDIATES or DAMAGES. Each tail must be a concrete biomedical entity
(disease, biomarker, pathway, organ, nutrient) and must not be the head itself.

Respond with JSON only, in this shape:
{"candidates": [{"relation": "REDUCES", "tail": "Inflammation"}]}`

type candidateList struct {
	Candidates []model.Candidate `json:"candidates"`
}

type Generator struct {
	log           *logger.Logger
	maxCandidates int
}

func NewGenerator(log *logger.Logger, maxCandidates int) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Generator{log: log.With("component", "candidates"), maxCandidates: maxCandidates}
}

// Generate asks client for candidates and falls back to the heuristic seeds when client is
// nil, fails, or returns nothing usable. It never returns an empty list.
func (g *Generator) Generate(ctx context.Context, client llm.LLMClient, head string, whitelist []string) []model.Candidate {
	if client == nil {
		return Heuristic(head)
	}
	out, err := g.fromLLM(ctx, client, head, whitelist)
	if err != nil {
		g.log.Warn("candidate generation failed, using heuristic seeds", "head", head, "error", err)
		return Heuristic(head)
	}
	return out
}

func (g *Generator) fromLLM(ctx context.Context, client llm.LLMClient, head string, whitelist []string) ([]model.Candidate, error) {
	response, err := client.Generate(ctx, buildPrompt(head, whitelist, g.maxCandidates))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate candidates")
	}

	parsed, err := common.ParseJSON[candidateList](response)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse candidates")
	}

	out := clean(parsed.Candidates, head, g.maxCandidates)
	if len(out) == 0 {
		return nil, goerr.New("llm returned no usable candidates", goerr.V("head", head))
	}
	return out, nil
}

func buildPrompt(head string, whitelist []string, n int) string {
	constraint := ""
	if len(whitelist) > 0 {
		constraint = fmt.Sprintf("Only use these relation codes: %s.", strings.Join(whitelist, ", "))
	}
	return fmt.Sprintf(promptTemplate, n, head, constraint)
}

// clean trims fields, drops blanks and self-loops, and removes case-insensitive duplicates.
func clean(in []model.Candidate, head string, limit int) []model.Candidate {
	h := strings.ToLower(strings.TrimSpace(head))
	seen := make(map[string]bool, len(in))
	out := make([]model.Candidate, 0, len(in))
	for _, c := range in {
		rel := strings.TrimSpace(c.Relation)
		tail := strings.TrimSpace(c.Tail)
		if rel == "" || tail == "" || strings.ToLower(tail) == h {
			continue
		}
		key := strings.ToLower(rel) + "||" + strings.ToLower(tail)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.Candidate{Relation: rel, Tail: tail})
		if len(out) >= limit {
			break
		}
	}
	return out
}
