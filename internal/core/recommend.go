package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/kgevidence/internal/core/candidates"
	"github.com/agenthands/kgevidence/internal/core/evidence"
	"github.com/agenthands/kgevidence/internal/core/graph"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/core/ranking"
	"github.com/agenthands/kgevidence/internal/core/relation"
	"github.com/agenthands/kgevidence/internal/llm"
	"github.com/agenthands/kgevidence/internal/logger"
)

const (
	DefaultK          = 5
	DefaultPerTypeCap = 2
	minPoolLimit      = 30
	maxPoolLimit      = 5000
	poolFactor        = 6
)

type RecommendRequest struct {
	Head        string
	K           int
	Direction   string
	Whitelist   []string
	PerTypeCap  int
	Exclude     []string
	Credentials Credentials
}

// Recommender proposes at most K suggestions for a head entity.
type Recommender interface {
	Recommend(ctx context.Context, req RecommendRequest) ([]model.Suggestion, error)
}

// GraphRecommender picks type-diverse 1-hop neighbours from the graph.
type GraphRecommender struct {
	graph      GraphStore
	normalizer *relation.Normalizer
}

func NewGraphRecommender(graph GraphStore, normalizer *relation.Normalizer) *GraphRecommender {
	return &GraphRecommender{graph: graph, normalizer: normalizer}
}

func (r *GraphRecommender) Recommend(ctx context.Context, req RecommendRequest) ([]model.Suggestion, error) {
	direction := strings.ToLower(strings.TrimSpace(req.Direction))
	switch direction {
	case "":
		direction = graph.DirectionAny
	case graph.DirectionAny, graph.DirectionOut, graph.DirectionIn:
	default:
		return nil, NewValidationError("direction must be one of out, in, any")
	}
	if req.K <= 0 {
		return []model.Suggestion{}, nil
	}

	rows, err := r.graph.Neighbors(ctx, graph.NeighborQuery{
		Head:      req.Head,
		Direction: direction,
		Whitelist: normalizeCodes(r.normalizer, req.Whitelist),
		Exclude:   lowerAll(req.Exclude),
		Limit:     poolLimit(req.K),
	})
	if err != nil {
		return nil, err
	}

	picked := ranking.Diversify(rows, req.K, req.PerTypeCap)
	out := make([]model.Suggestion, 0, len(picked))
	for _, row := range picked {
		tailTypes := row.TailLabels
		if len(tailTypes) == 0 {
			tailTypes = []string{"Entity"}
		}
		out = append(out, model.Suggestion{
			Text:     suggestionText(row.HeadName, row.TailName),
			Head:     model.EntityRef{ID: "neo4j:" + row.HeadID, Name: row.HeadName, Types: []string{"Entity"}},
			Relation: model.RelationRef{Type: row.Relation, Direction: arrow(row.Direction)},
			Tail:     model.EntityRef{ID: "neo4j:" + row.TailID, Name: row.TailName, Types: tailTypes},
			Count:    row.Evidence,
			Source:   model.SourceOneHop,
		})
	}
	return out, nil
}

// poolLimit is max(6k, 30), bounded so a huge k cannot overflow or flood the query.
func poolLimit(k int) int {
	if k > maxPoolLimit/poolFactor {
		return maxPoolLimit
	}
	return max(k*poolFactor, minPoolLimit)
}

// SearchRecommender scores LLM or heuristic candidates with one web query each.
type SearchRecommender struct {
	aggregator *evidence.Aggregator
	normalizer *relation.Normalizer
	generator  *candidates.Generator
	llms       ClientFactory
	searchers  SearcherFactory
	limit      int
	log        *logger.Logger
}

func NewSearchRecommender(
	aggregator *evidence.Aggregator,
	normalizer *relation.Normalizer,
	generator *candidates.Generator,
	llms ClientFactory,
	searchers SearcherFactory,
	limit int,
	log *logger.Logger,
) *SearchRecommender {
	if limit <= 0 {
		limit = DefaultScoringLimit
	}
	return &SearchRecommender{
		aggregator: aggregator,
		normalizer: normalizer,
		generator:  generator,
		llms:       llms,
		searchers:  searchers,
		limit:      limit,
		log:        log.With("strategy", StrategySearch),
	}
}

type scoredCandidate struct {
	code string
	tail string
}

func (r *SearchRecommender) Recommend(ctx context.Context, req RecommendRequest) ([]model.Suggestion, error) {
	if req.Credentials.SearchKey == "" {
		return nil, NewValidationError("x-serper-key header is required for search recommendations")
	}
	if req.K <= 0 {
		return []model.Suggestion{}, nil
	}
	searcher := r.searchers(req.Credentials.SearchKey)
	whitelist := normalizeCodes(r.normalizer, req.Whitelist)

	client := r.client(ctx, req.Credentials.LLM)
	if client != nil {
		defer func() { _ = llm.Close(client) }()
	}
	proposed := r.generator.Generate(ctx, client, req.Head, whitelist)
	picked := r.filter(proposed, req.Head, whitelist, req.Exclude)

	out := make([]model.Suggestion, len(picked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, c := range picked {
		g.Go(func() error {
			ev := r.aggregator.ScorePair(gctx, searcher, req.Head, relation.Phrase(c.code), c.tail)
			out[i] = webSuggestion(req.Head, c, ev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ranking.RankSuggestions(out, req.K), nil
}

func (r *SearchRecommender) client(ctx context.Context, creds llm.Credentials) llm.LLMClient {
	if r.llms == nil {
		return nil
	}
	client, err := r.llms.NewClient(ctx, creds)
	if err != nil {
		if !errors.Is(err, llm.ErrNoProvider) {
			r.log.Warn("failed to create llm client", "error", err)
		}
		return nil
	}
	return client
}

// filter normalizes relations, applies whitelist and exclude, and drops self-loops and
// duplicates while keeping the proposal order.
func (r *SearchRecommender) filter(in []model.Candidate, head string, whitelist, exclude []string) []scoredCandidate {
	allowed := toSet(whitelist)
	excluded := toSet(lowerAll(exclude))
	h := strings.ToLower(strings.TrimSpace(head))

	seen := make(map[string]bool, len(in))
	out := make([]scoredCandidate, 0, len(in))
	for _, c := range in {
		code := r.normalizer.Normalize(c.Relation)
		tail := strings.TrimSpace(c.Tail)
		lt := strings.ToLower(tail)
		if code == "" || tail == "" || lt == h || excluded[lt] {
			continue
		}
		if len(allowed) > 0 && !allowed[code] {
			continue
		}
		key := code + "||" + lt
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, scoredCandidate{code: code, tail: tail})
	}
	return out
}

func webSuggestion(head string, c scoredCandidate, ev model.Evidence) model.Suggestion {
	confidence := ev.Confidence
	return model.Suggestion{
		Text:       suggestionText(head, c.tail),
		Head:       model.EntityRef{ID: webID(head), Name: head, Types: []string{"Entity"}},
		Relation:   model.RelationRef{Type: c.code, Direction: "->"},
		Tail:       model.EntityRef{ID: webID(c.tail), Name: c.tail, Types: []string{"Entity"}},
		Count:      ev.Count,
		Source:     model.SourceWeb,
		Confidence: &confidence,
		UIHint:     ev.UIHint,
		Papers:     ev.Papers,
		Sources:    ev.Sources,
	}
}

func suggestionText(head, tail string) string {
	return fmt.Sprintf("Show me more about %s and %s", head, tail)
}

func webID(name string) string {
	return "web:" + strings.ToLower(strings.TrimSpace(name))
}

func arrow(direction string) string {
	if direction == graph.DirectionIn {
		return "<-"
	}
	return "->"
}

func normalizeCodes(n *relation.Normalizer, phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if code := n.Normalize(p); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
