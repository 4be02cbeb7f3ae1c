// Package core wires graph lookups, web evidence and ranking into the verify and recommend
// workflows.
package core

import (
	"context"
	"errors"
	"strings"

	"github.com/agenthands/kgevidence/internal/core/candidates"
	"github.com/agenthands/kgevidence/internal/core/evidence"
	"github.com/agenthands/kgevidence/internal/core/graph"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/core/relation"
	"github.com/agenthands/kgevidence/internal/llm"
	"github.com/agenthands/kgevidence/internal/logger"
	"github.com/agenthands/kgevidence/internal/search"
)

const (
	StrategyGraph    = "graph"
	StrategySearch   = "search"
	StrategyEvidence = "evidence"

	DefaultScoringLimit = 4
)

// Credentials are the per-request keys. None of them are stored.
type Credentials struct {
	SearchKey string
	LLM       llm.Credentials
}

type GraphStore interface {
	ExactEdge(ctx context.Context, head, relation, tail string) (*model.EdgeEvidence, error)
	AlternateEdge(ctx context.Context, head, relation, tail string) (*model.EdgeEvidence, error)
	TwoHop(ctx context.Context, head, tail string) (*model.Bridge, error)
	Neighbors(ctx context.Context, q graph.NeighborQuery) ([]model.NeighborRow, error)
}

// ErrGraphUnavailable is returned by graph strategies when no graph store is configured.
var ErrGraphUnavailable = errors.New("graph store is not configured")

type unavailableGraph struct{}

func (unavailableGraph) ExactEdge(context.Context, string, string, string) (*model.EdgeEvidence, error) {
	return nil, ErrGraphUnavailable
}

func (unavailableGraph) AlternateEdge(context.Context, string, string, string) (*model.EdgeEvidence, error) {
	return nil, ErrGraphUnavailable
}

func (unavailableGraph) TwoHop(context.Context, string, string) (*model.Bridge, error) {
	return nil, ErrGraphUnavailable
}

func (unavailableGraph) Neighbors(context.Context, graph.NeighborQuery) ([]model.NeighborRow, error) {
	return nil, ErrGraphUnavailable
}

// SearcherFactory binds a search backend to the caller's key.
type SearcherFactory func(apiKey string) evidence.Searcher

type ClientFactory interface {
	NewClient(ctx context.Context, creds llm.Credentials) (llm.LLMClient, error)
}

type Deps struct {
	Graph        GraphStore
	Normalizer   *relation.Normalizer
	Aggregator   *evidence.Aggregator
	Candidates   *candidates.Generator
	LLM          ClientFactory
	Searchers    SearcherFactory
	ScoringLimit int
	Log          *logger.Logger
}

// Engine holds the process-wide services and routes requests to a strategy.
type Engine struct {
	normalizer   *relation.Normalizer
	verifiers    map[string]Verifier
	recommenders map[string]Recommender
	log          *logger.Logger
}

func NewEngine(d Deps) *Engine {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Graph == nil {
		d.Graph = unavailableGraph{}
	}
	if d.Normalizer == nil {
		d.Normalizer = relation.NewNormalizer(relation.Physiological())
	}
	if d.Aggregator == nil {
		d.Aggregator = evidence.NewAggregator(nil, d.Log)
	}
	if d.Searchers == nil {
		d.Searchers = func(apiKey string) evidence.Searcher { return search.NewSerper(apiKey) }
	}
	if d.Candidates == nil {
		d.Candidates = candidates.NewGenerator(d.Log, 0)
	}
	log := d.Log.With("component", "engine")

	return &Engine{
		normalizer: d.Normalizer,
		verifiers: map[string]Verifier{
			StrategyGraph:    NewGraphVerifier(d.Graph, d.Normalizer, log),
			StrategyEvidence: NewEvidenceVerifier(d.Aggregator, d.Normalizer, d.Searchers, d.ScoringLimit),
		},
		recommenders: map[string]Recommender{
			StrategyGraph:  NewGraphRecommender(d.Graph, d.Normalizer),
			StrategySearch: NewSearchRecommender(d.Aggregator, d.Normalizer, d.Candidates, d.LLM, d.Searchers, d.ScoringLimit, log),
		},
		log: log,
	}
}

func (e *Engine) Normalizer() *relation.Normalizer {
	return e.normalizer
}

// Verify runs strategy ("graph" or "evidence"); an empty strategy means evidence when a
// search key is present, else graph. mode must be light, standard, deep or empty.
func (e *Engine) Verify(ctx context.Context, strategy, mode string, rows []TripleRow, creds Credentials) ([]model.VerificationResult, error) {
	m, ok := evidence.ParseMode(mode)
	if !ok {
		return nil, NewValidationError("mode must be one of light, standard, deep")
	}
	name := pickStrategy(strategy, creds.SearchKey != "", StrategyEvidence)
	v, ok := e.verifiers[name]
	if !ok {
		return nil, NewValidationError("unknown verify strategy %q", strategy)
	}
	e.log.Debug("verify", "strategy", name, "mode", m, "rows", len(rows))
	return v.Verify(ctx, VerifyRequest{Rows: rows, Mode: m, Credentials: creds})
}

// Recommend runs strategy ("graph" or "search"); an empty strategy means search when a
// search key is present, else graph.
func (e *Engine) Recommend(ctx context.Context, strategy string, req RecommendRequest) ([]model.Suggestion, error) {
	req.Head = strings.TrimSpace(req.Head)
	if req.Head == "" {
		return nil, NewValidationError("head (node name) is required")
	}
	if req.PerTypeCap < 0 {
		req.PerTypeCap = 0
	}
	name := pickStrategy(strategy, req.Credentials.SearchKey != "", StrategySearch)
	r, ok := e.recommenders[name]
	if !ok {
		return nil, NewValidationError("unknown recommend strategy %q", strategy)
	}
	e.log.Debug("recommend", "strategy", name, "head", req.Head, "k", req.K)
	return r.Recommend(ctx, req)
}

func pickStrategy(requested string, hasSearchKey bool, webStrategy string) string {
	s := strings.ToLower(strings.TrimSpace(requested))
	if s != "" {
		return s
	}
	if hasSearchKey {
		return webStrategy
	}
	return StrategyGraph
}
