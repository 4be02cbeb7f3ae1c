package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/kgevidence/internal/core/evidence"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/core/relation"
	"github.com/agenthands/kgevidence/internal/logger"
)

type VerifyRequest struct {
	Rows        []TripleRow
	Mode        evidence.Mode
	Credentials Credentials
}

// Verifier classifies or scores each row; results are in input order.
type Verifier interface {
	Verify(ctx context.Context, req VerifyRequest) ([]model.VerificationResult, error)
}

// GraphVerifier checks triples against curated edges: exact edge, then any other edge or a
// two-hop bridge, then nothing.
type GraphVerifier struct {
	graph      GraphStore
	normalizer *relation.Normalizer
	log        *logger.Logger
}

func NewGraphVerifier(graph GraphStore, normalizer *relation.Normalizer, log *logger.Logger) *GraphVerifier {
	return &GraphVerifier{graph: graph, normalizer: normalizer, log: log.With("strategy", StrategyGraph)}
}

func (v *GraphVerifier) Verify(ctx context.Context, req VerifyRequest) ([]model.VerificationResult, error) {
	results := make([]model.VerificationResult, 0, len(req.Rows))
	for _, row := range req.Rows {
		if row.Malformed {
			results = append(results, model.MalformedResult())
			continue
		}
		res, err := v.verifyOne(ctx, row.Triple)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (v *GraphVerifier) verifyOne(ctx context.Context, t model.Triple) (model.VerificationResult, error) {
	relNorm := v.normalizer.Normalize(t.Relation)
	res := baseResult(t, relNorm)

	exact, err := v.graph.ExactEdge(ctx, t.Head, relNorm, t.Tail)
	if err != nil {
		return res, err
	}
	if exact != nil {
		res.Status = model.StatusSupported
		res.Count = exact.Count
		res.Papers = exact.Papers
		res.UIHint = model.UIHintStrong
		return res, nil
	}

	// Relevant rows report no count or papers even when the connecting edges have them.
	alt, err := v.graph.AlternateEdge(ctx, t.Head, relNorm, t.Tail)
	if err != nil {
		return res, err
	}
	if alt != nil {
		v.log.Debug("alternate relation found", "head", t.Head, "tail", t.Tail, "relation", alt.Type, "count", alt.Count)
		res.Status = model.StatusRelevant
		res.UIHint = model.UIHintWeak
		return res, nil
	}

	bridge, err := v.graph.TwoHop(ctx, t.Head, t.Tail)
	if err != nil {
		return res, err
	}
	if bridge != nil {
		v.log.Debug("two-hop bridge found", "head", t.Head, "tail", t.Tail,
			"bridge", bridge.Name, "first", bridge.FirstType, "second", bridge.SecondType, "weight", bridge.TotalWeight)
		res.Status = model.StatusRelevant
		res.UIHint = model.UIHintWeak
		return res, nil
	}

	return res, nil
}

// EvidenceVerifier reports raw web evidence per triple instead of a status.
type EvidenceVerifier struct {
	aggregator *evidence.Aggregator
	normalizer *relation.Normalizer
	searchers  SearcherFactory
	limit      int
}

func NewEvidenceVerifier(aggregator *evidence.Aggregator, normalizer *relation.Normalizer, searchers SearcherFactory, limit int) *EvidenceVerifier {
	if limit <= 0 {
		limit = DefaultScoringLimit
	}
	return &EvidenceVerifier{aggregator: aggregator, normalizer: normalizer, searchers: searchers, limit: limit}
}

func (v *EvidenceVerifier) Verify(ctx context.Context, req VerifyRequest) ([]model.VerificationResult, error) {
	if req.Credentials.SearchKey == "" {
		return nil, NewValidationError("x-serper-key header is required for evidence verification")
	}
	searcher := v.searchers(req.Credentials.SearchKey)

	results := make([]model.VerificationResult, len(req.Rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.limit)
	for i, row := range req.Rows {
		if row.Malformed {
			results[i] = model.MalformedResult()
			continue
		}
		g.Go(func() error {
			t := row.Triple
			ev := v.aggregator.Aggregate(gctx, searcher, t.Head, t.Relation, t.Tail, req.Mode)
			res := baseResult(t, v.normalizer.Normalize(t.Relation))
			res.Status = ""
			res.Count = ev.Count
			res.Papers = ev.Papers
			res.UIHint = ev.UIHint
			res.Confidence = &ev.Confidence
			res.Sources = ev.Sources
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func baseResult(t model.Triple, relNorm string) model.VerificationResult {
	head, rel, tail := t.Head, t.Relation, t.Tail
	return model.VerificationResult{
		Head:     &head,
		Relation: &rel,
		Tail:     &tail,
		RelNorm:  relNorm,
		Status:   model.StatusUnsure,
		Papers:   []string{},
		UIHint:   model.UIHintMissing,
	}
}
