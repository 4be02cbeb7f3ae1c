// Package evidence turns web-search results into weighted confidence scores.
package evidence

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/agenthands/kgevidence/internal/core/cache"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/logger"
	"github.com/agenthands/kgevidence/internal/search"
)

const (
	minResultsPerQuery     = 5
	maxResultsPerQuery     = 10
	defaultResultsPerQuery = 8
	defaultQueryTimeout    = 10 * time.Second
)

var errAllQueriesFailed = errors.New("all search queries failed")

// Searcher is a web-search backend bound to the caller's credentials.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]search.Result, error)
}

// Aggregator is shared across requests; only its cache is mutable.
type Aggregator struct {
	cache           *cache.Cache[model.Evidence]
	log             *logger.Logger
	resultsPerQuery int
	queryTimeout    time.Duration
}

type Option func(*Aggregator)

func WithResultsPerQuery(n int) Option {
	return func(a *Aggregator) {
		switch {
		case n <= 0:
			a.resultsPerQuery = defaultResultsPerQuery
		case n < minResultsPerQuery:
			a.resultsPerQuery = minResultsPerQuery
		case n > maxResultsPerQuery:
			a.resultsPerQuery = maxResultsPerQuery
		default:
			a.resultsPerQuery = n
		}
	}
}

func WithQueryTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.queryTimeout = d
		}
	}
}

// NewAggregator builds an aggregator. A nil cache disables memoization.
func NewAggregator(c *cache.Cache[model.Evidence], log *logger.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	a := &Aggregator{
		cache:           c,
		log:             log.With("component", "evidence"),
		resultsPerQuery: defaultResultsPerQuery,
		queryTimeout:    defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate runs the query plan for mode and scores the combined results. It never fails:
// when every query fails the result is zero evidence.
func (a *Aggregator) Aggregate(ctx context.Context, s Searcher, head, relation, tail string, mode Mode) model.Evidence {
	if _, ok := ParseMode(string(mode)); !ok {
		mode = ModeLight
	}
	queries := Queries(head, relation, tail, mode)
	return a.cached(string(mode), head, relation, tail, func() (model.Evidence, error) {
		return a.collect(ctx, s, queries, mode == ModeLight)
	})
}

// ScorePair scores a recommendation candidate with a single query.
func (a *Aggregator) ScorePair(ctx context.Context, s Searcher, head, relation, tail string) model.Evidence {
	queries := []string{PairQuery(head, relation, tail)}
	return a.cached("pair", head, relation, tail, func() (model.Evidence, error) {
		return a.collect(ctx, s, queries, false)
	})
}

// Failed aggregations are not cached so a bad key or an outage is not remembered for a week.
func (a *Aggregator) cached(plan, head, relation, tail string, compute func() (model.Evidence, error)) model.Evidence {
	if a.cache == nil {
		ev, _ := compute()
		return ev
	}
	key := plan + "::" + cache.TripleKey(head, relation, tail)
	ev, err := a.cache.GetOrCompute(key, compute)
	if err != nil {
		return model.NoEvidence()
	}
	return ev
}

type tally struct {
	weight  float64
	seen    map[string]struct{}
	sources []string
	papers  map[string]struct{}
}

func (t *tally) add(link string) {
	if link == "" {
		return
	}
	if _, ok := t.seen[link]; ok {
		return
	}
	t.seen[link] = struct{}{}
	t.weight += DomainWeight(link)
	t.sources = append(t.sources, link)
	if id, ok := PubMedID(link); ok {
		t.papers[id] = struct{}{}
	}
}

func (a *Aggregator) collect(ctx context.Context, s Searcher, queries []string, earlyStop bool) (model.Evidence, error) {
	// sub-queries run to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	t := &tally{
		seen:   make(map[string]struct{}),
		papers: make(map[string]struct{}),
	}
	issued, failed := 0, 0
	for _, q := range queries {
		if earlyStop && t.weight >= model.StrongThreshold {
			a.log.Debug("early stop", "weight", t.weight, "issued", issued, "planned", len(queries))
			break
		}
		issued++
		results, err := a.search(ctx, s, q)
		if err != nil {
			failed++
			a.log.Warn("search query failed", "query", q, "error", err)
			continue
		}
		for _, r := range results {
			t.add(r.Link)
		}
	}

	ev := model.NewEvidence(t.weight, sortedPapers(t.papers), capped(t.sources))
	if issued > 0 && failed == issued {
		return ev, errAllQueriesFailed
	}
	return ev, nil
}

func (a *Aggregator) search(ctx context.Context, s Searcher, q string) ([]search.Result, error) {
	qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	return s.Search(qctx, q, a.resultsPerQuery)
}

// sortedPapers orders numeric ids numerically, then caps the list.
func sortedPapers(set map[string]struct{}) []string {
	papers := make([]string, 0, len(set))
	for id := range set {
		papers = append(papers, id)
	}
	sort.Slice(papers, func(i, j int) bool {
		if len(papers[i]) != len(papers[j]) {
			return len(papers[i]) < len(papers[j])
		}
		return papers[i] < papers[j]
	})
	return capped(papers)
}

func capped(items []string) []string {
	if len(items) > model.MaxEvidenceItems {
		return items[:model.MaxEvidenceItems]
	}
	return items
}
