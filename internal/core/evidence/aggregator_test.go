package evidence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/agenthands/kgevidence/internal/core/cache"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/logger"
	"github.com/agenthands/kgevidence/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(opts ...Option) *Aggregator {
	return NewAggregator(cache.New[model.Evidence](time.Hour, 100), logger.Nop(), opts...)
}

func TestAggregate_StandardMode(t *testing.T) {
	q := Queries("Curcumin", "reduces", "Inflammation", ModeStandard)
	s := &MockSearcher{
		Results: map[string][]search.Result{
			q[0]: links("https://pubmed.ncbi.nlm.nih.gov/12345", "https://example.com"),
			q[1]: links("https://pubmed.ncbi.nlm.nih.gov/12345", "https://pubmed.ncbi.nlm.nih.gov/9"),
			q[3]: links("https://www.nih.gov/x"),
		},
		Errs: map[string]error{q[2]: errors.New("connection reset")},
	}

	ev := newTestAggregator().Aggregate(context.Background(), s, "Curcumin", "reduces", "Inflammation", ModeStandard)

	assert.Equal(t, 4, s.Calls())
	assert.InDelta(t, 9.0, ev.WeightedCount, 1e-9)
	assert.Equal(t, 9, ev.Count)
	assert.Equal(t, model.UIHintStrong, ev.UIHint)
	assert.InDelta(t, model.Confidence(9.0), ev.Confidence, 1e-9)
	assert.Equal(t, []string{"9", "12345"}, ev.Papers)
	assert.Equal(t, []string{
		"https://pubmed.ncbi.nlm.nih.gov/12345",
		"https://example.com",
		"https://pubmed.ncbi.nlm.nih.gov/9",
		"https://www.nih.gov/x",
	}, ev.Sources)
}

func TestAggregate_LightEarlyStop(t *testing.T) {
	q := Queries("Omega-3", "reduces", "Inflammation", ModeLight)
	s := &MockSearcher{
		Results: map[string][]search.Result{
			q[0]: links("https://pubmed.ncbi.nlm.nih.gov/1", "https://pubmed.ncbi.nlm.nih.gov/2"),
			q[1]: links("https://www.nih.gov/never"),
		},
	}

	ev := newTestAggregator().Aggregate(context.Background(), s, "Omega-3", "reduces", "Inflammation", ModeLight)

	assert.Equal(t, []string{q[0]}, s.Queries)
	assert.Equal(t, 6, ev.Count)
	assert.Equal(t, []string{"1", "2"}, ev.Papers)
}

func TestAggregate_LightRunsBothQueriesWhenWeak(t *testing.T) {
	s := &MockSearcher{Default: links("https://example.com")}

	ev := newTestAggregator().Aggregate(context.Background(), s, "A", "", "B", ModeLight)

	assert.Equal(t, 2, s.Calls())
	// the same URL from the second query is not counted twice
	assert.InDelta(t, 1.0, ev.WeightedCount, 1e-9)
	assert.Equal(t, model.UIHintWeak, ev.UIHint)
}

func TestAggregate_NoEarlyStopOutsideLight(t *testing.T) {
	s := &MockSearcher{Default: links(
		"https://pubmed.ncbi.nlm.nih.gov/1", "https://pubmed.ncbi.nlm.nih.gov/2",
	)}

	newTestAggregator().Aggregate(context.Background(), s, "A", "r", "B", ModeDeep)

	assert.Equal(t, 6, s.Calls())
}

func TestAggregate_AllQueriesFail(t *testing.T) {
	s := &MockSearcher{Err: errors.New("401 unauthorized")}
	a := newTestAggregator()

	ev := a.Aggregate(context.Background(), s, "A", "r", "B", ModeStandard)

	assert.Equal(t, model.NoEvidence(), ev)
	assert.Equal(t, 4, s.Calls())

	// failures are not memoized
	a.Aggregate(context.Background(), s, "A", "r", "B", ModeStandard)
	assert.Equal(t, 8, s.Calls())
}

func TestAggregate_EmptyResultsAreZeroEvidence(t *testing.T) {
	s := &MockSearcher{}

	ev := newTestAggregator().Aggregate(context.Background(), s, "A", "r", "B", ModeLight)

	assert.Equal(t, 0, ev.Count)
	assert.Equal(t, model.UIHintMissing, ev.UIHint)
	assert.Equal(t, []string{}, ev.Papers)
}

func TestAggregate_CachedCaseInsensitive(t *testing.T) {
	s := &MockSearcher{Default: links("https://example.com")}
	a := newTestAggregator()

	first := a.Aggregate(context.Background(), s, "Curcumin", "Reduces", "Inflammation", ModeLight)
	second := a.Aggregate(context.Background(), s, "curcumin", "reduces", "INFLAMMATION", ModeLight)

	assert.Equal(t, 2, s.Calls())
	assert.Equal(t, first, second)

	// a different plan for the same triple is a different entry
	a.Aggregate(context.Background(), s, "curcumin", "reduces", "inflammation", ModeStandard)
	assert.Equal(t, 6, s.Calls())
}

func TestAggregate_Caps(t *testing.T) {
	var urls []string
	for i := 25; i >= 1; i-- {
		urls = append(urls, fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%d", i))
	}
	s := &MockSearcher{Default: links(urls...)}

	ev := NewAggregator(nil, nil).Aggregate(context.Background(), s, "A", "", "B", ModeLight)

	require.Len(t, ev.Papers, model.MaxEvidenceItems)
	assert.Equal(t, "1", ev.Papers[0])
	assert.Equal(t, "20", ev.Papers[19])
	require.Len(t, ev.Sources, model.MaxEvidenceItems)
	assert.Equal(t, urls[0], ev.Sources[0])
	assert.Equal(t, 75, ev.Count)
}

type blockingSearcher struct{}

func (blockingSearcher) Search(ctx context.Context, query string, num int) ([]search.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAggregate_TimeoutIsTransportFailure(t *testing.T) {
	a := newTestAggregator(WithQueryTimeout(10 * time.Millisecond))

	ev := a.Aggregate(context.Background(), blockingSearcher{}, "A", "r", "B", ModeLight)

	assert.Equal(t, model.NoEvidence(), ev)
}

type ctxCheckingSearcher struct{ MockSearcher }

func (c *ctxCheckingSearcher) Search(ctx context.Context, query string, num int) ([]search.Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return c.MockSearcher.Search(ctx, query, num)
}

func TestAggregate_IgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &ctxCheckingSearcher{MockSearcher{Default: links("https://example.com")}}

	ev := newTestAggregator().Aggregate(ctx, s, "A", "r", "B", ModeLight)

	assert.Equal(t, 1, ev.Count)
}

func TestScorePair(t *testing.T) {
	s := &MockSearcher{Default: links("https://pubmed.ncbi.nlm.nih.gov/12345", "https://example.com")}
	a := newTestAggregator()

	ev := a.ScorePair(context.Background(), s, "Curcumin", "protects", "Liver")

	assert.Equal(t, []string{`"Curcumin" "Liver" protects`}, s.Queries)
	assert.Equal(t, 4, ev.Count)
	assert.Equal(t, []string{"12345"}, ev.Papers)

	a.ScorePair(context.Background(), s, "curcumin", "PROTECTS", "liver")
	assert.Equal(t, 1, s.Calls())
}

func TestResultsPerQueryClamp(t *testing.T) {
	assert.Equal(t, 5, NewAggregator(nil, nil, WithResultsPerQuery(2)).resultsPerQuery)
	assert.Equal(t, 10, NewAggregator(nil, nil, WithResultsPerQuery(50)).resultsPerQuery)
	assert.Equal(t, 8, NewAggregator(nil, nil, WithResultsPerQuery(0)).resultsPerQuery)
	assert.Equal(t, 7, NewAggregator(nil, nil, WithResultsPerQuery(7)).resultsPerQuery)
}
