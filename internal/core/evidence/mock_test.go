package evidence

import (
	"context"
	"sync"

	"github.com/agenthands/kgevidence/internal/search"
)

type MockSearcher struct {
	mu      sync.Mutex
	Results map[string][]search.Result
	Errs    map[string]error
	// Default is returned for queries with no entry in Results.
	Default []search.Result
	Err     error
	Queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string, num int) ([]search.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.Errs[query]; ok {
		return nil, err
	}
	if r, ok := m.Results[query]; ok {
		return r, nil
	}
	return m.Default, nil
}

func (m *MockSearcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

func links(urls ...string) []search.Result {
	out := make([]search.Result, 0, len(urls))
	for _, u := range urls {
		out = append(out, search.Result{Link: u})
	}
	return out
}
