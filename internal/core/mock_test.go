package core

import (
	"context"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/kgevidence/internal/core/graph"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/llm"
	"github.com/agenthands/kgevidence/internal/search"
)

type MockGraph struct {
	Exact     *model.EdgeEvidence
	Alternate *model.EdgeEvidence
	Bridge    *model.Bridge
	Rows      []model.NeighborRow
	Err       error

	Calls         []string
	NeighborQuery graph.NeighborQuery
}

func (m *MockGraph) ExactEdge(ctx context.Context, head, relation, tail string) (*model.EdgeEvidence, error) {
	m.Calls = append(m.Calls, "exact:"+relation)
	return m.Exact, m.Err
}

func (m *MockGraph) AlternateEdge(ctx context.Context, head, relation, tail string) (*model.EdgeEvidence, error) {
	m.Calls = append(m.Calls, "alternate")
	return m.Alternate, m.Err
}

func (m *MockGraph) TwoHop(ctx context.Context, head, tail string) (*model.Bridge, error) {
	m.Calls = append(m.Calls, "two-hop")
	return m.Bridge, m.Err
}

func (m *MockGraph) Neighbors(ctx context.Context, q graph.NeighborQuery) ([]model.NeighborRow, error) {
	m.Calls = append(m.Calls, "neighbors")
	m.NeighborQuery = q
	return m.Rows, m.Err
}

// MockSearcher answers by the quoted tail found in the query.
type MockSearcher struct {
	mu      sync.Mutex
	ByTail  map[string][]search.Result
	Queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string, num int) ([]search.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	for tail, results := range m.ByTail {
		if strings.Contains(query, `"`+tail+`"`) {
			return results, nil
		}
	}
	return nil, nil
}

func (m *MockSearcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

type MockLLM struct {
	Response string
	Err      error
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Response, m.Err
}

type MockClientFactory struct {
	Client llm.LLMClient
	Creds  []llm.Credentials
}

func (m *MockClientFactory) NewClient(ctx context.Context, creds llm.Credentials) (llm.LLMClient, error) {
	m.Creds = append(m.Creds, creds)
	if m.Client == nil {
		return nil, llm.ErrNoProvider
	}
	return m.Client, nil
}

func links(urls ...string) []search.Result {
	out := make([]search.Result, 0, len(urls))
	for _, u := range urls {
		out = append(out, search.Result{Link: u})
	}
	return out
}

// MockDriver returns canned records for queries containing a fragment.
type MockDriver struct {
	Results map[string][]*neo4j.Record
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	for fragment, recs := range m.Results {
		if strings.Contains(query, fragment) {
			return neo4j.EagerResult{Records: recs}, nil
		}
	}
	return neo4j.EagerResult{Records: []*neo4j.Record{}}, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
