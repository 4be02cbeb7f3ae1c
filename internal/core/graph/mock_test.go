package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver answers by matching a fragment of the query text.
type MockDriver struct {
	Results map[string]neo4j.EagerResult
	Err     error

	Queries []string
	Params  []map[string]interface{}
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	for fragment, res := range m.Results {
		if strings.Contains(query, fragment) {
			return res, nil
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

func record(kv ...interface{}) *neo4j.Record {
	rec := &neo4j.Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Keys = append(rec.Keys, kv[i].(string))
		rec.Values = append(rec.Values, kv[i+1])
	}
	return rec
}

func result(recs ...*neo4j.Record) neo4j.EagerResult {
	return neo4j.EagerResult{Records: recs}
}
