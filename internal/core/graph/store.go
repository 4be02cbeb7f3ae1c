// Package graph answers verify and recommend lookups against the knowledge graph.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/driver"
)

const (
	DirectionAny = "any"
	DirectionOut = "out"
	DirectionIn  = "in"
)

// NeighborQuery filters the 1-hop neighbourhood of Head. Whitelist entries must be
// uppercase and Exclude entries lowercase.
type NeighborQuery struct {
	Head      string
	Direction string
	Whitelist []string
	Exclude   []string
	Limit     int
}

type Store struct {
	driver driver.GraphDriver
}

func NewStore(d driver.GraphDriver) *Store {
	return &Store{driver: d}
}

// ExactEdge returns the head->tail edge whose type equals relation ignoring case, or nil.
func (s *Store) ExactEdge(ctx context.Context, head, relation, tail string) (*model.EdgeEvidence, error) {
	rec, err := s.single(ctx, driver.ExactEdgeQuery, map[string]interface{}{
		"head":     head,
		"tail":     tail,
		"relation": relation,
	})
	if err != nil || rec == nil {
		return nil, err
	}
	papers := asStrings(rec, "papers")
	count := asInt(rec, "count")
	// an edge without an explicit count is counted by its papers
	if v, ok := rec.Get("count"); !ok || v == nil {
		count = len(papers)
	}
	return &model.EdgeEvidence{
		Type:   asString(rec, "relation"),
		Count:  count,
		Papers: papers,
	}, nil
}

// AlternateEdge returns the highest-count head->tail edge of any other type, or nil.
func (s *Store) AlternateEdge(ctx context.Context, head, relation, tail string) (*model.EdgeEvidence, error) {
	rec, err := s.single(ctx, driver.AlternateEdgeQuery, map[string]interface{}{
		"head":     head,
		"tail":     tail,
		"relation": relation,
	})
	if err != nil || rec == nil {
		return nil, err
	}
	return &model.EdgeEvidence{
		Type:   asString(rec, "relation"),
		Count:  asInt(rec, "count"),
		Papers: []string{},
	}, nil
}

// TwoHop returns the heaviest head->X->tail bridge, or nil.
func (s *Store) TwoHop(ctx context.Context, head, tail string) (*model.Bridge, error) {
	rec, err := s.single(ctx, driver.TwoHopQuery, map[string]interface{}{
		"head": head,
		"tail": tail,
	})
	if err != nil || rec == nil {
		return nil, err
	}
	return &model.Bridge{
		Name:        asString(rec, "bridge"),
		FirstType:   asString(rec, "first_type"),
		SecondType:  asString(rec, "second_type"),
		TotalWeight: asInt(rec, "total_weight"),
	}, nil
}

// Neighbors returns the candidate pool for graph recommendations, ordered by evidence desc,
// relation asc, tail name asc.
func (s *Store) Neighbors(ctx context.Context, q NeighborQuery) ([]model.NeighborRow, error) {
	direction := strings.ToLower(strings.TrimSpace(q.Direction))
	if direction == "" {
		direction = DirectionAny
	}
	whitelist := q.Whitelist
	if whitelist == nil {
		whitelist = []string{}
	}
	exclude := q.Exclude
	if exclude == nil {
		exclude = []string{}
	}

	res, err := s.driver.ExecuteQuery(ctx, driver.NeighborsQuery, map[string]interface{}{
		"head":      q.Head,
		"direction": direction,
		"whitelist": whitelist,
		"exclude":   exclude,
		"limit":     q.Limit,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load neighbours", goerr.V("head", q.Head))
	}

	rows := make([]model.NeighborRow, 0, len(res.Records))
	for _, rec := range res.Records {
		rows = append(rows, model.NeighborRow{
			HeadID:     asString(rec, "head_id"),
			HeadName:   asString(rec, "head_name"),
			TailID:     asString(rec, "tail_id"),
			TailName:   asString(rec, "tail_name"),
			Relation:   asString(rec, "relation"),
			Direction:  asString(rec, "direction"),
			TailLabels: asStrings(rec, "tail_labels"),
			Evidence:   asInt(rec, "evidence"),
		})
	}
	return rows, nil
}

func (s *Store) single(ctx context.Context, query string, params map[string]interface{}) (*neo4j.Record, error) {
	res, err := s.driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, goerr.Wrap(err, "graph lookup failed", goerr.V("head", params["head"]), goerr.V("tail", params["tail"]))
	}
	if len(res.Records) == 0 {
		return nil, nil
	}
	return res.Records[0], nil
}

func asString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asInt(rec *neo4j.Record, key string) int {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asStrings(rec *neo4j.Record, key string) []string {
	out := []string{}
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return out
	}
	switch list := v.(type) {
	case []string:
		return append(out, list...)
	case []interface{}:
		for _, item := range list {
			if item == nil {
				continue
			}
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
	}
	return out
}
