package core

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/agenthands/kgevidence/internal/core/model"
)

// TripleRow is one entry of a verify request. Malformed rows carry no triple.
type TripleRow struct {
	Triple    model.Triple
	Malformed bool
}

// ParseTriples decodes the "triples" field. Anything but a JSON list (or an absent field)
// is a ValidationError; list entries that are not 3-element lists of strings or nulls
// become malformed rows. Nulls read as empty strings and values are trimmed.
func ParseTriples(raw json.RawMessage) ([]TripleRow, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []TripleRow{}, nil
	}

	var items []json.RawMessage
	if trimmed[0] != '[' || json.Unmarshal(trimmed, &items) != nil {
		return nil, NewValidationError("triples must be a list of [head, relation, tail]")
	}

	rows := make([]TripleRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, parseTriple(item))
	}
	return rows, nil
}

func parseTriple(item json.RawMessage) TripleRow {
	var parts []*string
	if err := json.Unmarshal(item, &parts); err != nil || parts == nil || len(parts) != 3 {
		return TripleRow{Malformed: true}
	}
	field := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}
	return TripleRow{Triple: model.Triple{
		Head:     field(parts[0]),
		Relation: field(parts[1]),
		Tail:     field(parts[2]),
	}}
}
