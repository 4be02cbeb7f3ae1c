package model

type EntityRef struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

type RelationRef struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

const (
	SourceOneHop = "1-hop"
	SourceWeb    = "web"
)

// Suggestion is the unit returned by the recommend endpoints. Evidence fields are only set
// for web-scored suggestions.
type Suggestion struct {
	Text       string      `json:"text"`
	Head       EntityRef   `json:"head"`
	Relation   RelationRef `json:"relation"`
	Tail       EntityRef   `json:"tail"`
	Count      int         `json:"count"`
	Source     string      `json:"source"`
	Confidence *float64    `json:"confidence,omitempty"`
	UIHint     UIHint      `json:"ui_hint,omitempty"`
	Papers     []string    `json:"papers,omitempty"`
	Sources    []string    `json:"sources,omitempty"`
}
