package model

// Triple is a user-supplied (head, relation, tail) statement. Relation is the raw phrase.
type Triple struct {
	Head     string `json:"head"`
	Relation string `json:"relation"`
	Tail     string `json:"tail"`
}

// Candidate is an unverified (relation, tail) proposal for a known head.
type Candidate struct {
	Relation string `json:"relation"`
	Tail     string `json:"tail"`
}
