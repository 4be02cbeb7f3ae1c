package model

// EdgeEvidence is what the graph holds about one matching edge.
type EdgeEvidence struct {
	Type   string
	Count  int
	Papers []string
}

// Bridge is a two-hop path head -[FirstType]-> Name -[SecondType]-> tail.
type Bridge struct {
	Name        string
	FirstType   string
	SecondType  string
	TotalWeight int
}

// NeighborRow is one 1-hop neighbour of a head entity.
type NeighborRow struct {
	HeadID     string
	HeadName   string
	TailID     string
	TailName   string
	Relation   string
	Direction  string
	TailLabels []string
	Evidence   int
}

// Key identifies a row by its triple and traversal direction, so h-[R]->t and t-[R]->h
// seen from the same head stay separate.
func (r NeighborRow) Key() string {
	return r.HeadID + "|" + r.Relation + "|" + r.Direction + "|" + r.TailID
}
