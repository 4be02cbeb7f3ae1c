package driver

var IndexQueries = []string{
	"CREATE INDEX entity_name IF NOT EXISTS FOR (n:Entity) ON (n.name)",
}

// Edge evidence is r.count when set, else the number of attached papers.
const (
	ExactEdgeQuery = `
		MATCH (h:Entity), (t:Entity)
		WHERE toLower(h.name) = toLower($head) AND toLower(t.name) = toLower($tail)
		MATCH (h)-[r]->(t)
		WHERE toLower(type(r)) = toLower($relation)
		RETURN type(r) AS relation,
			coalesce(r.count, CASE WHEN r.papers IS NULL THEN 0 ELSE size(r.papers) END) AS count,
			coalesce(r.papers, []) AS papers
		LIMIT 1
	`

	AlternateEdgeQuery = `
		MATCH (h:Entity)-[r]->(t:Entity)
		WHERE toLower(h.name) = toLower($head) AND toLower(t.name) = toLower($tail)
			AND toLower(type(r)) <> toLower($relation)
		RETURN type(r) AS relation,
			coalesce(r.count, CASE WHEN r.papers IS NULL THEN 0 ELSE size(r.papers) END) AS count
		ORDER BY count DESC
		LIMIT 1
	`

	TwoHopQuery = `
		MATCH (h:Entity), (t:Entity)
		WHERE toLower(h.name) = toLower($head) AND toLower(t.name) = toLower($tail)
		MATCH (h)-[r1]->(m)-[r2]->(t)
		RETURN m.name AS bridge,
			type(r1) AS first_type, type(r2) AS second_type,
			coalesce(r1.count, CASE WHEN r1.papers IS NULL THEN 0 ELSE size(r1.papers) END) +
			coalesce(r2.count, CASE WHEN r2.papers IS NULL THEN 0 ELSE size(r2.papers) END) AS total_weight
		ORDER BY total_weight DESC
		LIMIT 1
	`

	NeighborsQuery = `
		MATCH (h:Entity)
		WHERE toLower(h.name) = toLower($head)
		CALL {
			WITH h
			MATCH (h)-[r]->(t:Entity)
			RETURN h AS H, t AS T, r AS R, 'out' AS dir
			UNION
			WITH h
			MATCH (t:Entity)-[r]->(h)
			RETURN h AS H, t AS T, r AS R, 'in' AS dir
		}
		WITH H, T, R, dir
		WHERE ($direction = 'any' OR dir = $direction)
			AND NOT toLower(T.name) IN $exclude
			AND ($whitelist = [] OR toUpper(type(R)) IN $whitelist)
		WITH H, T, type(R) AS rtype, dir,
			coalesce(R.count, CASE WHEN R.papers IS NULL THEN 0 ELSE size(R.papers) END) AS evidence,
			labels(T) AS tail_labels
		ORDER BY evidence DESC, rtype ASC, toLower(T.name) ASC
		LIMIT $limit
		RETURN H.name AS head_name, elementId(H) AS head_id,
			T.name AS tail_name, elementId(T) AS tail_id,
			rtype AS relation, dir AS direction, tail_labels, evidence
	`
)
