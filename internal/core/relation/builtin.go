package relation

import "strings"

var physiologicalSynonyms = map[string][]string{
	"PROTECTS": {
		"protect", "protects", "protecting", "protection",
		"neuroprotective", "neuroprotection",
	},
	"REDUCES": {
		"reduce", "reduces", "reducing", "decrease", "decreases",
		"lower", "lowers", "attenuate", "attenuates", "mitigate", "mitigates",
	},
	"MODULATES": {
		"modulate", "modulates", "modulating", "anti inflammatory", "antiinflammatory",
		"regulate", "regulates",
	},
	"SUPPORTS": {
		"support", "supports", "supporting", "enhance", "enhances",
		"improve", "improves", "promote", "promotes",
	},
	"ASSOCIATED_WITH": {
		"associated with", "associate", "associates with", "linked to", "linked with",
		"correlates with", "related to", "relation with",
	},
	"MEDIATES": {
		"mediate", "mediates", "drives", "contributes to",
	},
	"DAMAGES": {
		"damage", "damages", "harm", "harms", "toxicity", "injures",
	},
}

var diseaseSynonyms = map[string][]string{
	"TREATS": {
		"treat", "treats", "treatment for", "therapy for", "cures", "used for", "indicated for",
	},
	"PREVENTS": {
		"prevent", "prevents", "prevention of", "prophylaxis for", "wards off",
	},
	"CAUSES": {
		"cause", "causes", "induces", "leads to", "results in", "triggers",
	},
	"RISK_FACTOR_FOR": {
		"risk factor for", "increases risk of", "raises risk of", "predisposes to",
	},
	"INHIBITS": {
		"inhibit", "inhibits", "blocks", "suppresses", "antagonizes",
	},
	"ACTIVATES": {
		"activate", "activates", "stimulates", "agonist of", "upregulates",
	},
	"INTERACTS_WITH": {
		"interacts with", "interaction with", "binds", "binds to", "targets",
	},
	"CONTRAINDICATED_FOR": {
		"contraindicated for", "contraindicated in", "should not be used for",
	},
	"BIOMARKER_FOR": {
		"biomarker for", "marker of", "indicator of", "diagnostic for",
	},
	"SIDE_EFFECT_OF": {
		"side effect of", "adverse effect of", "adverse event of",
	},
}

// Physiological is the general physiological-effect table.
func Physiological() Table {
	return NewTable(physiologicalSynonyms)
}

// DiseaseDrug is the disease and drug oriented table.
func DiseaseDrug() Table {
	return NewTable(diseaseSynonyms)
}

func Builtin(name string) (Table, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "physiological", "default":
		return Physiological(), true
	case "disease", "disease_drug", "drug":
		return DiseaseDrug(), true
	default:
		return nil, false
	}
}
