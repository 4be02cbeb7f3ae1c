package candidates

import (
	"strings"

	"github.com/agenthands/kgevidence/internal/core/model"
)

type seedRule struct {
	match []string
	seeds []model.Candidate
}

// seedRules are tried in order; the first rule with a substring of the lowercased head wins.
var seedRules = []seedRule{
	{
		match: []string{"curcumin", "turmeric"},
		seeds: []model.Candidate{
			{Relation: "REDUCES", Tail: "Inflammation"},
			{Relation: "PROTECTS", Tail: "Liver"},
			{Relation: "MODULATES", Tail: "NF-kB"},
			{Relation: "REDUCES", Tail: "Oxidative stress"},
			{Relation: "SUPPORTS", Tail: "Joint health"},
			{Relation: "ASSOCIATED_WITH", Tail: "Alzheimer's disease"},
		},
	},
	{
		match: []string{"omega-3", "omega 3", "fish oil", "dha", "epa"},
		seeds: []model.Candidate{
			{Relation: "REDUCES", Tail: "Inflammation"},
			{Relation: "REDUCES", Tail: "Triglycerides"},
			{Relation: "SUPPORTS", Tail: "Cardiovascular health"},
			{Relation: "SUPPORTS", Tail: "Brain health"},
			{Relation: "ASSOCIATED_WITH", Tail: "Depression"},
		},
	},
	{
		match: []string{"vitamin d", "cholecalciferol"},
		seeds: []model.Candidate{
			{Relation: "SUPPORTS", Tail: "Bone health"},
			{Relation: "MODULATES", Tail: "Immune system"},
			{Relation: "REDUCES", Tail: "Fracture risk"},
			{Relation: "SUPPORTS", Tail: "Calcium absorption"},
			{Relation: "ASSOCIATED_WITH", Tail: "Depression"},
		},
	},
	{
		match: []string{"exercise", "physical activity"},
		seeds: []model.Candidate{
			{Relation: "REDUCES", Tail: "Blood pressure"},
			{Relation: "SUPPORTS", Tail: "Cardiovascular health"},
			{Relation: "REDUCES", Tail: "Insulin resistance"},
			{Relation: "SUPPORTS", Tail: "Cognitive function"},
			{Relation: "REDUCES", Tail: "Depression"},
		},
	},
}

var defaultSeeds = []model.Candidate{
	{Relation: "ASSOCIATED_WITH", Tail: "Inflammation"},
	{Relation: "MODULATES", Tail: "Oxidative stress"},
	{Relation: "ASSOCIATED_WITH", Tail: "Cardiovascular disease"},
	{Relation: "SUPPORTS", Tail: "Immune system"},
	{Relation: "ASSOCIATED_WITH", Tail: "Metabolic syndrome"},
}

// Heuristic returns the static seed list for head. The result is a fresh slice.
func Heuristic(head string) []model.Candidate {
	h := strings.ToLower(head)
	for _, rule := range seedRules {
		for _, m := range rule.match {
			if strings.Contains(h, m) {
				return append([]model.Candidate(nil), rule.seeds...)
			}
		}
	}
	return append([]model.Candidate(nil), defaultSeeds...)
}
