package service

import (
	"sort"

	"hellosleep/internal/catalog"
)

// DefaultTopFacts is how many facts reach a prompt or fallback reasoning
const DefaultTopFacts = 5

// Prioritize orders facts by descending tag weight. The sort is stable, so
// facts of equal weight keep their table order. The input is not modified.
func Prioritize(facts []catalog.Fact) []catalog.Fact {
	out := make([]catalog.Fact, len(facts))
	copy(out, facts)
	sort.SliceStable(out, func(i, j int) bool {
		return catalog.TagWeights[out[i].Tag] > catalog.TagWeights[out[j].Tag]
	})
	return out
}

// TopFacts returns at most k prioritized facts for the active tags
func TopFacts(activeTags []string, k int) []catalog.Fact {
	facts := Prioritize(catalog.Facts(activeTags))
	if k >= 0 && len(facts) > k {
		facts = facts[:k]
	}
	return facts
}
