package world

import (
	"sort"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/trace"
)

// computeCounterfactual ranks the verdict's champions and returns the top k
// sorted by score descending. Ties are broken by declaration order.
// Returns nil when k <= 0 or the cycle had no suggestions.
func computeCounterfactual(catalog *advisor.Catalog, verdict advisor.Verdict, k int) []trace.CandidateScore {
	if k <= 0 || len(verdict.Champions) == 0 {
		return nil
	}

	ranked := make([]advisor.Suggestion, len(verdict.Champions))
	copy(ranked, verdict.Champions)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Variant < ranked[j].Variant
	})

	n := min(k, len(ranked))
	result := make([]trace.CandidateScore, n)
	for i := 0; i < n; i++ {
		result[i] = trace.CandidateScore{
			Variant: catalog.Name(ranked[i].Variant),
			Score:   ranked[i].Score,
		}
	}
	return result
}
