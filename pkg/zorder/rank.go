package zorder

import (
	"sort"

	"github.com/openstream-dk/openstream/pkg/model"
)

// ComputeRanks assigns each element a 1-based rank in the front-to-back
// stacking order: rank 1 is the topmost element. Elements sort descending by
// (tier, zIndex); remaining ties keep their input order, so repeated calls
// over the same snapshot always agree.
//
// The input is the visible element set; its order is otherwise irrelevant.
// Pure function: no element is mutated. An empty input yields an empty map.
func ComputeRanks(elements []*model.Element, opts Options) map[int]int {
	ranked := Ranked(elements, opts)
	ranks := make(map[int]int, len(ranked))
	for i, el := range ranked {
		ranks[el.ID] = i + 1
	}
	return ranks
}

// Ranked returns the elements sorted topmost-first by the same ordering
// ComputeRanks uses. The layers panel renders this slice directly.
func Ranked(elements []*model.Element, opts Options) []*model.Element {
	out := make([]*model.Element, 0, len(elements))
	for _, el := range elements {
		if el != nil {
			out = append(out, el)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := TierOf(out[i], opts), TierOf(out[j], opts)
		if ti != tj {
			return ti > tj
		}
		return out[i].ZIndex > out[j].ZIndex
	})
	return out
}
