package zorder_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

func genElements(t *rapid.T) []*model.Element {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	elements := make([]*model.Element, n)
	for i := range elements {
		elements[i] = &model.Element{
			ID:                     i + 1,
			ZIndex:                 rapid.IntRange(-10, 120).Draw(t, "z"),
			IsAlwaysOnTop:          rapid.Bool().Draw(t, "onTop"),
			PreventSettingsChanges: rapid.Bool().Draw(t, "locked"),
		}
	}
	return elements
}

func TestComputeRanks_RanksAreAPermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements := genElements(t)
		ranks := zorder.ComputeRanks(elements, zorder.Options{})
		if len(ranks) != len(elements) {
			t.Fatalf("got %d ranks for %d elements", len(ranks), len(elements))
		}
		seen := make([]bool, len(elements)+1)
		for id, r := range ranks {
			if r < 1 || r > len(elements) {
				t.Fatalf("element %d: rank %d out of 1..%d", id, r, len(elements))
			}
			if seen[r] {
				t.Fatalf("duplicate rank %d", r)
			}
			seen[r] = true
		}
	})
}

func TestComputeRanks_MonotonicInTierAndZ(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements := genElements(t)
		opts := zorder.Options{}
		ranks := zorder.ComputeRanks(elements, opts)
		for _, a := range elements {
			for _, b := range elements {
				ta, tb := zorder.TierOf(a, opts), zorder.TierOf(b, opts)
				if ta > tb && ranks[a.ID] > ranks[b.ID] {
					t.Fatalf("higher tier ranked below: %v vs %v", a, b)
				}
				if ta == tb && a.ZIndex > b.ZIndex && ranks[a.ID] > ranks[b.ID] {
					t.Fatalf("higher z ranked below within tier: %v vs %v", a, b)
				}
			}
		}
	})
}

func TestRecalcAlwaysOnTop_BandInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements := genElements(t)
		opts := zorder.Options{}
		zorder.RecalcAlwaysOnTop(elements, opts)
		for _, e := range elements {
			if e.IsAlwaysOnTop {
				lo, hi := zorder.BandRange(zorder.TierOf(e, opts))
				if e.ZIndex < lo || e.ZIndex >= hi {
					t.Fatalf("always-on-top element %d z=%d outside [%d,%d)", e.ID, e.ZIndex, lo, hi)
				}
			} else if zorder.InBand(e.ZIndex) {
				t.Fatalf("ordinary element %d sits in reserved band (z=%d)", e.ID, e.ZIndex)
			}
		}
		// Second pass changes nothing.
		if changed := zorder.RecalcAlwaysOnTop(elements, opts); len(changed) != 0 {
			t.Fatalf("recalc not idempotent: %d changed on second pass", len(changed))
		}
	})
}

func TestCommitOrder_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")
		elements := make([]*model.Element, n)
		for i := range elements {
			elements[i] = &model.Element{ID: i + 1}
		}
		perm := rapid.Permutation(seq(1, n)).Draw(t, "perm")

		zorder.CommitOrder(perm, elements)
		ranks := zorder.ComputeRanks(elements, zorder.Options{})
		for i, id := range perm {
			if ranks[id] != i+1 {
				t.Fatalf("committed position %d, got rank %d for element %d", i+1, ranks[id], id)
			}
		}
	})
}

func seq(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}
