package zorder

import (
	"sort"

	"github.com/openstream-dk/openstream/pkg/model"
)

// RecalcAlwaysOnTop reassigns band z-indices to every always-on-top element
// so that each tier's elements occupy a dense run at the bottom of the
// tier's reserved range, preserving their existing relative order.
//
// Elements are sorted ascending by (tier, current zIndex, input position) and
// numbered per tier from the band floor upward. Only elements whose stored
// ZIndex actually changes are mutated; the changed subset is returned for the
// caller to persist. Calling twice without intervening flag changes returns
// an empty changed set.
func RecalcAlwaysOnTop(elements []*model.Element, opts Options) []*model.Element {
	type entry struct {
		el   *model.Element
		tier Tier
		pos  int
	}
	var onTop []entry
	for i, el := range elements {
		if el == nil || !el.IsAlwaysOnTop {
			continue
		}
		onTop = append(onTop, entry{el: el, tier: TierOf(el, opts), pos: i})
	}
	sort.SliceStable(onTop, func(i, j int) bool {
		if onTop[i].tier != onTop[j].tier {
			return onTop[i].tier < onTop[j].tier
		}
		if onTop[i].el.ZIndex != onTop[j].el.ZIndex {
			return onTop[i].el.ZIndex < onTop[j].el.ZIndex
		}
		return onTop[i].pos < onTop[j].pos
	})

	var changed []*model.Element
	offsets := make(map[Tier]int, 3)
	for _, e := range onTop {
		lo, _ := BandRange(e.tier)
		newZ := lo + offsets[e.tier] + 1
		offsets[e.tier]++
		if e.el.ZIndex != newZ {
			e.el.ZIndex = newZ
			changed = append(changed, e.el)
		}
	}
	return changed
}

// ExitBand moves an element whose always-on-top flag was just cleared back
// into ordinary z-index space. The new value comes from getNewZIndex; a nil
// or failing collaborator falls back to 1 so the element stays renderable.
func ExitBand(el *model.Element, getNewZIndex func() (int, error)) {
	if el == nil {
		return
	}
	if getNewZIndex == nil {
		el.ZIndex = 1
		return
	}
	z, err := getNewZIndex()
	if err != nil || z <= 0 {
		el.ZIndex = 1
		return
	}
	el.ZIndex = z
}
