// Package zorder implements the element stacking model of the slide editor:
// priority tiers, rank computation, the reserved z-index bands for
// always-on-top elements, and the reorder operations the layers panel uses.
//
// Everything here is a pure in-memory transform over model.Element slices.
// Rendering and persistence react to the mutated ZIndex fields; nothing in
// this package does I/O.
package zorder

import "github.com/openstream-dk/openstream/pkg/model"

// Tier is the priority tier of an element. Tiers order elements ahead of the
// raw z-index: any element in a higher tier stacks above every element in a
// lower one, whatever their ZIndex values say.
type Tier int

const (
	// TierNormal is an ordinary element.
	TierNormal Tier = iota
	// TierAlwaysOnTop is an always-on-top element.
	TierAlwaysOnTop
	// TierTemplateLocked is always-on-top plus the template lock flag.
	TierTemplateLocked
	// TierParentLocked is always-on-top plus locked by a parent template.
	// Only reachable in suborganisation mode.
	TierParentLocked
)

// String returns a short label for the tier.
func (t Tier) String() string {
	switch t {
	case TierAlwaysOnTop:
		return "always-on-top"
	case TierTemplateLocked:
		return "template-locked"
	case TierParentLocked:
		return "parent-locked"
	default:
		return "normal"
	}
}

// Options configures tier computation for a deployment mode.
type Options struct {
	// SubOrgMode enables the parent-template lock tier. Outside suborg
	// mode the flag on the element is ignored.
	SubOrgMode bool
}

// TierOf computes the canonical priority tier for an element. Every consumer
// (rank calculator, band allocator, move validation) goes through this one
// function so tie-break behavior cannot diverge.
func TierOf(el *model.Element, opts Options) Tier {
	if el == nil || !el.IsAlwaysOnTop {
		return TierNormal
	}
	if opts.SubOrgMode && el.LockedSettingsSubOrgTemplate {
		return TierParentLocked
	}
	if el.PreventSettingsChanges {
		return TierTemplateLocked
	}
	return TierAlwaysOnTop
}

// Reserved z-index space for always-on-top elements. Tier t (t >= 1)
// occupies [BandBase + BandWidth*(t-1), BandBase + BandWidth*t).
const (
	BandBase  = 100000
	BandWidth = 1000
)

// BandRange returns the half-open z-index interval reserved for a tier.
// TierNormal has no band; it returns (0, 0).
func BandRange(t Tier) (lo, hi int) {
	if t < TierAlwaysOnTop {
		return 0, 0
	}
	lo = BandBase + BandWidth*(int(t)-1)
	return lo, lo + BandWidth
}

// InBand reports whether z falls inside any reserved band.
func InBand(z int) bool {
	return z >= BandBase && z < BandBase+BandWidth*(int(TierParentLocked))
}

// VisibleSet returns the de-duplicated union of the current slide's elements
// and every persistent element of the show, keyed by id. An element present
// in both sources is counted once, keeping its current-slide position.
func VisibleSet(show *model.Slideshow, current *model.Slide) []*model.Element {
	if current == nil {
		return nil
	}
	seen := make(map[int]bool, len(current.Elements))
	out := make([]*model.Element, 0, len(current.Elements))
	for _, el := range current.Elements {
		if seen[el.ID] {
			continue
		}
		seen[el.ID] = true
		out = append(out, el)
	}
	if show == nil {
		return out
	}
	for _, el := range show.PersistentElements() {
		if seen[el.ID] {
			continue
		}
		seen[el.ID] = true
		out = append(out, el)
	}
	return out
}

// NextZIndex produces a fresh non-band z-index: one greater than the highest
// non-band value among the visible elements, or 1 when there is none. This is
// the getNewZIndex collaborator the editor hands to toggle-off.
func NextZIndex(visible []*model.Element) int {
	max := 0
	for _, el := range visible {
		if el == nil || InBand(el.ZIndex) {
			continue
		}
		if el.ZIndex > max {
			max = el.ZIndex
		}
	}
	return max + 1
}
