package zorder

import (
	"sort"

	"github.com/openstream-dk/openstream/pkg/model"
)

// CommitOrder writes a new visual order back into the slide's elements.
// orderedIDs lists the visible elements topmost-first, as the layers panel
// shows them after a drag; the element at position index receives
// zIndex = N - index, so the topmost ends up with the highest value.
//
// IDs with no element in slideElements are skipped: persistent elements
// native to other slides appear in the visible order but are not written
// here. They still participate in the next rank computation.
func CommitOrder(orderedIDs []int, slideElements []*model.Element) {
	if len(orderedIDs) == 0 || len(slideElements) == 0 {
		return
	}
	byID := make(map[int]*model.Element, len(slideElements))
	for _, el := range slideElements {
		if el != nil {
			byID[el.ID] = el
		}
	}
	n := len(orderedIDs)
	for i, id := range orderedIDs {
		if el, ok := byID[id]; ok {
			el.ZIndex = n - i
		}
	}
}

// ValidateMove checks a proposed reorder of the topmost-first element list:
// moving the element at index from to index to. The two element groups may
// not interleave: an ordinary element may never land above an always-on-top
// element, and an always-on-top element may never land below an ordinary
// one. The drag hook rejects such moves before anything is committed; the
// committed order would not survive the band recalc anyway.
func ValidateMove(ordered []*model.Element, from, to int) bool {
	if from < 0 || from >= len(ordered) || to < 0 || to >= len(ordered) {
		return false
	}
	moved := ordered[from]
	if moved == nil {
		return false
	}
	if moved.IsAlwaysOnTop {
		// Moving down: every element the move would pass must be
		// always-on-top too.
		for i := from + 1; i <= to; i++ {
			if ordered[i] != nil && !ordered[i].IsAlwaysOnTop {
				return false
			}
		}
		return true
	}
	if to >= from {
		return true
	}
	// Moving up: every element the move would pass must be ordinary too.
	for i := to; i < from; i++ {
		if ordered[i] != nil && ordered[i].IsAlwaysOnTop {
			return false
		}
	}
	return true
}

// BringToFront raises the element above every ordinary element by assigning
// one more than the highest non-band z-index. Reserved band values are
// excluded from the maximum so an ordinary element can never be pushed into
// the band; always-on-top elements get their band value from the recalc that
// follows any bulk mutation. No-op on nil input.
func BringToFront(el *model.Element, visible []*model.Element) {
	if el == nil || len(visible) == 0 {
		return
	}
	el.ZIndex = NextZIndex(visible)
}

// SendToBack lowers the element below everything currently visible, then
// renormalizes the slide's ordinary elements to a contiguous 1..M sequence
// ascending by their (possibly negative) interim z-index. Always-on-top
// elements keep their band values; renumbering them here would pull them out
// of the reserved range. No-op on nil input.
func SendToBack(el *model.Element, slideElements []*model.Element) {
	if el == nil || len(slideElements) == 0 {
		return
	}
	min := slideElements[0].ZIndex
	for _, v := range slideElements[1:] {
		if v.ZIndex < min {
			min = v.ZIndex
		}
	}
	el.ZIndex = min - 1

	normalized := make([]*model.Element, 0, len(slideElements))
	for _, v := range slideElements {
		if v != nil && !v.IsAlwaysOnTop {
			normalized = append(normalized, v)
		}
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].ZIndex < normalized[j].ZIndex
	})
	for i, v := range normalized {
		v.ZIndex = i + 1
	}
}
