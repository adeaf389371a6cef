package editor

import (
	"fmt"

	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

// ToggleAlwaysOnTop flips the selected element's always-on-top flag. Turning
// it on lifts the element into its tier's reserved band; turning it off
// drops it back to one above the highest ordinary z-index.
func (s *Session) ToggleAlwaysOnTop() error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	if s.isLocked(el) {
		return fmt.Errorf("cannot change element %d: %w", el.ID, ErrElementLocked)
	}
	s.pushUndo()
	el.IsAlwaysOnTop = !el.IsAlwaysOnTop
	s.markChanged(el)
	if el.IsAlwaysOnTop {
		s.markChanged(zorder.RecalcAlwaysOnTop(s.Visible(), s.opts)...)
	} else {
		zorder.ExitBand(el, s.newZIndex)
		s.markChanged(el)
	}
	return nil
}

// TogglePersistent flips the pinned flag on the selected element, making it
// visible on every slide (or only its home slide again).
func (s *Session) TogglePersistent() error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	if s.isLocked(el) {
		return fmt.Errorf("cannot change element %d: %w", el.ID, ErrElementLocked)
	}
	s.pushUndo()
	el.IsPersistent = !el.IsPersistent
	s.markChanged(el)
	return nil
}

// BringToFront raises the selected element above the whole visible set.
func (s *Session) BringToFront() error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	s.pushUndo()
	zorder.BringToFront(el, s.Visible())
	s.markChanged(el)
	s.recalcBands()
	return nil
}

// SendToBack lowers the selected element below the whole visible set and
// renormalizes the slide's ordinary z-indices.
func (s *Session) SendToBack() error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	slide := s.Slide()
	if slide == nil {
		return ErrNoSlide
	}
	s.pushUndo()
	zorder.SendToBack(el, slide.Elements)
	s.markChanged(slide.Elements...)
	return nil
}

// MoveTo moves the selected element to the given position in the
// topmost-first order, as a drag in the layers panel would. The move is
// validated first: the ordinary and always-on-top groups may not interleave
// in either direction.
func (s *Session) MoveTo(target int) error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	slide := s.Slide()
	if slide == nil {
		return ErrNoSlide
	}
	ordered := s.Ranked()
	from := -1
	for i, e := range ordered {
		if e.ID == el.ID {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrNoSelection
	}
	if target < 0 || target >= len(ordered) || target == from {
		return nil
	}
	if !zorder.ValidateMove(ordered, from, target) {
		return ErrInvalidMove
	}
	s.pushUndo()

	moved := make([]*model.Element, 0, len(ordered))
	moved = append(moved, ordered[:from]...)
	moved = append(moved, ordered[from+1:]...)
	moved = append(moved[:target], append([]*model.Element{el}, moved[target:]...)...)

	ids := make([]int, len(moved))
	for i, e := range moved {
		ids[i] = e.ID
	}
	zorder.CommitOrder(ids, slide.Elements)
	s.markChanged(slide.Elements...)
	// Lift the band elements back into their reserved range; the commit
	// wrote plain sequence values over them.
	s.recalcBands()
	return nil
}

// Raise moves the selected element one step toward the front.
func (s *Session) Raise() error { return s.step(-1) }

// Lower moves the selected element one step toward the back.
func (s *Session) Lower() error { return s.step(1) }

func (s *Session) step(delta int) error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	ranks := s.Ranks()
	return s.MoveTo(ranks[el.ID] - 1 + delta)
}

// recalcBands reassigns band z-indices after any bulk z mutation and records
// the changed elements for persistence.
func (s *Session) recalcBands() {
	s.markChanged(zorder.RecalcAlwaysOnTop(s.Visible(), s.opts)...)
}
