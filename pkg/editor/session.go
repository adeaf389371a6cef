// Package editor owns the mutable state of one slideshow editing session:
// current slide, selection, undo/redo history and the set of elements whose
// z-indices changed and still need persisting.
//
// The session is the single writer over the slideshow it holds. All stacking
// math is delegated to pkg/zorder; this package sequences the calls so a
// band recalculation never interleaves with an in-flight reorder.
package editor

import (
	"errors"
	"fmt"

	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

// Session errors callers branch on.
var (
	ErrNoSlide       = errors.New("no slide selected")
	ErrNoSelection   = errors.New("no element selected")
	ErrElementLocked = errors.New("element settings are locked")
	ErrInvalidMove   = errors.New("move would place an ordinary element above an always-on-top element")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// defaultHistory caps the undo stack; oldest snapshots fall off first.
const defaultHistory = 100

// Session is the editing state for one slideshow.
type Session struct {
	show       *model.Slideshow
	slideIdx   int
	selectedID int
	opts       zorder.Options

	undo         []snapshot
	redo         []snapshot
	historyLimit int

	// changed accumulates elements whose ZIndex or flags were mutated since
	// the last Drain; the caller persists them fire-and-forget.
	changed map[int]*model.Element

	// newZIndex is the fresh-z-index collaborator used when an element
	// leaves the always-on-top band. Defaults to a visible-set scan.
	newZIndex func() (int, error)
}

// New creates a session over the given slideshow.
func New(show *model.Slideshow, opts zorder.Options) *Session {
	s := &Session{
		show:         show,
		opts:         opts,
		changed:      make(map[int]*model.Element),
		historyLimit: defaultHistory,
	}
	s.newZIndex = func() (int, error) {
		return zorder.NextZIndex(s.Visible()), nil
	}
	return s
}

// SetHistoryLimit changes the undo stack depth. Values below 1 are ignored.
func (s *Session) SetHistoryLimit(n int) {
	if n > 0 {
		s.historyLimit = n
	}
}

// SetZIndexSource overrides the fresh-z-index collaborator, e.g. with one
// that asks the backend. A failing source falls back to z-index 1.
func (s *Session) SetZIndexSource(fn func() (int, error)) {
	if fn != nil {
		s.newZIndex = fn
	}
}

// Show returns the slideshow under edit.
func (s *Session) Show() *model.Slideshow { return s.show }

// Options returns the session's stacking options.
func (s *Session) Options() zorder.Options { return s.opts }

// Slide returns the current slide, or nil when the show has none.
func (s *Session) Slide() *model.Slide {
	if s.show == nil || s.slideIdx < 0 || s.slideIdx >= len(s.show.Slides) {
		return nil
	}
	return s.show.Slides[s.slideIdx]
}

// SlideIndex returns the current slide index.
func (s *Session) SlideIndex() int { return s.slideIdx }

// GotoSlide switches to the slide at index i, clamping to the valid range.
// Selection is cleared if the selected element is no longer visible.
func (s *Session) GotoSlide(i int) {
	if s.show == nil || len(s.show.Slides) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.show.Slides) {
		i = len(s.show.Slides) - 1
	}
	s.slideIdx = i
	if s.selected() == nil {
		s.selectedID = 0
	}
}

// NextSlide and PrevSlide step through the deck.
func (s *Session) NextSlide() { s.GotoSlide(s.slideIdx + 1) }
func (s *Session) PrevSlide() { s.GotoSlide(s.slideIdx - 1) }

// Visible returns the visible element set for the current slide: its own
// elements plus every persistent element, deduplicated by id.
func (s *Session) Visible() []*model.Element {
	return zorder.VisibleSet(s.show, s.Slide())
}

// Ranks computes the current rank map for the visible set.
func (s *Session) Ranks() map[int]int {
	return zorder.ComputeRanks(s.Visible(), s.opts)
}

// Ranked returns the visible set ordered topmost-first.
func (s *Session) Ranked() []*model.Element {
	return zorder.Ranked(s.Visible(), s.opts)
}

// Select marks the element with the given id as selected. Unknown ids clear
// the selection.
func (s *Session) Select(id int) {
	s.selectedID = id
	if s.selected() == nil {
		s.selectedID = 0
	}
}

// Selected returns the selected element, or nil.
func (s *Session) Selected() *model.Element { return s.selected() }

func (s *Session) selected() *model.Element {
	if s.selectedID == 0 {
		return nil
	}
	for _, el := range s.Visible() {
		if el.ID == s.selectedID {
			return el
		}
	}
	return nil
}

// markChanged records an element for later persistence.
func (s *Session) markChanged(els ...*model.Element) {
	for _, el := range els {
		if el != nil {
			s.changed[el.ID] = el
		}
	}
}

// Drain returns and clears the set of elements mutated since the last call.
func (s *Session) Drain() []*model.Element {
	if len(s.changed) == 0 {
		return nil
	}
	out := make([]*model.Element, 0, len(s.changed))
	for _, el := range s.changed {
		out = append(out, el)
	}
	s.changed = make(map[int]*model.Element)
	return out
}

// Dirty reports whether unsaved element changes exist.
func (s *Session) Dirty() bool { return len(s.changed) > 0 }

// AddElement creates a new element on the current slide with a fresh id and
// a z-index one above the highest ordinary value in the visible set, selects
// it, and returns it. Band values are excluded from that maximum so the new
// element never starts inside the reserved always-on-top range.
func (s *Session) AddElement(typ model.ElementType, name string) (*model.Element, error) {
	slide := s.Slide()
	if slide == nil {
		return nil, ErrNoSlide
	}
	s.pushUndo()
	el := &model.Element{
		ID:     s.show.MaxElementID() + 1,
		Type:   typ,
		Name:   name,
		ZIndex: zorder.NextZIndex(s.Visible()),
	}
	slide.Elements = append(slide.Elements, el)
	s.selectedID = el.ID
	s.markChanged(el)
	debug.Log("added %s to slide %d", el, slide.ID)
	return el, nil
}

// DeleteSelected removes the selected element. Persistent elements are
// removed from every slide they appear on.
func (s *Session) DeleteSelected() error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	if s.isLocked(el) {
		return fmt.Errorf("cannot delete element %d: %w", el.ID, ErrElementLocked)
	}
	s.pushUndo()
	slides := []*model.Slide{s.Slide()}
	if el.IsPersistent {
		slides = s.show.Slides
	}
	for _, slide := range slides {
		if slide == nil {
			continue
		}
		for i, e := range slide.Elements {
			if e.ID == el.ID {
				slide.Elements = append(slide.Elements[:i], slide.Elements[i+1:]...)
				break
			}
		}
	}
	delete(s.changed, el.ID)
	s.selectedID = 0
	return nil
}

// RenameSelected changes the selected element's display name.
func (s *Session) RenameSelected(name string) error {
	el := s.selected()
	if el == nil {
		return ErrNoSelection
	}
	if s.isLocked(el) {
		return fmt.Errorf("cannot rename element %d: %w", el.ID, ErrElementLocked)
	}
	if name == el.Name {
		return nil
	}
	s.pushUndo()
	el.Name = name
	s.markChanged(el)
	return nil
}

// isLocked reports whether the element's settings may not be changed in the
// current mode. Parent-template locks only bind in suborg mode.
func (s *Session) isLocked(el *model.Element) bool {
	if el.PreventSettingsChanges {
		return true
	}
	return s.opts.SubOrgMode && el.LockedSettingsSubOrgTemplate
}
