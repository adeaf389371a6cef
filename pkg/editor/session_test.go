package editor_test

import (
	"errors"
	"testing"

	"github.com/openstream-dk/openstream/pkg/editor"
	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

// twoSlideShow builds a show with an ordinary and an always-on-top element
// on slide one, and a persistent element on slide two.
func twoSlideShow() *model.Slideshow {
	return &model.Slideshow{
		ID:   1,
		Name: "lobby",
		Slides: []*model.Slide{
			{ID: 1, Elements: []*model.Element{
				{ID: 1, Type: model.ElementText, ZIndex: 1},
				{ID: 2, Type: model.ElementImage, ZIndex: 2, IsAlwaysOnTop: true},
			}},
			{ID: 2, Elements: []*model.Element{
				{ID: 3, Type: model.ElementText, ZIndex: 1, IsPersistent: true},
			}},
		},
	}
}

func TestSession_VisibleIncludesPersistent(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	visible := s.Visible()
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible elements on slide 1, got %d", len(visible))
	}
}

func TestSession_AddElement(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	el, err := s.AddElement(model.ElementShape, "banner")
	if err != nil {
		t.Fatal(err)
	}
	if el.ID != 4 {
		t.Errorf("new id = %d, want 4", el.ID)
	}
	if el.ZIndex != 3 {
		t.Errorf("new z = %d, want max+1 = 3", el.ZIndex)
	}
	if s.Selected() != el {
		t.Error("new element should be selected")
	}
	if !s.Dirty() {
		t.Error("session should be dirty after add")
	}
}

func TestSession_AddElementWithoutSlides(t *testing.T) {
	s := editor.New(&model.Slideshow{Name: "empty"}, zorder.Options{})
	if _, err := s.AddElement(model.ElementText, "x"); !errors.Is(err, editor.ErrNoSlide) {
		t.Errorf("err = %v, want ErrNoSlide", err)
	}
}

func TestSession_DeletePersistentRemovesEverywhere(t *testing.T) {
	show := twoSlideShow()
	s := editor.New(show, zorder.Options{})
	s.Select(3) // persistent element homed on slide 2
	if err := s.DeleteSelected(); err != nil {
		t.Fatal(err)
	}
	for _, slide := range show.Slides {
		if slide.ElementByID(3) != nil {
			t.Errorf("element 3 still present on slide %d", slide.ID)
		}
	}
}

func TestSession_DeleteLockedRejected(t *testing.T) {
	show := twoSlideShow()
	show.Slides[0].Elements[0].PreventSettingsChanges = true
	s := editor.New(show, zorder.Options{})
	s.Select(1)
	if err := s.DeleteSelected(); !errors.Is(err, editor.ErrElementLocked) {
		t.Errorf("err = %v, want ErrElementLocked", err)
	}
}

func TestSession_ToggleAlwaysOnTop(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	s.Select(1)
	if err := s.ToggleAlwaysOnTop(); err != nil {
		t.Fatal(err)
	}
	el := s.Selected()
	if !el.IsAlwaysOnTop {
		t.Fatal("flag not set")
	}
	if !zorder.InBand(el.ZIndex) {
		t.Errorf("z = %d, expected a band value", el.ZIndex)
	}

	// Toggle back off: returns to ordinary space above the existing max.
	if err := s.ToggleAlwaysOnTop(); err != nil {
		t.Fatal(err)
	}
	if zorder.InBand(el.ZIndex) {
		t.Errorf("z = %d still in band after toggle off", el.ZIndex)
	}
	if el.ZIndex < 1 {
		t.Errorf("z = %d, want >= 1", el.ZIndex)
	}
}

func TestSession_ToggleOffUsesFallbackOnFailure(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	s.SetZIndexSource(func() (int, error) { return 0, errors.New("backend down") })
	s.Select(2) // already always-on-top
	if err := s.ToggleAlwaysOnTop(); err != nil {
		t.Fatal(err)
	}
	if got := s.Selected().ZIndex; got != 1 {
		t.Errorf("z = %d, want fallback 1", got)
	}
}

func TestSession_RenameSelected(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	if err := s.RenameSelected("x"); !errors.Is(err, editor.ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
	s.Select(1)
	if err := s.RenameSelected("headline"); err != nil {
		t.Fatal(err)
	}
	if got := s.Selected().Name; got != "headline" {
		t.Errorf("name = %q, want %q", got, "headline")
	}
	if !s.Dirty() {
		t.Error("rename should mark the element changed")
	}
	s.Drain()
	// Renaming to the same value is a no-op.
	if err := s.RenameSelected("headline"); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() {
		t.Error("no-op rename should not dirty the session")
	}
}

func TestSession_BringToFrontAndSendToBack(t *testing.T) {
	show := &model.Slideshow{Slides: []*model.Slide{
		{ID: 1, Elements: []*model.Element{
			{ID: 1, ZIndex: 2},
			{ID: 2, ZIndex: 5},
		}},
	}}
	s := editor.New(show, zorder.Options{})

	s.Select(1)
	if err := s.BringToFront(); err != nil {
		t.Fatal(err)
	}
	if got := show.Slides[0].ElementByID(1).ZIndex; got != 6 {
		t.Errorf("bring-to-front z = %d, want 6", got)
	}

	s.Select(2)
	if err := s.SendToBack(); err != nil {
		t.Fatal(err)
	}
	ranks := s.Ranks()
	if ranks[2] != 2 {
		t.Errorf("sent-back element rank = %d, want 2", ranks[2])
	}
}

func TestSession_MoveToRejectsCrossingTheBand(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	s.Select(1)        // ordinary
	err := s.MoveTo(0) // above the always-on-top element at rank 1
	if !errors.Is(err, editor.ErrInvalidMove) {
		t.Errorf("err = %v, want ErrInvalidMove", err)
	}
}

func TestSession_MoveToRejectsLoweringBandElement(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	s.Select(2)        // always-on-top
	err := s.MoveTo(2) // below both ordinary elements
	if !errors.Is(err, editor.ErrInvalidMove) {
		t.Errorf("err = %v, want ErrInvalidMove", err)
	}
	if r := s.Ranks()[2]; r != 1 {
		t.Errorf("rank changed to %d despite rejection", r)
	}
}

func TestSession_OrdinaryElementsStayBelowTheBand(t *testing.T) {
	show := &model.Slideshow{Slides: []*model.Slide{
		{ID: 1, Elements: []*model.Element{
			{ID: 1, ZIndex: 1},
			{ID: 2, ZIndex: zorder.BandBase + 1, IsAlwaysOnTop: true},
		}},
	}}
	s := editor.New(show, zorder.Options{})

	s.Select(1)
	if err := s.BringToFront(); err != nil {
		t.Fatal(err)
	}
	z := show.Slides[0].ElementByID(1).ZIndex
	if zorder.InBand(z) {
		t.Fatalf("bring-to-front wrote band value %d for ordinary element", z)
	}
	if z != 2 {
		t.Errorf("z = %d, want 2 (one above the highest ordinary value)", z)
	}

	el, err := s.AddElement(model.ElementText, "ticker")
	if err != nil {
		t.Fatal(err)
	}
	if zorder.InBand(el.ZIndex) {
		t.Fatalf("new element assigned band value %d", el.ZIndex)
	}
	if el.ZIndex != 3 {
		t.Errorf("new element z = %d, want 3", el.ZIndex)
	}
}

func TestSession_RaiseLowerAmongOrdinary(t *testing.T) {
	show := &model.Slideshow{Slides: []*model.Slide{
		{ID: 1, Elements: []*model.Element{
			{ID: 1, ZIndex: 1},
			{ID: 2, ZIndex: 2},
			{ID: 3, ZIndex: 3},
		}},
	}}
	s := editor.New(show, zorder.Options{})
	s.Select(1)
	if err := s.Raise(); err != nil {
		t.Fatal(err)
	}
	ranks := s.Ranks()
	if ranks[1] != 2 {
		t.Errorf("rank after raise = %d, want 2", ranks[1])
	}
	if err := s.Lower(); err != nil {
		t.Fatal(err)
	}
	if ranks = s.Ranks(); ranks[1] != 3 {
		t.Errorf("rank after lower = %d, want 3", ranks[1])
	}
}

func TestSession_UndoRedo(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	if err := s.Undo(); !errors.Is(err, editor.ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}

	if _, err := s.AddElement(model.ElementText, "headline"); err != nil {
		t.Fatal(err)
	}
	if len(s.Slide().Elements) != 3 {
		t.Fatalf("expected 3 elements after add, got %d", len(s.Slide().Elements))
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if len(s.Slide().Elements) != 2 {
		t.Fatalf("expected 2 elements after undo, got %d", len(s.Slide().Elements))
	}

	if err := s.Redo(); err != nil {
		t.Fatal(err)
	}
	if len(s.Slide().Elements) != 3 {
		t.Fatalf("expected 3 elements after redo, got %d", len(s.Slide().Elements))
	}
}

func TestSession_UndoInvalidatesRedoOnNewMutation(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	if _, err := s.AddElement(model.ElementText, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddElement(model.ElementText, "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Redo(); !errors.Is(err, editor.ErrNothingToRedo) {
		t.Errorf("err = %v, want ErrNothingToRedo", err)
	}
}

func TestSession_DrainClearsChanges(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	s.Select(1)
	if err := s.BringToFront(); err != nil {
		t.Fatal(err)
	}
	first := s.Drain()
	if len(first) == 0 {
		t.Fatal("expected changed elements")
	}
	if second := s.Drain(); second != nil {
		t.Errorf("second drain should be empty, got %d", len(second))
	}
	if s.Dirty() {
		t.Error("session still dirty after drain")
	}
}

func TestSession_GotoSlideClamps(t *testing.T) {
	s := editor.New(twoSlideShow(), zorder.Options{})
	s.GotoSlide(99)
	if s.SlideIndex() != 1 {
		t.Errorf("index = %d, want clamp to 1", s.SlideIndex())
	}
	s.GotoSlide(-5)
	if s.SlideIndex() != 0 {
		t.Errorf("index = %d, want clamp to 0", s.SlideIndex())
	}
}
