package model

import (
	"fmt"
	"time"
)

// SlideshowMode selects how a slideshow is played out on a display.
type SlideshowMode string

const (
	// ModeSlideshow advances slides automatically on a timer.
	ModeSlideshow SlideshowMode = "slideshow"
	// ModeInteractive waits for touch input; excluded from playlists.
	ModeInteractive SlideshowMode = "interactive"
)

// Slide is one screen of a slideshow: a background plus an ordered
// collection of elements. Element order in the slice is storage order;
// visual stacking comes from ZIndex (see pkg/zorder).
type Slide struct {
	ID         int        `json:"id"`
	Name       string     `json:"name,omitempty"`
	Duration   int        `json:"duration,omitempty"` // seconds on screen
	Background string     `json:"background,omitempty"`
	Elements   []*Element `json:"elements"`
}

// ElementByID returns the slide's element with the given id, or nil.
func (s *Slide) ElementByID(id int) *Element {
	for _, el := range s.Elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

// Slideshow is the root editable document.
type Slideshow struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Mode          SlideshowMode `json:"mode,omitempty"`
	Branch        string        `json:"branch,omitempty"`
	Category      string        `json:"category,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	PreviewWidth  int           `json:"previewWidth,omitempty"`
	PreviewHeight int           `json:"previewHeight,omitempty"`
	Slides        []*Slide      `json:"slides"`
	UpdatedAt     time.Time     `json:"updatedAt,omitempty"`
}

// DefaultPreviewWidth and DefaultPreviewHeight match the backend defaults.
const (
	DefaultPreviewWidth  = 1920
	DefaultPreviewHeight = 1080
)

// NewSlideshow returns an empty slideshow with backend-default dimensions.
func NewSlideshow(name string) *Slideshow {
	return &Slideshow{
		Name:          name,
		Mode:          ModeSlideshow,
		PreviewWidth:  DefaultPreviewWidth,
		PreviewHeight: DefaultPreviewHeight,
	}
}

// Validate reports structural problems with the slideshow.
func (s *Slideshow) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("slideshow %d: name is required", s.ID)
	}
	if s.PreviewWidth <= 0 || s.PreviewHeight <= 0 {
		return fmt.Errorf("slideshow %d: preview dimensions must be positive, got %dx%d",
			s.ID, s.PreviewWidth, s.PreviewHeight)
	}
	switch s.Mode {
	case "", ModeSlideshow, ModeInteractive:
	default:
		return fmt.Errorf("slideshow %d: unknown mode %q", s.ID, s.Mode)
	}
	seen := make(map[int]bool)
	for _, sl := range s.Slides {
		for _, el := range sl.Elements {
			if err := el.Validate(); err != nil {
				return fmt.Errorf("slideshow %d, slide %d: %w", s.ID, sl.ID, err)
			}
			// Persistent elements legitimately appear once per home slide
			// only; ids must still be globally unique.
			if seen[el.ID] {
				return fmt.Errorf("slideshow %d: duplicate element id %d", s.ID, el.ID)
			}
			seen[el.ID] = true
		}
	}
	return nil
}

// AspectRatio returns the slideshow's display ratio as a canonical string.
func (s *Slideshow) AspectRatio() string {
	return AspectRatio(s.PreviewWidth, s.PreviewHeight)
}

// SlideByID returns the slide with the given id, or nil.
func (s *Slideshow) SlideByID(id int) *Slide {
	for _, sl := range s.Slides {
		if sl.ID == id {
			return sl
		}
	}
	return nil
}

// PersistentElements returns every element flagged persistent, across all
// slides, in slide order. These are shown on every slide of the show.
func (s *Slideshow) PersistentElements() []*Element {
	var out []*Element
	for _, sl := range s.Slides {
		for _, el := range sl.Elements {
			if el.IsPersistent {
				out = append(out, el)
			}
		}
	}
	return out
}

// MaxElementID returns the highest element id in use, or 0.
func (s *Slideshow) MaxElementID() int {
	max := 0
	for _, sl := range s.Slides {
		for _, el := range sl.Elements {
			if el.ID > max {
				max = el.ID
			}
		}
	}
	return max
}
