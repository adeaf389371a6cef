package model

import (
	"errors"
	"fmt"
)

// ErrNoDefaultContent is returned when a display group has neither (or both)
// of a default slideshow and a default playlist configured.
var ErrNoDefaultContent = errors.New("exactly one of default slideshow or default playlist must be set")

// ContentRef points at either a slideshow or a playlist. Exactly one id is
// non-zero in a valid ref.
type ContentRef struct {
	SlideshowID int `json:"slideshowId,omitempty"`
	PlaylistID  int `json:"playlistId,omitempty"`
}

// IsZero reports whether the ref points at nothing.
func (r ContentRef) IsZero() bool { return r.SlideshowID == 0 && r.PlaylistID == 0 }

func (r ContentRef) String() string {
	switch {
	case r.SlideshowID != 0:
		return fmt.Sprintf("slideshow:%d", r.SlideshowID)
	case r.PlaylistID != 0:
		return fmt.Sprintf("playlist:%d", r.PlaylistID)
	default:
		return "none"
	}
}

// Validate enforces the exactly-one rule.
func (r ContentRef) Validate() error {
	if (r.SlideshowID == 0) == (r.PlaylistID == 0) {
		return ErrNoDefaultContent
	}
	return nil
}

// DisplayGroup is a set of physical displays showing the same content.
// Only displays with a matching aspect ratio may join the group.
type DisplayGroup struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Branch      string     `json:"branch,omitempty"`
	AspectRatio string     `json:"aspectRatio,omitempty"`
	Default     ContentRef `json:"default"`
}

// Validate checks the default content rule.
func (g *DisplayGroup) Validate() error {
	if err := g.Default.Validate(); err != nil {
		return fmt.Errorf("display group %q: %w", g.Name, err)
	}
	return nil
}

// Display is one physical screen. UID is an optional identifier from an
// external management system, stable across hostname changes.
type Display struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	UID         string `json:"uid,omitempty"`
	GroupID     int    `json:"groupId,omitempty"`
	Branch      string `json:"branch,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// CanJoin reports whether the display may be added to the group.
func (d *Display) CanJoin(g *DisplayGroup) error {
	if g.AspectRatio != "" && d.AspectRatio != "" && d.AspectRatio != g.AspectRatio {
		return fmt.Errorf("display aspect ratio (%s) does not match group aspect ratio (%s)",
			d.AspectRatio, g.AspectRatio)
	}
	return nil
}
