package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInteractiveInPlaylist is returned when an interactive slideshow is added
// to a playlist; interactive content needs a viewer, not a rotation.
var ErrInteractiveInPlaylist = errors.New("interactive slideshows cannot be added to playlists")

// PlaylistItem is one slideshow slot in a playlist. Position is 1-based.
type PlaylistItem struct {
	ID          int `json:"id"`
	SlideshowID int `json:"slideshowId"`
	Position    int `json:"position"`
}

// Playlist is an ordered rotation of slideshows sharing one aspect ratio.
type Playlist struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Branch      string         `json:"branch,omitempty"`
	AspectRatio string         `json:"aspectRatio,omitempty"`
	Items       []PlaylistItem `json:"items"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}

// AddItem appends a slideshow to the playlist, enforcing the mode and
// aspect-ratio rules. A zero position is auto-assigned max+1, matching the
// backend's save behavior.
func (p *Playlist) AddItem(show *Slideshow, position int) error {
	if show.Mode == ModeInteractive {
		return ErrInteractiveInPlaylist
	}
	if ratio := show.AspectRatio(); p.AspectRatio != "" && ratio != p.AspectRatio {
		return fmt.Errorf("slideshow aspect ratio (%s) does not match playlist aspect ratio (%s)",
			ratio, p.AspectRatio)
	}
	if position <= 0 {
		position = p.maxPosition() + 1
	}
	p.Items = append(p.Items, PlaylistItem{SlideshowID: show.ID, Position: position})
	p.UpdatedAt = time.Now()
	return nil
}

// RemoveItem deletes the item for the given slideshow id. Missing ids no-op.
func (p *Playlist) RemoveItem(slideshowID int) {
	for i, it := range p.Items {
		if it.SlideshowID == slideshowID {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			p.UpdatedAt = time.Now()
			return
		}
	}
}

// Ordered returns the items sorted by position.
func (p *Playlist) Ordered() []PlaylistItem {
	out := make([]PlaylistItem, len(p.Items))
	copy(out, p.Items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (p *Playlist) maxPosition() int {
	max := 0
	for _, it := range p.Items {
		if it.Position > max {
			max = it.Position
		}
	}
	return max
}
