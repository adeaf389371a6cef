// Package model defines the signage domain types shared across the editor,
// the local store and the backend API client. JSON field names follow the
// backend's camelCase slideshow_data payload so decoded slideshows round-trip
// byte-compatible with what the web frontend writes.
package model

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ElementType identifies what kind of visual object an element is.
type ElementType string

const (
	ElementText   ElementType = "text"
	ElementImage  ElementType = "image"
	ElementVideo  ElementType = "video"
	ElementShape  ElementType = "shape"
	ElementWidget ElementType = "widget"
)

// Element is one visual object on a slide.
//
// ZIndex is the raw stacking value; higher draws on top within its comparison
// group. Always-on-top elements live in a reserved numeric band well above
// ordinary values (see pkg/zorder), so the two groups never interleave.
type Element struct {
	ID   int         `json:"id"`
	Type ElementType `json:"type,omitempty"`
	Name string      `json:"name,omitempty"`

	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	// Content is type-dependent: text body, media URL, widget config blob.
	Content string `json:"content,omitempty"`
	Fill    string `json:"fill,omitempty"`

	ZIndex        int  `json:"zIndex,omitempty"`
	IsAlwaysOnTop bool `json:"isAlwaysOnTop,omitempty"`
	IsPersistent  bool `json:"isPersistent,omitempty"`

	// PreventSettingsChanges is the template-lock flag: the element came from
	// a template whose author froze its settings.
	PreventSettingsChanges bool `json:"preventSettingsChanges,omitempty"`

	// LockedSettingsSubOrgTemplate marks elements locked by a parent template
	// in a suborganisation copy. Only meaningful when editing in suborg mode.
	LockedSettingsSubOrgTemplate bool `json:"lockedSettingsSubOrgTemplate,omitempty"`
}

// Validate reports structural problems with the element.
func (e *Element) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("element: id must be positive, got %d", e.ID)
	}
	if e.Width < 0 || e.Height < 0 {
		return fmt.Errorf("element %d: negative dimensions %gx%g", e.ID, e.Width, e.Height)
	}
	return nil
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	cp := *e
	return &cp
}

// String implements fmt.Stringer for debug output.
func (e *Element) String() string {
	label := e.Name
	if label == "" {
		label = string(e.Type)
	}
	return fmt.Sprintf("element %d (%s, z=%d)", e.ID, label, e.ZIndex)
}

// MarshalElement encodes an element for persistence or transport.
func MarshalElement(e *Element) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshaling element %d: %w", e.ID, err)
	}
	return data, nil
}
