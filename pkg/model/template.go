package model

// SlideTemplate is a reusable slide definition owned by an organisation.
// A suborganisation can receive its own copy of a global template; elements
// in such a copy whose settings the parent froze carry the
// LockedSettingsSubOrgTemplate flag and rank in the highest priority tier.
type SlideTemplate struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Organisation     string   `json:"organisation,omitempty"`
	SubOrganisation  string   `json:"subOrganisation,omitempty"`
	ParentTemplateID int      `json:"parentTemplateId,omitempty"`
	AspectRatio      string   `json:"aspectRatio,omitempty"`
	Category         string   `json:"category,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Slide            *Slide   `json:"slide,omitempty"`
}

// IsSubOrgCopy reports whether this template was copied down from a global
// parent template.
func (t *SlideTemplate) IsSubOrgCopy() bool {
	return t.ParentTemplateID != 0 && t.SubOrganisation != ""
}

// Instantiate produces a fresh slide from the template. Element ids are
// renumbered starting at nextID; the lock flags survive the copy so the
// editor keeps treating frozen elements as frozen.
func (t *SlideTemplate) Instantiate(slideID, nextID int) *Slide {
	if t.Slide == nil {
		return &Slide{ID: slideID}
	}
	out := &Slide{
		ID:         slideID,
		Name:       t.Slide.Name,
		Duration:   t.Slide.Duration,
		Background: t.Slide.Background,
	}
	for _, el := range t.Slide.Elements {
		cp := el.Clone()
		cp.ID = nextID
		nextID++
		if t.IsSubOrgCopy() && cp.PreventSettingsChanges {
			cp.LockedSettingsSubOrgTemplate = true
		}
		out.Elements = append(out.Elements, cp)
	}
	return out
}
