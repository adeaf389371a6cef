// Package schedule resolves what content a display group shows at a given
// instant, combining the group's default content with one-off and recurring
// scheduled entries.
//
// Resolution rules follow the backend: an active override entry replaces the
// default entirely; active combine entries are appended to whatever is
// showing. Overrides and combine entries never overlap in a valid schedule,
// which Validate enforces at write time.
package schedule

import (
	"sort"
	"time"

	"github.com/openstream-dk/openstream/pkg/model"
)

// Resolution is the content a group shows at one instant.
type Resolution struct {
	// Content lists the refs to play, in order. Index 0 is the primary.
	Content []model.ContentRef
	// Overridden is true when a scheduled override displaced the default.
	Overridden bool
}

// Resolve computes the group's content at time t. The default ref is used
// unless an active override entry displaces it; combine entries (one-off or
// recurring) are appended after the primary in start order.
func Resolve(group *model.DisplayGroup, entries []model.ScheduledContent, recurring []model.RecurringSchedule, t time.Time) Resolution {
	var res Resolution
	if group == nil {
		return res
	}

	var override *model.ScheduledContent
	var combine []model.ContentRef

	active := make([]model.ScheduledContent, 0, len(entries))
	for _, e := range entries {
		if e.GroupID == group.ID && e.Active(t) {
			active = append(active, e)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Start.Before(active[j].Start) })
	for i := range active {
		if active[i].CombineWithDefault {
			combine = append(combine, active[i].Content)
		} else if override == nil {
			override = &active[i]
		}
	}

	for _, r := range recurring {
		if r.GroupID != group.ID || !r.Active(t) {
			continue
		}
		if r.CombineWithDefault {
			combine = append(combine, r.Content)
		} else if override == nil {
			// A recurring override behaves like a one-off for its window.
			entry := model.ScheduledContent{Content: r.Content, CombineWithDefault: false}
			override = &entry
		}
	}

	if override != nil {
		res.Overridden = true
		res.Content = append(res.Content, override.Content)
	} else if !group.Default.IsZero() {
		res.Content = append(res.Content, group.Default)
	}
	res.Content = append(res.Content, combine...)
	return res
}

// Upcoming returns the scheduled entries for the group starting after t,
// soonest first. The calendar view feeds from this.
func Upcoming(group *model.DisplayGroup, entries []model.ScheduledContent, t time.Time) []model.ScheduledContent {
	var out []model.ScheduledContent
	for _, e := range entries {
		if e.GroupID == group.ID && e.Start.After(t) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
