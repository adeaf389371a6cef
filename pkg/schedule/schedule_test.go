package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/schedule"
)

var (
	noon    = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) // a Monday
	morning = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
)

func group() *model.DisplayGroup {
	return &model.DisplayGroup{
		ID:      1,
		Name:    "foyer",
		Default: model.ContentRef{SlideshowID: 10},
	}
}

func TestResolve_DefaultWhenNothingScheduled(t *testing.T) {
	res := schedule.Resolve(group(), nil, nil, noon)
	if res.Overridden {
		t.Error("nothing scheduled, should not be overridden")
	}
	if len(res.Content) != 1 || res.Content[0].SlideshowID != 10 {
		t.Errorf("content = %v, want the default slideshow", res.Content)
	}
}

func TestResolve_OverrideDisplacesDefault(t *testing.T) {
	entries := []model.ScheduledContent{{
		ID: 1, GroupID: 1,
		Content: model.ContentRef{PlaylistID: 20},
		Start:   noon.Add(-time.Hour), End: noon.Add(time.Hour),
	}}
	res := schedule.Resolve(group(), entries, nil, noon)
	if !res.Overridden {
		t.Fatal("expected override")
	}
	if len(res.Content) != 1 || res.Content[0].PlaylistID != 20 {
		t.Errorf("content = %v, want only the override playlist", res.Content)
	}
}

func TestResolve_CombineAppendsToDefault(t *testing.T) {
	entries := []model.ScheduledContent{{
		ID: 1, GroupID: 1,
		Content:            model.ContentRef{SlideshowID: 30},
		Start:              noon.Add(-time.Hour),
		End:                noon.Add(time.Hour),
		CombineWithDefault: true,
	}}
	res := schedule.Resolve(group(), entries, nil, noon)
	if res.Overridden {
		t.Error("combine entry must not override")
	}
	if len(res.Content) != 2 || res.Content[0].SlideshowID != 10 || res.Content[1].SlideshowID != 30 {
		t.Errorf("content = %v, want default then combined", res.Content)
	}
}

func TestResolve_ExpiredEntryIgnored(t *testing.T) {
	entries := []model.ScheduledContent{{
		ID: 1, GroupID: 1,
		Content: model.ContentRef{PlaylistID: 20},
		Start:   noon.Add(-3 * time.Hour), End: noon.Add(-2 * time.Hour),
	}}
	res := schedule.Resolve(group(), entries, nil, noon)
	if res.Overridden {
		t.Error("expired entry should not override")
	}
}

func TestResolve_RecurringWeekdayWindow(t *testing.T) {
	rec := []model.RecurringSchedule{{
		ID: 1, GroupID: 1,
		Content:    model.ContentRef{SlideshowID: 40},
		Weekday:    time.Monday,
		StartClock: "09:00", EndClock: "17:00",
		ActiveFrom: noon.AddDate(0, -1, 0),
	}}
	res := schedule.Resolve(group(), nil, rec, noon)
	if !res.Overridden || res.Content[0].SlideshowID != 40 {
		t.Errorf("noon Monday should hit the recurring window, got %v", res.Content)
	}

	res = schedule.Resolve(group(), nil, rec, morning)
	if res.Overridden {
		t.Error("08:00 is before the window, default expected")
	}

	tuesday := noon.AddDate(0, 0, 1)
	res = schedule.Resolve(group(), nil, rec, tuesday)
	if res.Overridden {
		t.Error("Tuesday should not match a Monday schedule")
	}
}

func TestResolve_RecurringRespectsActiveRange(t *testing.T) {
	rec := []model.RecurringSchedule{{
		ID: 1, GroupID: 1,
		Content:    model.ContentRef{SlideshowID: 40},
		Weekday:    time.Monday,
		StartClock: "09:00", EndClock: "17:00",
		ActiveFrom: noon.AddDate(0, 1, 0), // starts next month
	}}
	if res := schedule.Resolve(group(), nil, rec, noon); res.Overridden {
		t.Error("schedule not yet active")
	}
}

func TestResolve_NilGroup(t *testing.T) {
	res := schedule.Resolve(nil, nil, nil, noon)
	if len(res.Content) != 0 {
		t.Errorf("expected empty resolution, got %v", res.Content)
	}
}

func TestScheduledContentValidate_OverlapRule(t *testing.T) {
	existing := []model.ScheduledContent{{
		ID: 1, GroupID: 1,
		Content: model.ContentRef{SlideshowID: 5},
		Start:   noon, End: noon.Add(2 * time.Hour),
	}}
	overlapping := model.ScheduledContent{
		ID: 2, GroupID: 1,
		Content:            model.ContentRef{SlideshowID: 6},
		Start:              noon.Add(time.Hour),
		End:                noon.Add(3 * time.Hour),
		CombineWithDefault: true,
	}
	if err := overlapping.Validate(existing); !errors.Is(err, model.ErrScheduleOverlap) {
		t.Errorf("err = %v, want ErrScheduleOverlap", err)
	}

	separate := overlapping
	separate.Start = noon.Add(3 * time.Hour)
	separate.End = noon.Add(4 * time.Hour)
	if err := separate.Validate(existing); err != nil {
		t.Errorf("non-overlapping entry rejected: %v", err)
	}
}

func TestScheduledContentValidate_Basics(t *testing.T) {
	missing := model.ScheduledContent{GroupID: 1, Content: model.ContentRef{SlideshowID: 1}}
	if err := missing.Validate(nil); !errors.Is(err, model.ErrScheduleTimesRequired) {
		t.Errorf("err = %v, want ErrScheduleTimesRequired", err)
	}

	both := model.ScheduledContent{
		GroupID: 1,
		Content: model.ContentRef{SlideshowID: 1, PlaylistID: 2},
		Start:   noon, End: noon.Add(time.Hour),
	}
	if err := both.Validate(nil); !errors.Is(err, model.ErrNoDefaultContent) {
		t.Errorf("err = %v, want exactly-one violation", err)
	}
}

func TestUpcoming_SortedByStart(t *testing.T) {
	entries := []model.ScheduledContent{
		{ID: 1, GroupID: 1, Start: noon.Add(5 * time.Hour), End: noon.Add(6 * time.Hour)},
		{ID: 2, GroupID: 1, Start: noon.Add(time.Hour), End: noon.Add(2 * time.Hour)},
		{ID: 3, GroupID: 2, Start: noon.Add(time.Hour), End: noon.Add(2 * time.Hour)},
	}
	up := schedule.Upcoming(group(), entries, noon)
	if len(up) != 2 || up[0].ID != 2 || up[1].ID != 1 {
		t.Errorf("unexpected upcoming order: %v", up)
	}
}
