package model

import (
	"errors"
	"fmt"
	"time"
)

// Schedule errors callers branch on.
var (
	ErrScheduleTimesRequired = errors.New("start and end times are required when scheduling content")
	ErrScheduleOverlap       = errors.New("can't schedule overrides and combine on the same date")
)

// ScheduledContent replaces or augments a display group's default content
// during a fixed time window. When CombineWithDefault is set the content is
// appended to the default rotation instead of replacing it.
type ScheduledContent struct {
	ID                 int        `json:"id"`
	GroupID            int        `json:"groupId"`
	Content            ContentRef `json:"content"`
	Start              time.Time  `json:"start"`
	End                time.Time  `json:"end"`
	CombineWithDefault bool       `json:"combineWithDefault,omitempty"`
	Description        string     `json:"description,omitempty"`
}

// Validate enforces the backend's scheduling rules against the existing
// entries for the same group.
func (s *ScheduledContent) Validate(existing []ScheduledContent) error {
	if s.Start.IsZero() || s.End.IsZero() {
		return ErrScheduleTimesRequired
	}
	if !s.Start.Before(s.End) {
		return fmt.Errorf("schedule %d: start must be before end", s.ID)
	}
	if err := s.Content.Validate(); err != nil {
		return fmt.Errorf("schedule %d: %w", s.ID, err)
	}
	// Mixing override entries with anything overlapping is rejected: an
	// override claims the whole window for itself.
	for _, other := range existing {
		if other.ID == s.ID || other.GroupID != s.GroupID {
			continue
		}
		if other.CombineWithDefault {
			continue
		}
		if s.Start.Before(other.End) && s.End.After(other.Start) {
			return ErrScheduleOverlap
		}
	}
	return nil
}

// Active reports whether the window covers the instant t.
func (s *ScheduledContent) Active(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// RecurringSchedule repeats weekly on one weekday within a time-of-day
// window, bounded by an active date range. A zero ActiveUntil means
// indefinitely.
type RecurringSchedule struct {
	ID                 int          `json:"id"`
	GroupID            int          `json:"groupId"`
	Content            ContentRef   `json:"content"`
	Weekday            time.Weekday `json:"weekday"`
	StartClock         string       `json:"startClock"` // "15:04"
	EndClock           string       `json:"endClock"`
	CombineWithDefault bool         `json:"combineWithDefault,omitempty"`
	Description        string       `json:"description,omitempty"`
	ActiveFrom         time.Time    `json:"activeFrom"`
	ActiveUntil        time.Time    `json:"activeUntil,omitempty"`
}

// Validate checks the window and content rules.
func (r *RecurringSchedule) Validate() error {
	start, err := parseClock(r.StartClock)
	if err != nil {
		return fmt.Errorf("recurring schedule %d: %w", r.ID, err)
	}
	end, err := parseClock(r.EndClock)
	if err != nil {
		return fmt.Errorf("recurring schedule %d: %w", r.ID, err)
	}
	if start >= end {
		return fmt.Errorf("recurring schedule %d: start time must be before end time", r.ID)
	}
	if !r.ActiveUntil.IsZero() && r.ActiveFrom.After(r.ActiveUntil) {
		return fmt.Errorf("recurring schedule %d: active from date must be before active until date", r.ID)
	}
	if err := r.Content.Validate(); err != nil {
		return fmt.Errorf("recurring schedule %d: %w", r.ID, err)
	}
	return nil
}

// Active reports whether the recurring window covers the instant t.
func (r *RecurringSchedule) Active(t time.Time) bool {
	if t.Before(r.ActiveFrom) {
		return false
	}
	if !r.ActiveUntil.IsZero() {
		// ActiveUntil is a date; the whole day is included.
		if t.After(r.ActiveUntil.AddDate(0, 0, 1)) {
			return false
		}
	}
	if t.Weekday() != r.Weekday {
		return false
	}
	start, err1 := parseClock(r.StartClock)
	end, err2 := parseClock(r.EndClock)
	if err1 != nil || err2 != nil {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= start && minutes < end
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}
