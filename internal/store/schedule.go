package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/openstream-dk/openstream/pkg/model"
)

// SaveDisplayGroup inserts or updates a display group.
func (s *Store) SaveDisplayGroup(g *model.DisplayGroup) error {
	if g == nil {
		return errors.New("nil display group")
	}
	if err := g.Validate(); err != nil {
		return err
	}
	showID := nullableID(g.Default.SlideshowID)
	playlistID := nullableID(g.Default.PlaylistID)
	if g.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO display_groups (name, branch, aspect_ratio, default_slideshow, default_playlist)
			VALUES (?, ?, ?, ?, ?)`,
			g.Name, g.Branch, g.AspectRatio, showID, playlistID)
		if err != nil {
			return fmt.Errorf("inserting display group: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting display group: %w", err)
		}
		g.ID = int(id)
		return nil
	}
	res, err := s.db.Exec(`
		UPDATE display_groups
		SET name = ?, branch = ?, aspect_ratio = ?, default_slideshow = ?, default_playlist = ?
		WHERE id = ?`,
		g.Name, g.Branch, g.AspectRatio, showID, playlistID, g.ID)
	if err != nil {
		return fmt.Errorf("updating display group %d: %w", g.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("display group %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

// DisplayGroups lists all display groups by name.
func (s *Store) DisplayGroups() ([]*model.DisplayGroup, error) {
	rows, err := s.db.Query(`
		SELECT id, name, branch, aspect_ratio, default_slideshow, default_playlist
		FROM display_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing display groups: %w", err)
	}
	defer rows.Close()
	var out []*model.DisplayGroup
	for rows.Next() {
		var g model.DisplayGroup
		var showID, playlistID sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Name, &g.Branch, &g.AspectRatio, &showID, &playlistID); err != nil {
			return nil, fmt.Errorf("scanning display group: %w", err)
		}
		g.Default = model.ContentRef{SlideshowID: int(showID.Int64), PlaylistID: int(playlistID.Int64)}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// SaveSchedule validates and inserts or updates a scheduled content entry.
// Validation runs against the group's existing entries, enforcing the
// override/combine overlap rule at the storage boundary.
func (s *Store) SaveSchedule(e *model.ScheduledContent) error {
	if e == nil {
		return errors.New("nil schedule")
	}
	existing, err := s.Schedules(e.GroupID)
	if err != nil {
		return err
	}
	if err := e.Validate(existing); err != nil {
		return err
	}
	if e.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO schedules (group_id, slideshow_id, playlist_id, start_at, end_at, combine, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.GroupID, nullableID(e.Content.SlideshowID), nullableID(e.Content.PlaylistID),
			e.Start.UTC(), e.End.UTC(), e.CombineWithDefault, e.Description)
		if err != nil {
			return fmt.Errorf("inserting schedule: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting schedule: %w", err)
		}
		e.ID = int(id)
		return nil
	}
	res, err := s.db.Exec(`
		UPDATE schedules
		SET group_id = ?, slideshow_id = ?, playlist_id = ?, start_at = ?, end_at = ?, combine = ?, description = ?
		WHERE id = ?`,
		e.GroupID, nullableID(e.Content.SlideshowID), nullableID(e.Content.PlaylistID),
		e.Start.UTC(), e.End.UTC(), e.CombineWithDefault, e.Description, e.ID)
	if err != nil {
		return fmt.Errorf("updating schedule %d: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %d: %w", e.ID, ErrNotFound)
	}
	return nil
}

// Schedules lists a group's scheduled content entries by start time.
func (s *Store) Schedules(groupID int) ([]model.ScheduledContent, error) {
	rows, err := s.db.Query(`
		SELECT id, group_id, slideshow_id, playlist_id, start_at, end_at, combine, description
		FROM schedules WHERE group_id = ? ORDER BY start_at`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing schedules for group %d: %w", groupID, err)
	}
	defer rows.Close()
	var out []model.ScheduledContent
	for rows.Next() {
		var e model.ScheduledContent
		var showID, playlistID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.GroupID, &showID, &playlistID,
			&e.Start, &e.End, &e.CombineWithDefault, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		e.Content = model.ContentRef{SlideshowID: int(showID.Int64), PlaylistID: int(playlistID.Int64)}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullableID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
