package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/openstream-dk/openstream/pkg/model"
)

// SaveDisplay inserts or updates a display. When the display is assigned to
// a group the aspect-ratio match rule is enforced against the stored group.
func (s *Store) SaveDisplay(d *model.Display) error {
	if d == nil {
		return errors.New("nil display")
	}
	if d.GroupID != 0 {
		var ratio string
		err := s.db.QueryRow(`SELECT aspect_ratio FROM display_groups WHERE id = ?`, d.GroupID).Scan(&ratio)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("display group %d: %w", d.GroupID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("reading display group %d: %w", d.GroupID, err)
		}
		if err := d.CanJoin(&model.DisplayGroup{ID: d.GroupID, AspectRatio: ratio}); err != nil {
			return err
		}
	}
	if d.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO displays (name, uid, group_id, branch, aspect_ratio)
			VALUES (?, ?, ?, ?, ?)`,
			d.Name, d.UID, nullableID(d.GroupID), d.Branch, d.AspectRatio)
		if err != nil {
			return fmt.Errorf("inserting display: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting display: %w", err)
		}
		d.ID = int(id)
		return nil
	}
	res, err := s.db.Exec(`
		UPDATE displays
		SET name = ?, uid = ?, group_id = ?, branch = ?, aspect_ratio = ?
		WHERE id = ?`,
		d.Name, d.UID, nullableID(d.GroupID), d.Branch, d.AspectRatio, d.ID)
	if err != nil {
		return fmt.Errorf("updating display %d: %w", d.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("display %d: %w", d.ID, ErrNotFound)
	}
	return nil
}

// Displays lists all displays by name. A non-zero groupID restricts the list
// to that group's members.
func (s *Store) Displays(groupID int) ([]*model.Display, error) {
	query := `SELECT id, name, uid, group_id, branch, aspect_ratio FROM displays`
	args := []any{}
	if groupID != 0 {
		query += ` WHERE group_id = ?`
		args = append(args, groupID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing displays: %w", err)
	}
	defer rows.Close()
	var out []*model.Display
	for rows.Next() {
		var d model.Display
		var group sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &d.UID, &group, &d.Branch, &d.AspectRatio); err != nil {
			return nil, fmt.Errorf("scanning display: %w", err)
		}
		d.GroupID = int(group.Int64)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// DeleteDisplay removes a display.
func (s *Store) DeleteDisplay(id int) error {
	res, err := s.db.Exec(`DELETE FROM displays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting display %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("display %d: %w", id, ErrNotFound)
	}
	return nil
}
