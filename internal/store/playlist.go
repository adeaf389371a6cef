package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openstream-dk/openstream/pkg/model"
)

// SavePlaylist inserts or updates a playlist and replaces its items.
func (s *Store) SavePlaylist(p *model.Playlist) error {
	if p == nil {
		return errors.New("nil playlist")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving playlist: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.ID == 0 {
		res, err := tx.Exec(`INSERT INTO playlists (name, branch, aspect_ratio, updated_at) VALUES (?, ?, ?, ?)`,
			p.Name, p.Branch, p.AspectRatio, now)
		if err != nil {
			return fmt.Errorf("inserting playlist: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting playlist: %w", err)
		}
		p.ID = int(id)
	} else {
		res, err := tx.Exec(`UPDATE playlists SET name = ?, branch = ?, aspect_ratio = ?, updated_at = ? WHERE id = ?`,
			p.Name, p.Branch, p.AspectRatio, now, p.ID)
		if err != nil {
			return fmt.Errorf("updating playlist %d: %w", p.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("playlist %d: %w", p.ID, ErrNotFound)
		}
		if _, err := tx.Exec(`DELETE FROM playlist_items WHERE playlist_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clearing playlist %d items: %w", p.ID, err)
		}
	}

	for _, it := range p.Ordered() {
		if _, err := tx.Exec(`INSERT INTO playlist_items (playlist_id, slideshow_id, position) VALUES (?, ?, ?)`,
			p.ID, it.SlideshowID, it.Position); err != nil {
			return fmt.Errorf("inserting playlist item: %w", err)
		}
	}
	return tx.Commit()
}

// Playlist loads one playlist with its items in position order.
func (s *Store) Playlist(id int) (*model.Playlist, error) {
	var p model.Playlist
	err := s.db.QueryRow(`SELECT id, name, branch, aspect_ratio, updated_at FROM playlists WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Branch, &p.AspectRatio, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading playlist %d: %w", id, err)
	}

	rows, err := s.db.Query(`SELECT id, slideshow_id, position FROM playlist_items WHERE playlist_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading playlist %d items: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var it model.PlaylistItem
		if err := rows.Scan(&it.ID, &it.SlideshowID, &it.Position); err != nil {
			return nil, fmt.Errorf("scanning playlist item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	return &p, rows.Err()
}

// Playlists lists all playlists without items, by name.
func (s *Store) Playlists() ([]*model.Playlist, error) {
	rows, err := s.db.Query(`SELECT id, name, branch, aspect_ratio, updated_at FROM playlists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}
	defer rows.Close()
	var out []*model.Playlist
	for rows.Next() {
		var p model.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Branch, &p.AspectRatio, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
