// Package store provides the local SQLite database behind osedit: slideshows
// and their slide data, playlists, display groups and their displays,
// schedules and the document library index. It lets the editor work offline;
// pkg/api synchronizes with the backend separately.
//
// Slide data is stored as one JSON blob per slideshow, the same payload the
// backend keeps in its slideshow_data column, so local and remote copies
// diff cleanly.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/openstream-dk/openstream/pkg/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// schemaVersion is bumped on incompatible schema changes.
const schemaVersion = 3

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS slideshows (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	mode           TEXT NOT NULL DEFAULT 'slideshow',
	branch         TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	preview_width  INTEGER NOT NULL DEFAULT 1920,
	preview_height INTEGER NOT NULL DEFAULT 1080,
	slide_data     TEXT NOT NULL DEFAULT '[]',
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS playlists (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	branch       TEXT NOT NULL DEFAULT '',
	aspect_ratio TEXT NOT NULL DEFAULT '16:9',
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS playlist_items (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	playlist_id  INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	slideshow_id INTEGER NOT NULL REFERENCES slideshows(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS display_groups (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL,
	branch            TEXT NOT NULL DEFAULT '',
	aspect_ratio      TEXT NOT NULL DEFAULT '16:9',
	default_slideshow INTEGER,
	default_playlist  INTEGER
);

CREATE TABLE IF NOT EXISTS schedules (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	group_id     INTEGER NOT NULL REFERENCES display_groups(id) ON DELETE CASCADE,
	slideshow_id INTEGER,
	playlist_id  INTEGER,
	start_at     TIMESTAMP NOT NULL,
	end_at       TIMESTAMP NOT NULL,
	combine      INTEGER NOT NULL DEFAULT 0,
	description  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS displays (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	uid          TEXT NOT NULL DEFAULT '',
	group_id     INTEGER REFERENCES display_groups(id) ON DELETE SET NULL,
	branch       TEXT NOT NULL DEFAULT '',
	aspect_ratio TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS documents (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	file_name   TEXT NOT NULL,
	file_type   TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '[]',
	category    TEXT NOT NULL DEFAULT '',
	branch      TEXT NOT NULL DEFAULT '',
	uploaded_at TIMESTAMP NOT NULL,
	size        INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_playlist_items_playlist ON playlist_items(playlist_id, position);
CREATE INDEX IF NOT EXISTS idx_schedules_group ON schedules(group_id, start_at);
CREATE INDEX IF NOT EXISTS idx_displays_group ON displays(group_id);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
`

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.checkVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) checkVersion() error {
	var stored string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`,
			fmt.Sprint(schemaVersion))
		return err
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	}
	if stored != fmt.Sprint(schemaVersion) {
		return fmt.Errorf("database schema version %s, want %d (delete %s to recreate)",
			stored, schemaVersion, s.path)
	}
	return nil
}

// SaveSlideshow inserts or updates a slideshow. A zero ID inserts and the
// assigned id is written back.
func (s *Store) SaveSlideshow(show *model.Slideshow) error {
	if show == nil {
		return errors.New("nil slideshow")
	}
	data, err := json.Marshal(show.Slides)
	if err != nil {
		return fmt.Errorf("encoding slide data: %w", err)
	}
	now := time.Now().UTC()
	show.UpdatedAt = now
	if show.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO slideshows (name, mode, branch, category, preview_width, preview_height, slide_data, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			show.Name, string(defaultMode(show.Mode)), show.Branch, show.Category,
			show.PreviewWidth, show.PreviewHeight, string(data), now)
		if err != nil {
			return fmt.Errorf("inserting slideshow: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting slideshow: %w", err)
		}
		show.ID = int(id)
		return nil
	}
	res, err := s.db.Exec(`
		UPDATE slideshows
		SET name = ?, mode = ?, branch = ?, category = ?, preview_width = ?, preview_height = ?, slide_data = ?, updated_at = ?
		WHERE id = ?`,
		show.Name, string(defaultMode(show.Mode)), show.Branch, show.Category,
		show.PreviewWidth, show.PreviewHeight, string(data), now, show.ID)
	if err != nil {
		return fmt.Errorf("updating slideshow %d: %w", show.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slideshow %d: %w", show.ID, ErrNotFound)
	}
	return nil
}

func defaultMode(m model.SlideshowMode) model.SlideshowMode {
	if m == "" {
		return model.ModeSlideshow
	}
	return m
}

// Slideshow loads one slideshow with its slides.
func (s *Store) Slideshow(id int) (*model.Slideshow, error) {
	row := s.db.QueryRow(`
		SELECT id, name, mode, branch, category, preview_width, preview_height, slide_data, updated_at
		FROM slideshows WHERE id = ?`, id)
	show, err := scanSlideshow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slideshow %d: %w", id, ErrNotFound)
	}
	return show, err
}

// Slideshows lists all slideshows, most recently updated first, without
// their slide data.
func (s *Store) Slideshows() ([]*model.Slideshow, error) {
	rows, err := s.db.Query(`
		SELECT id, name, mode, branch, category, preview_width, preview_height, updated_at
		FROM slideshows ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing slideshows: %w", err)
	}
	defer rows.Close()

	var out []*model.Slideshow
	for rows.Next() {
		var show model.Slideshow
		var mode string
		if err := rows.Scan(&show.ID, &show.Name, &mode, &show.Branch, &show.Category,
			&show.PreviewWidth, &show.PreviewHeight, &show.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning slideshow: %w", err)
		}
		show.Mode = model.SlideshowMode(mode)
		out = append(out, &show)
	}
	return out, rows.Err()
}

// DeleteSlideshow removes a slideshow and, via cascade, its playlist items.
func (s *Store) DeleteSlideshow(id int) error {
	res, err := s.db.Exec(`DELETE FROM slideshows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting slideshow %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slideshow %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlideshow(row rowScanner) (*model.Slideshow, error) {
	var show model.Slideshow
	var mode, slideData string
	if err := row.Scan(&show.ID, &show.Name, &mode, &show.Branch, &show.Category,
		&show.PreviewWidth, &show.PreviewHeight, &slideData, &show.UpdatedAt); err != nil {
		return nil, err
	}
	show.Mode = model.SlideshowMode(mode)
	if err := json.Unmarshal([]byte(slideData), &show.Slides); err != nil {
		return nil, fmt.Errorf("decoding slide data for slideshow %d: %w", show.ID, err)
	}
	return &show, nil
}
