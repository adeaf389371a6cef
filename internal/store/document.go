package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/openstream-dk/openstream/pkg/model"
)

// SaveDocument inserts or updates a document library entry. Tags are stored
// as a JSON array so filter queries round-trip the full list.
func (s *Store) SaveDocument(d *model.Document) error {
	if d == nil {
		return errors.New("nil document")
	}
	tags, err := json.Marshal(d.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	if d.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO documents (title, file_name, file_type, tags, category, branch, uploaded_at, size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d.Title, d.FileName, string(d.FileType), string(tags), d.Category, d.Branch,
			d.UploadedAt.UTC(), d.Size)
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
		d.ID = int(id)
		return nil
	}
	res, err := s.db.Exec(`
		UPDATE documents
		SET title = ?, file_name = ?, file_type = ?, tags = ?, category = ?, branch = ?, uploaded_at = ?, size = ?
		WHERE id = ?`,
		d.Title, d.FileName, string(d.FileType), string(tags), d.Category, d.Branch,
		d.UploadedAt.UTC(), d.Size, d.ID)
	if err != nil {
		return fmt.Errorf("updating document %d: %w", d.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %d: %w", d.ID, ErrNotFound)
	}
	return nil
}

// Document loads one document.
func (s *Store) Document(id int) (*model.Document, error) {
	row := s.db.QueryRow(`
		SELECT id, title, file_name, file_type, tags, category, branch, uploaded_at, size
		FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return doc, err
}

// Documents lists document entries, newest upload first. An empty category
// lists everything.
func (s *Store) Documents(category string) ([]*model.Document, error) {
	query := `SELECT id, title, file_name, file_type, tags, category, branch, uploaded_at, size FROM documents`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()
	var out []*model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document entry.
func (s *Store) DeleteDocument(id int) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var doc model.Document
	var fileType, tags string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.FileName, &fileType, &tags,
		&doc.Category, &doc.Branch, &doc.UploadedAt, &doc.Size); err != nil {
		return nil, err
	}
	doc.FileType = model.FileType(fileType)
	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags for document %d: %w", doc.ID, err)
	}
	return &doc, nil
}
