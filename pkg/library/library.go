// Package library manages the local content library: the media files a
// branch can place on slides. It scans a directory into Document records,
// supports tag/category/text filtering, and watches the directory for
// changes so the editor's media picker stays current.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/model"
)

// Library is a scanned view of one media directory.
type Library struct {
	dir  string
	docs []model.Document
}

// Open scans the directory and returns a library over it. Files with
// unsupported extensions are skipped, not errors: media directories often
// hold sidecar files.
func Open(dir string) (*Library, error) {
	lib := &Library{dir: dir}
	if err := lib.Rescan(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Dir returns the library's directory.
func (l *Library) Dir() string { return l.dir }

// Documents returns the current document list, newest first.
func (l *Library) Documents() []model.Document {
	out := make([]model.Document, len(l.docs))
	copy(out, l.docs)
	return out
}

// Rescan rebuilds the document list from the directory contents.
func (l *Library) Rescan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("reading media directory: %w", err)
	}
	docs := make([]model.Document, 0, len(entries))
	nextID := 1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ft, err := model.DetectFileType(e.Name())
		if err != nil {
			debug.Log("skipping %s: %v", e.Name(), err)
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		docs = append(docs, model.Document{
			ID:         nextID,
			Title:      titleFor(e.Name()),
			FileName:   e.Name(),
			FileType:   ft,
			UploadedAt: info.ModTime(),
			Size:       info.Size(),
		})
		nextID++
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	l.docs = docs
	return nil
}

// titleFor derives a display title from a filename: extension and content
// hash suffix stripped.
func titleFor(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return StripHashSuffix(base)
}

// Filter returns the documents matching all given criteria. Empty criteria
// match everything.
type Filter struct {
	Query    string
	Tag      string
	Category string
	Type     model.FileType
}

// Find applies the filter to the library.
func (l *Library) Find(f Filter) []model.Document {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var out []model.Document
	for _, d := range l.docs {
		if f.Type != "" && d.FileType != f.Type {
			continue
		}
		if f.Tag != "" && !d.HasTag(f.Tag) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(d.Category, f.Category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Title), query) &&
			!strings.Contains(strings.ToLower(d.FileName), query) {
			continue
		}
		out = append(out, d)
	}
	return out
}
