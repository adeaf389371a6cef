package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileType classifies uploaded media by extension.
type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypePNG   FileType = "png"
	FileTypeJPEG  FileType = "jpeg"
	FileTypeSVG   FileType = "svg"
	FileTypeGIF   FileType = "gif"
	FileTypeMP4   FileType = "mp4"
	FileTypeWebP  FileType = "webp"
	FileTypeWebM  FileType = "webm"
	FileTypeOther FileType = "other"
)

// validExtensions maps lowercase extensions to file types. .jpg and .jpeg
// collapse to the same type, matching the backend.
var validExtensions = map[string]FileType{
	".pdf":  FileTypePDF,
	".png":  FileTypePNG,
	".jpeg": FileTypeJPEG,
	".jpg":  FileTypeJPEG,
	".svg":  FileTypeSVG,
	".gif":  FileTypeGIF,
	".mp4":  FileTypeMP4,
	".webp": FileTypeWebP,
	".webm": FileTypeWebM,
}

// DetectFileType classifies a filename by its extension.
func DetectFileType(name string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(name))
	ft, ok := validExtensions[ext]
	if !ok {
		return FileTypeOther, fmt.Errorf("unsupported file type: %s", ext)
	}
	return ft, nil
}

// IsVideo reports whether the type is a video format.
func (ft FileType) IsVideo() bool { return ft == FileTypeMP4 || ft == FileTypeWebM }

// Document is one item in the content library.
type Document struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	FileName   string    `json:"fileName"`
	FileType   FileType  `json:"fileType"`
	Tags       []string  `json:"tags,omitempty"`
	Category   string    `json:"category,omitempty"`
	Branch     string    `json:"branch,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
	Size       int64     `json:"size,omitempty"`
}

// HasTag reports whether the document carries the given tag (case-insensitive).
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
