package domain

import (
	"path/filepath"
	"strings"
)

// FileType identifies the physical format of a corpus file.
type FileType string

// Supported file types.
const (
	FileTypeTeX FileType = "tex"
	FileTypePDF FileType = "pdf"
)

// FileTypeFromFilename derives the file type from a name's extension,
// case-insensitively. Unsupported extensions return ok=false.
func FileTypeFromFilename(name string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tex":
		return FileTypeTeX, true
	case ".pdf":
		return FileTypePDF, true
	default:
		return "", false
	}
}

// String returns the string representation.
func (f FileType) String() string {
	return string(f)
}

// SourceDocument is a single corpus file. It is never mutated after
// discovery; reprocessing re-derives its chunks.
type SourceDocument struct {
	// Path is the absolute or corpus-relative path of the file.
	Path string

	// Filename is the base name, recorded as the chunk source.
	Filename string

	// Category is the taxonomy key of the folder the file lives in.
	Category Category

	// FileType is derived from the extension.
	FileType FileType
}

// NewSourceDocument builds a SourceDocument from a path and category.
// It returns ErrUnsupportedType for extensions other than .tex and .pdf.
func NewSourceDocument(path string, category Category) (SourceDocument, error) {
	name := filepath.Base(path)
	ft, ok := FileTypeFromFilename(name)
	if !ok {
		return SourceDocument{}, ErrUnsupportedType
	}
	return SourceDocument{
		Path:     path,
		Filename: name,
		Category: category,
		FileType: ft,
	}, nil
}
