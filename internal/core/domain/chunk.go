package domain

import "strconv"

// Metadata field names as stored alongside every chunk.
const (
	FieldSource          = "source"
	FieldCategory        = "category"
	FieldCategoryDisplay = "category_display"
	FieldChunkNumber     = "chunk_number"
	FieldFileType        = "file_type"
)

// Chunk is a retrievable text segment derived from one SourceDocument.
type Chunk struct {
	// ID is the store key (doc_<n>). Empty until the indexer assigns it.
	ID string

	// Content is the segment text.
	Content string

	// Source is the filename of the originating document.
	Source string

	// Category is the taxonomy key of the originating document.
	Category Category

	// ChunkNumber is "<unit>" or "<unit>_<sub>".
	ChunkNumber string

	// FileType is the format of the originating document.
	FileType FileType
}

// Metadata returns the metadata record stored alongside the chunk.
func (c Chunk) Metadata() ChunkMetadata {
	return ChunkMetadata{
		Source:          c.Source,
		Category:        c.Category.String(),
		CategoryDisplay: c.Category.Display(),
		ChunkNumber:     c.ChunkNumber,
		FileType:        c.FileType.String(),
	}
}

// ChunkMetadata is the flat, scalar-only record kept with each stored chunk.
type ChunkMetadata struct {
	Source          string `json:"source"`
	Category        string `json:"category"`
	CategoryDisplay string `json:"category_display"`
	ChunkNumber     string `json:"chunk_number"`
	FileType        string `json:"file_type"`
}

// Field returns the value of a metadata field by name.
// Unknown names return ok=false.
func (m ChunkMetadata) Field(name string) (string, bool) {
	switch name {
	case FieldSource:
		return m.Source, true
	case FieldCategory:
		return m.Category, true
	case FieldCategoryDisplay:
		return m.CategoryDisplay, true
	case FieldChunkNumber:
		return m.ChunkNumber, true
	case FieldFileType:
		return m.FileType, true
	default:
		return "", false
	}
}

// Map returns the metadata as a string map.
func (m ChunkMetadata) Map() map[string]string {
	return map[string]string{
		FieldSource:          m.Source,
		FieldCategory:        m.Category,
		FieldCategoryDisplay: m.CategoryDisplay,
		FieldChunkNumber:     m.ChunkNumber,
		FieldFileType:        m.FileType,
	}
}

// UnitChunkNumber formats the chunk number of a whole unit.
func UnitChunkNumber(unit int) string {
	return strconv.Itoa(unit)
}

// SubChunkNumber formats the chunk number of the k-th piece of a split unit.
func SubChunkNumber(unit, sub int) string {
	return strconv.Itoa(unit) + "_" + strconv.Itoa(sub)
}
