package latex

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads .tex files and normalises them.
type Extractor struct {
	readFile func(name string) ([]byte, error)
}

// New creates a new LaTeX extractor.
func New() *Extractor {
	return &Extractor{readFile: os.ReadFile}
}

// FileType returns the format this extractor handles.
func (e *Extractor) FileType() domain.FileType {
	return domain.FileTypeTeX
}

// Extensions returns the file extensions handled.
func (e *Extractor) Extensions() []string {
	return []string{".tex"}
}

// Extract reads the file and returns its normalised text.
// Files that are not valid UTF-8 are decoded as Latin-1.
func (e *Extractor) Extract(ctx context.Context, doc domain.SourceDocument) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := e.readFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Filename, err)
	}

	var warnings []string
	text := string(data)
	if !utf8.Valid(data) {
		text, err = decodeLatin1(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Filename, err)
		}
		warnings = append(warnings, "not valid UTF-8, decoded as Latin-1")
	}

	return &domain.Extraction{
		Text:     Normalise(text),
		Warnings: warnings,
	}, nil
}

// decodeLatin1 decodes ISO-8859-1 bytes. Every byte maps to a code point,
// so in practice this never fails.
func decodeLatin1(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
