package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/normalisers/latex"
	"github.com/custodia-labs/electro-agent/internal/normalisers/pdf"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches documents to extractors by file extension.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.Extractor)}
}

// NewDefaultRegistry returns a registry with the LaTeX and PDF extractors.
func NewDefaultRegistry(pdfConfig pdf.Config) *Registry {
	r := NewRegistry()
	r.Register(latex.New())
	r.Register(pdf.New(pdfConfig))
	return r
}

// Register adds an extractor for each of its extensions.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Get returns the extractor for a filename, matching the extension
// case-insensitively.
func (r *Registry) Get(filename string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, filepath.Base(filename))
	}
	return e, nil
}

// Extract dispatches to the extractor registered for the document's extension.
func (r *Registry) Extract(ctx context.Context, doc domain.SourceDocument) (*domain.Extraction, error) {
	e, err := r.Get(doc.Filename)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, doc)
}

// SupportedExtensions lists every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
