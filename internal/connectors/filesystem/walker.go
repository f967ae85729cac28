// Package filesystem discovers corpus files on local disk.
//
// The corpus root holds one folder per taxonomy category, named by its key:
//
//	corpus/
//	  campo_electrico/*.tex|*.pdf
//	  campo_magnetico/...
//
// Files are not opened here; extraction happens downstream.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// Ensure Walker implements the interface.
var _ driven.CorpusWalker = (*Walker)(nil)

// Walker lists corpus files category by category.
type Walker struct {
	categories []domain.Category
}

// New creates a walker over the full taxonomy.
func New() *Walker {
	return &Walker{categories: domain.Categories()}
}

// Walk returns every supported file under root in taxonomy order, files
// sorted by name within a category. Subdirectories, hidden files and
// unsupported extensions are skipped. A missing category folder is logged
// and skipped; a missing root is an error.
func (w *Walker) Walk(ctx context.Context, root string) ([]domain.SourceDocument, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCorpusNotFound, root)
		}
		return nil, fmt.Errorf("stat corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrCorpusNotFound, root)
	}

	var docs []domain.SourceDocument
	for _, category := range w.categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := w.walkCategory(root, category)
		if err != nil {
			logger.Warn("category folder %s: %v", category, err)
			continue
		}
		docs = append(docs, found...)
	}
	return docs, nil
}

func (w *Walker) walkCategory(root string, category domain.Category) ([]domain.SourceDocument, error) {
	dir := filepath.Join(root, category.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("does not exist, skipping")
		}
		return nil, err
	}

	logger.Debug("walking %s (%d entries)", dir, len(entries))

	var docs []domain.SourceDocument
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || isHidden(name) {
			continue
		}
		doc, err := domain.NewSourceDocument(filepath.Join(dir, name), category)
		if err != nil {
			logger.Debug("skipping %s: %v", name, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// isHidden returns true for dot-files.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
