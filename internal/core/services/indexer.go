package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// Indexer walks the corpus, extracts and segments every file and writes the
// resulting chunks to the vector store under sequential doc_<n> ids.
//
// Indexing is single-writer: one Indexer must not run concurrently with
// another against the same store.
type Indexer struct {
	walker     driven.CorpusWalker
	extractors driven.ExtractorRegistry
	segmenter  driven.Segmenter
	store      driven.VectorStore
}

// NewIndexer creates a new indexer.
func NewIndexer(
	walker driven.CorpusWalker,
	extractors driven.ExtractorRegistry,
	segmenter driven.Segmenter,
	store driven.VectorStore,
) *Indexer {
	return &Indexer{
		walker:     walker,
		extractors: extractors,
		segmenter:  segmenter,
		store:      store,
	}
}

// IndexCorpus indexes every file under root, continuing the id sequence of
// whatever the store already holds. Per-file failures are counted and logged;
// they never abort the run.
func (ix *Indexer) IndexCorpus(ctx context.Context, root string) (*domain.IndexReport, error) {
	logger.Section("Indexing")
	start := time.Now()
	report := newReport()

	next, err := ix.nextSeq(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := ix.walker.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}
	if len(docs) == 0 {
		logger.Info("No documents found under %s", root)
	}

	logger.Info("Run %s: %d files, first id %s", report.RunID, len(docs), domain.FormatChunkID(next))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		next, err = ix.indexDocument(ctx, doc, next, report)
		if err != nil {
			report.Errors++
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", doc.Filename, err))
			logger.Warn("Failed to index %s: %v", doc.Filename, err)
		}
	}

	report.Duration = time.Since(start)
	logger.Info("Indexed %d chunks from %d files (%d errors, %d empty) in %s",
		report.Chunks, report.Files, report.Errors, report.Empty, report.Duration)
	return report, nil
}

// ClearAndReindex removes every stored chunk, then indexes root from id 0.
func (ix *Indexer) ClearAndReindex(ctx context.Context, root string) (*domain.IndexReport, error) {
	existing, err := ix.store.Get(ctx, domain.Where{})
	if err != nil {
		return nil, fmt.Errorf("list stored chunks: %w", err)
	}
	if len(existing.IDs) > 0 {
		logger.Info("Removing %d stored chunks", len(existing.IDs))
		if err := ix.store.Delete(ctx, existing.IDs); err != nil {
			return nil, fmt.Errorf("clear store: %w", err)
		}
	}
	return ix.IndexCorpus(ctx, root)
}

// AddDocument indexes a single file under category, continuing the id
// sequence. Unlike a corpus run, a failure here is returned to the caller.
func (ix *Indexer) AddDocument(
	ctx context.Context, path string, category domain.Category,
) (*domain.IndexReport, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}

	doc, err := domain.NewSourceDocument(path, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	start := time.Now()
	report := newReport()

	next, err := ix.nextSeq(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := ix.indexDocument(ctx, doc, next, report); err != nil {
		report.Errors++
		return report, fmt.Errorf("index %s: %w", doc.Filename, err)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// indexDocument extracts, segments and stores one document, returning the
// next free sequence number. Ids are consumed only when the store accepts
// the chunks.
func (ix *Indexer) indexDocument(
	ctx context.Context, doc domain.SourceDocument, next int, report *domain.IndexReport,
) (int, error) {
	report.Files++
	logger.Debug("Processing: %s [%s]", doc.Filename, doc.Category)

	extraction, err := ix.extractors.Extract(ctx, doc)
	if err != nil {
		return next, fmt.Errorf("extract: %w", err)
	}
	if extraction == nil {
		extraction = &domain.Extraction{}
	}
	for _, w := range extraction.Warnings {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", doc.Filename, w))
		logger.Warn("%s: %s", doc.Filename, w)
	}
	if extraction.IsEmpty() {
		report.Empty++
		logger.Info("No text extracted from %s", doc.Filename)
		return next, nil
	}

	chunks := ix.segmenter.Segment(extraction.Text, doc)
	if len(chunks) == 0 {
		report.Empty++
		logger.Info("No chunks produced from %s", doc.Filename)
		return next, nil
	}

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	metadatas := make([]domain.ChunkMetadata, len(chunks))
	for i := range chunks {
		chunks[i].ID = domain.FormatChunkID(next + i)
		ids[i] = chunks[i].ID
		documents[i] = chunks[i].Content
		metadatas[i] = chunks[i].Metadata()
	}

	if err := ix.store.Add(ctx, ids, documents, metadatas); err != nil {
		return next, fmt.Errorf("store chunks: %w", err)
	}

	if report.FirstID == "" {
		report.FirstID = ids[0]
	}
	report.LastID = ids[len(ids)-1]
	report.Chunks += len(chunks)
	logger.Debug("%s: %d chunks (%s..%s)", doc.Filename, len(chunks), ids[0], report.LastID)

	return next + len(chunks), nil
}

// nextSeq seeds the id counter from the ids already stored.
func (ix *Indexer) nextSeq(ctx context.Context) (int, error) {
	existing, err := ix.store.Get(ctx, domain.Where{})
	if err != nil {
		return 0, fmt.Errorf("read stored ids: %w", err)
	}
	return domain.NextChunkSeq(existing.IDs), nil
}

func newReport() *domain.IndexReport {
	return &domain.IndexReport{RunID: uuid.NewString()}
}
