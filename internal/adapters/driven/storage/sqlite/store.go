package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	sqlite "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/vectors"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "vectors.db"

// distanceFunc is the SQL scalar function computing cosine distance between two embedding BLOBs.
const distanceFunc = "vec_distance_cosine"

// collection_info keys.
const (
	infoEmbeddingModel = "embedding_model"
	infoDimensions     = "embedding_dimensions"
)

// filterColumns maps metadata fields to the columns they are stored in.
var filterColumns = map[string]string{
	domain.FieldSource:          "source",
	domain.FieldCategory:        "category",
	domain.FieldCategoryDisplay: "category_display",
	domain.FieldChunkNumber:     "chunk_number",
	domain.FieldFileType:        "file_type",
}

var registerOnce sync.Once

// registerFunctions makes vec_distance_cosine available on connections opened afterwards.
func registerFunctions() {
	registerOnce.Do(func() {
		// The driver rejects duplicate names; a second registration is harmless.
		_ = sqlite.RegisterDeterministicScalarFunction(distanceFunc, 2, cosineDistanceImpl)
	})
}

// Store is a SQLite-backed vector store.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

var _ driven.VectorStore = (*Store)(nil)

// NewStore creates a new SQLite vector store at the specified data directory.
// If dataDir is empty, defaults to ~/.electro/data.
func NewStore(dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: vector store requires an embedding service", domain.ErrEmbeddingUnavailable)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".electro", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", domain.ErrVectorStoreUnavailable, err)
	}

	registerFunctions()

	dbPath := filepath.Join(dataDir, DBFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrVectorStoreUnavailable, err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", domain.ErrVectorStoreUnavailable, err)
	}

	if err := s.checkEmbeddingModel(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_chunks.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// checkEmbeddingModel records the embedding model on first use and warns when
// the store holds vectors from a different one. Vectors from different models
// are not comparable, so a reindex is needed after switching. An empty store
// simply takes the current model.
func (s *Store) checkEmbeddingModel(ctx context.Context) error {
	model := s.embedder.ModelName()

	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM collection_info WHERE key = ?", infoEmbeddingModel).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.recordEmbeddingModel(ctx, s.db)
	case err != nil:
		return fmt.Errorf("reading collection info: %w", err)
	}
	if stored == model {
		return nil
	}

	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.recordEmbeddingModel(ctx, s.db)
	}

	logger.Warn("vector store was built with embedding model %q, now using %q: run reindex", stored, model)
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// recordEmbeddingModel stores the current embedding model and dimensions.
func (s *Store) recordEmbeddingModel(ctx context.Context, db execer) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO collection_info (key, value) VALUES (?, ?), (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, infoEmbeddingModel, s.embedder.ModelName(), infoDimensions, strconv.Itoa(s.embedder.Dimensions()))
	if err != nil {
		return fmt.Errorf("recording embedding model: %w", err)
	}
	return nil
}

// ==================== Writes ====================

// Add embeds and stores documents under the given ids. Existing ids are replaced.
func (s *Store) Add(ctx context.Context, ids, documents []string, metadatas []domain.ChunkMetadata) error {
	if len(ids) != len(documents) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: %d ids, %d documents, %d metadatas",
			domain.ErrInvalidInput, len(ids), len(documents), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, documents)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(documents) {
		return fmt.Errorf("%w: got %d embeddings for %d documents",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(documents))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// The first write into an empty store defines its embedding model.
	var existing int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&existing); err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}
	if existing == 0 {
		if err := s.recordEmbeddingModel(ctx, tx); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, source, category, category_display, chunk_number, file_type, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			category = excluded.category,
			category_display = excluded.category_display,
			chunk_number = excluded.chunk_number,
			file_type = excluded.file_type,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		m := metadatas[i]
		if _, err := stmt.ExecContext(ctx, id, documents[i], m.Source, m.Category,
			m.CategoryDisplay, m.ChunkNumber, m.FileType, vectors.Encode(embeddings[i])); err != nil {
			return fmt.Errorf("saving chunk %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Delete removes the given ids. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM chunks WHERE id = ?")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("deleting chunk %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Reads ====================

// Query returns up to k chunks ordered by ascending cosine distance to text.
// Ties keep insertion order.
func (s *Store) Query(
	ctx context.Context, text string, k int, where domain.Where,
) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	clause, args, ok := whereClause(where)
	if !ok {
		return []domain.RetrievalResult{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	query := `
		SELECT id, content, source, category, category_display, chunk_number, file_type, distance
		FROM (
			SELECT seq, id, content, source, category, category_display, chunk_number, file_type,
				` + distanceFunc + `(embedding, ?) AS distance
			FROM chunks` + clause + `
		)
		WHERE distance IS NOT NULL
		ORDER BY distance, seq
		LIMIT ?`

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, vectors.Encode(embedding))
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, k)

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	results := []domain.RetrievalResult{}
	for rows.Next() {
		var r domain.RetrievalResult
		m := &r.Metadata
		if err := rows.Scan(&r.ID, &r.Content, &m.Source, &m.Category,
			&m.CategoryDisplay, &m.ChunkNumber, &m.FileType, &r.Distance); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return results, nil
}

// Get returns every chunk matching where, in insertion order.
func (s *Store) Get(ctx context.Context, where domain.Where) (*domain.GetResult, error) {
	result := &domain.GetResult{
		IDs:       []string{},
		Documents: []string{},
		Metadatas: []domain.ChunkMetadata{},
	}

	clause, args, ok := whereClause(where)
	if !ok {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, category, category_display, chunk_number, file_type
		FROM chunks`+clause+`
		ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, content string
		var m domain.ChunkMetadata
		if err := rows.Scan(&id, &content, &m.Source, &m.Category,
			&m.CategoryDisplay, &m.ChunkNumber, &m.FileType); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		result.IDs = append(result.IDs, id)
		result.Documents = append(result.Documents, content)
		result.Metadatas = append(result.Metadatas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return result, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// ==================== Helpers ====================

// whereClause renders a metadata filter as SQL. ok is false when the field
// is unknown, in which case nothing can match.
func whereClause(where domain.Where) (clause string, args []any, ok bool) {
	if where.IsZero() {
		return "", nil, true
	}
	column, known := filterColumns[where.Field]
	if !known {
		return "", nil, false
	}
	return " WHERE " + column + " = ?", []any{where.Value}, true
}

// cosineDistanceImpl implements vec_distance_cosine(a, b).
// It returns NULL when either side is missing or the dimensions differ.
func cosineDistanceImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", distanceFunc, len(args))
	}
	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	d, ok := vectors.CosineDistance(a, b)
	if !ok {
		return nil, nil
	}
	return d, nil
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return vectors.Decode(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T, want BLOB", distanceFunc, arg)
	}
}
