package domain

// CollectionName is the name of the chunk collection in the vector store.
const CollectionName = "electromagnetism_corpus"

// DefaultTopK is the number of results returned when none is requested.
const DefaultTopK = 3

// MaxTopK caps the number of results a single query may ask for.
const MaxTopK = 100

// Where is an equality filter on a single metadata field.
// The zero value matches everything.
type Where struct {
	Field string
	Value string
}

// WhereCategory returns a filter restricting results to one category.
func WhereCategory(c Category) Where {
	return Where{Field: FieldCategory, Value: c.String()}
}

// IsZero returns true if the filter matches everything.
func (w Where) IsZero() bool {
	return w.Field == ""
}

// Matches reports whether a metadata record passes the filter.
func (w Where) Matches(m ChunkMetadata) bool {
	if w.IsZero() {
		return true
	}
	v, ok := m.Field(w.Field)
	return ok && v == w.Value
}

// RetrievalResult is a single ranked hit from a similarity query.
type RetrievalResult struct {
	// ID is the chunk identifier.
	ID string `json:"id"`

	// Content is the chunk text.
	Content string `json:"content"`

	// Metadata is the stored metadata record.
	Metadata ChunkMetadata `json:"metadata"`

	// Distance is the query distance; lower is more similar.
	Distance float64 `json:"distance"`
}

// GetResult is the outcome of a filtered, unranked store read.
type GetResult struct {
	IDs       []string
	Documents []string
	Metadatas []ChunkMetadata
}

// CollectionStats summarises the store.
type CollectionStats struct {
	// TotalChunks is the number of stored chunks.
	TotalChunks int `json:"total_chunks"`

	// CollectionName is the collection the chunks live in.
	CollectionName string `json:"collection_name"`

	// Location is where the store keeps its data, if persistent.
	Location string `json:"location,omitempty"`
}

// CategoryCount is the chunk count for one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Display  string   `json:"display"`
	Chunks   int      `json:"chunks"`
}
