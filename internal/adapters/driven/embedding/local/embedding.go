// Package local provides a built-in embedding service based on feature
// hashing. It needs no model download or network access, which keeps
// indexing and retrieval usable offline.
package local

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/vectors"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultModel is the model name reported for the default dimensionality.
const DefaultModel = "hash-384"

// trigramWeight scales character trigram features relative to whole words.
const trigramWeight = 0.5

// EmbeddingService embeds text by hashing word and character trigram
// features into a fixed-size, L2-normalised vector.
type EmbeddingService struct {
	dims  int
	model string
}

// NewEmbeddingService creates a hashing embedder. Non-positive dims fall
// back to the default.
func NewEmbeddingService(dims int) *EmbeddingService {
	if dims <= 0 {
		dims = domain.DefaultEmbeddingDims
	}
	model := DefaultModel
	if dims != domain.DefaultEmbeddingDims {
		model = "hash-" + strconv.Itoa(dims)
	}
	return &EmbeddingService{dims: dims, model: model}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, s.dims)
	for _, tok := range tokenize(text) {
		s.add(vec, "w:"+tok, 1)
		runes := []rune("^" + tok + "$")
		for i := 0; i+3 <= len(runes); i++ {
			s.add(vec, "t:"+string(runes[i:i+3]), trigramWeight)
		}
	}
	vectors.Normalize(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dims
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// add hashes a feature into a bucket. A second hash bit picks the sign so
// collisions tend to cancel out.
func (s *EmbeddingService) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(s.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

// tokenize lowercases, strips accents and splits on anything that is not a
// letter or digit.
func tokenize(text string) []string {
	decomposed := norm.NFD.String(strings.ToLower(text))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.FieldsFunc(b.String(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
