// Package cache memoises embeddings in process memory. Interactive sessions
// repeat queries often, and hosted providers bill per request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default expiry settings.
const (
	DefaultTTL     = 30 * time.Minute
	DefaultCleanup = 10 * time.Minute
)

// EmbeddingService wraps another EmbeddingService with a TTL cache keyed by
// model and text.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache *gocache.Cache
}

// New wraps inner. A non-positive ttl uses DefaultTTL.
func New(inner driven.EmbeddingService, ttl time.Duration) *EmbeddingService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EmbeddingService{
		inner: inner,
		cache: gocache.New(ttl, DefaultCleanup),
	}
}

// Embed returns the cached vector for text or computes and stores it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.key(text)
	if v, found := s.cache.Get(key); found {
		return v.([]float32), nil
	}
	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, vec, gocache.DefaultExpiration)
	return vec, nil
}

// EmbedBatch embeds only the texts missing from the cache.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var positions []int
	for i, text := range texts {
		if v, found := s.cache.Get(s.key(text)); found {
			out[i] = v.([]float32)
			continue
		}
		missing = append(missing, text)
		positions = append(positions, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	computed, err := s.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range computed {
		if j >= len(positions) {
			break
		}
		out[positions[j]] = vec
		s.cache.Set(s.key(missing[j]), vec, gocache.DefaultExpiration)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates to the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Len returns the number of cached vectors, expired or not.
func (s *EmbeddingService) Len() int {
	return s.cache.ItemCount()
}

// Close flushes the cache and closes the wrapped service.
func (s *EmbeddingService) Close() error {
	s.cache.Flush()
	return s.inner.Close()
}

func (s *EmbeddingService) key(text string) string {
	sum := sha256.Sum256([]byte(s.inner.ModelName() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
