package postprocessors

import (
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/postprocessors/chunker"
)

// DefaultSegmenter is the name of the segmenter used when none is configured.
const DefaultSegmenter = "chunker"

// RegisterDefaults registers all built-in segmenters with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(DefaultSegmenter, buildChunker)
}

// buildChunker creates a chunker from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 2000)
func buildChunker(cfg map[string]any) (driven.Segmenter, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
