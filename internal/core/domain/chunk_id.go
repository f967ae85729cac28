package domain

import (
	"strconv"
	"strings"
)

// ChunkIDPrefix prefixes every chunk identifier.
const ChunkIDPrefix = "doc_"

// FormatChunkID returns the identifier for sequence number n.
func FormatChunkID(n int) string {
	return ChunkIDPrefix + strconv.Itoa(n)
}

// ParseChunkID extracts the sequence number from an identifier.
// Identifiers that do not match doc_<n> return ok=false.
func ParseChunkID(id string) (int, bool) {
	rest, found := strings.CutPrefix(id, ChunkIDPrefix)
	if !found || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextChunkSeq returns the first unused sequence number given the ids
// already present: one past the largest parseable suffix, or 0.
func NextChunkSeq(ids []string) int {
	next := 0
	for _, id := range ids {
		if n, ok := ParseChunkID(id); ok && n+1 > next {
			next = n + 1
		}
	}
	return next
}
