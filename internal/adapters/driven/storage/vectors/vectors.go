// Package vectors holds the embedding encoding and distance helpers shared
// by the vector store adapters.
package vectors

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode converts a []float32 to a little-endian byte slice for storage.
func Encode(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode converts a byte slice produced by Encode back to []float32.
func Decode(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vectors: invalid embedding blob length %d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

// CosineDistance returns 1 - cosine similarity, in [0, 2].
// Vectors of different or zero length are not comparable and return ok=false.
// A zero-magnitude vector is orthogonal to everything (distance 1).
func CosineDistance(a, b []float32) (dist float64, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 1, true
	}
	return 1 - dot/(math.Sqrt(na2)*math.Sqrt(nb2)), true
}

// Normalize scales vec to unit length in place. Zero vectors are left as is.
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
