// ABOUTME: Embedder interface plus the deterministic local implementation
// ABOUTME: All vectors are L2-normalized so cosine similarity reduces to a dot product
package embed

import (
	"context"
	"math"
)

// Embedder maps text to fixed-dimension unit vectors. Implementations must
// return one vector per input, in input order, all of the same dimension.
type Embedder interface {
	// Embed embeds a batch of texts
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// EmbedQuery embeds a single query string with the same function
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
	// Dimension reports the vector dimension this embedder produces
	Dimension() int
}

// LocalDimension is the vector dimension of the deterministic embedder
const LocalDimension = 128

// LocalEmbedder is a deterministic, dependency-free embedder: a pure
// function of the input bytes. It is not semantically meaningful but makes
// indexing and retrieval fully reproducible for tests and offline use.
type LocalEmbedder struct{}

// NewLocalEmbedder creates a deterministic local embedder
func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{}
}

// Dimension returns the fixed local vector dimension
func (e *LocalEmbedder) Dimension() int {
	return LocalDimension
}

// Embed embeds each text independently and deterministically
func (e *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = hashEmbedding(text)
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string
func (e *LocalEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return hashEmbedding(text), nil
}

// hashEmbedding folds character codes into a fixed-width accumulator and
// L2-normalizes the result. Identical input always yields the identical
// unit vector, so cosine self-similarity is exactly 1.
func hashEmbedding(text string) []float64 {
	v := make([]float64, LocalDimension)
	i := 0
	for _, r := range text {
		v[i%LocalDimension] += float64(r%13) * 0.1
		i++
	}

	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}
