// ABOUTME: Brute-force cosine similarity retrieval over the chunk store snapshot
// ABOUTME: O(N·D) per query, the deliberate choice at this corpus scale
package rag

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/quillfish/docqa/internal/embed"
	"github.com/quillfish/docqa/internal/models"
	"github.com/quillfish/docqa/internal/store"
)

// Retriever embeds a query and scores it against every stored chunk
type Retriever struct {
	chunks   *store.ChunkStore
	embedder embed.Embedder
}

// NewRetriever creates a retriever over the given store and embedder
func NewRetriever(chunks *store.ChunkStore, embedder embed.Embedder) *Retriever {
	return &Retriever{
		chunks:   chunks,
		embedder: embedder,
	}
}

// RetrieveTopK returns the k chunks most similar to the query, sorted by
// descending score. Ties keep their snapshot order. An empty corpus yields
// an empty result, not an error.
func (r *Retriever) RetrieveTopK(ctx context.Context, query string, k int) ([]models.RetrievedChunk, error) {
	qv, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", models.ErrEmbedding, err)
	}

	all := r.chunks.All()
	log.Printf("[retrieve] scoring %d chunks", len(all))

	scored := make([]models.RetrievedChunk, len(all))
	for i, chunk := range all {
		scored[i] = models.RetrievedChunk{
			Chunk: chunk,
			Score: cosineSimilarity(qv, chunk.Vector),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// cosineSimilarity calculates cosine similarity between two vectors,
// returning 0 when either vector has zero norm
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
