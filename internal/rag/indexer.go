// ABOUTME: Ingestion pipeline: split → embed → upsert chunks → update document status
// ABOUTME: Component failures become document-status updates, never escape past here
package rag

import (
	"context"
	"fmt"
	"log"

	"github.com/quillfish/docqa/internal/embed"
	"github.com/quillfish/docqa/internal/models"
	"github.com/quillfish/docqa/internal/store"
)

// Indexer runs the ingestion pipeline for one document at a time
type Indexer struct {
	docs     *store.DocumentStore
	chunks   *store.ChunkStore
	embedder embed.Embedder
}

// NewIndexer creates an indexer over the given stores and embedder
func NewIndexer(docs *store.DocumentStore, chunks *store.ChunkStore, embedder embed.Embedder) *Indexer {
	return &Indexer{
		docs:     docs,
		chunks:   chunks,
		embedder: embedder,
	}
}

// Index splits and embeds text for a registered document, then marks it
// ready with its chunk count. On any failure the document transitions to
// failed with the error message retained, and the error is returned for
// the upload response; the document record persists for inspection.
func (ix *Indexer) Index(ctx context.Context, docID, text string, chunkSize, overlap int) (int, error) {
	texts, err := Split(text, chunkSize, overlap)
	if err != nil {
		ix.fail(docID, err)
		return 0, err
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		ix.fail(docID, err)
		return 0, err
	}
	if len(vectors) != len(texts) {
		err := fmt.Errorf("%w: expected %d vectors, got %d", models.ErrEmbedding, len(texts), len(vectors))
		ix.fail(docID, err)
		return 0, err
	}

	items := make([]models.Chunk, len(texts))
	for i, t := range texts {
		items[i] = models.Chunk{
			ID:     fmt.Sprintf("%s-%d", docID, i),
			DocID:  docID,
			Text:   t,
			Vector: vectors[i],
		}
	}

	ix.chunks.Upsert(items)

	count := len(items)
	ix.docs.UpdateStatus(docID, models.StatusReady, store.StatusPatch{ChunkCount: &count})
	log.Printf("[index] document %s ready with %d chunks", docID, count)
	return count, nil
}

// fail records a failed indexing attempt without touching the chunk count
func (ix *Indexer) fail(docID string, err error) {
	msg := err.Error()
	ix.docs.UpdateStatus(docID, models.StatusFailed, store.StatusPatch{Error: &msg})
	log.Printf("[index] document %s failed: %v", docID, err)
}
