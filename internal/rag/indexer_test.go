// ABOUTME: Tests for the ingestion pipeline and document lifecycle transitions
// ABOUTME: Covers ready/failed states, chunk id determinism, and re-indexing
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/quillfish/docqa/internal/embed"
	"github.com/quillfish/docqa/internal/models"
	"github.com/quillfish/docqa/internal/store"
)

// failingEmbedder always errors, standing in for a broken remote provider
type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return nil, errors.New("provider unavailable")
}

func (failingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return nil, errors.New("provider unavailable")
}

func (failingEmbedder) Dimension() int { return 128 }

func TestIndexer_SuccessfulIngestion(t *testing.T) {
	docs := store.NewDocumentStore()
	chunks := store.NewChunkStore()
	ix := NewIndexer(docs, chunks, embed.NewLocalEmbedder())

	docID := docs.Add("notes.txt", models.StatusProcessing, 800, 120)
	text := strings.Repeat("a", 1000)

	count, err := ix.Index(context.Background(), docID, text, 800, 120)
	if err != nil {
		t.Fatalf("Index() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("chunk count = %d, want 2", count)
	}

	d, _ := docs.Get(docID)
	if d.Status != models.StatusReady {
		t.Errorf("Status = %q, want ready", d.Status)
	}
	if d.ChunkCount != 2 {
		t.Errorf("ChunkCount = %d, want 2", d.ChunkCount)
	}
	if d.Error != "" {
		t.Errorf("Error = %q, want empty", d.Error)
	}

	stored := chunks.ByDoc(docID)
	if len(stored) != 2 {
		t.Fatalf("stored chunks = %d, want 2", len(stored))
	}
	for i, c := range stored {
		want := fmt.Sprintf("%s-%d", docID, i)
		if c.ID != want {
			t.Errorf("chunk id = %s, want %s", c.ID, want)
		}
		if len(c.Vector) != embed.LocalDimension {
			t.Errorf("chunk %d vector dimension = %d, want %d", i, len(c.Vector), embed.LocalDimension)
		}
	}
}

func TestIndexer_InvalidParametersFailBeforeChunking(t *testing.T) {
	docs := store.NewDocumentStore()
	chunks := store.NewChunkStore()
	ix := NewIndexer(docs, chunks, embed.NewLocalEmbedder())

	docID := docs.Add("notes.txt", models.StatusProcessing, 100, 100)

	_, err := ix.Index(context.Background(), docID, "some text", 100, 100)
	if !errors.Is(err, models.ErrInvalidChunking) {
		t.Fatalf("expected ErrInvalidChunking, got %v", err)
	}

	if chunks.Len() != 0 {
		t.Errorf("chunks were produced despite invalid parameters: %d", chunks.Len())
	}
	d, _ := docs.Get(docID)
	if d.Status != models.StatusFailed {
		t.Errorf("Status = %q, want failed", d.Status)
	}
	if d.Error == "" {
		t.Error("Error should be set on failed document")
	}
}

func TestIndexer_EmbeddingFailure(t *testing.T) {
	docs := store.NewDocumentStore()
	chunks := store.NewChunkStore()
	ix := NewIndexer(docs, chunks, failingEmbedder{})

	docID := docs.Add("notes.txt", models.StatusProcessing, 800, 120)

	_, err := ix.Index(context.Background(), docID, "some document text", 800, 120)
	if err == nil {
		t.Fatal("expected error from failing embedder")
	}

	d, _ := docs.Get(docID)
	if d.Status != models.StatusFailed {
		t.Errorf("Status = %q, want failed", d.Status)
	}
	if !strings.Contains(d.Error, "provider unavailable") {
		t.Errorf("Error = %q, want embed failure message", d.Error)
	}
	if d.ChunkCount != 0 {
		t.Errorf("ChunkCount = %d, want 0 (unchanged)", d.ChunkCount)
	}
	if chunks.Len() != 0 {
		t.Errorf("chunks stored despite embedding failure: %d", chunks.Len())
	}
}

func TestIndexer_ReindexReplacesChunks(t *testing.T) {
	docs := store.NewDocumentStore()
	chunks := store.NewChunkStore()
	ix := NewIndexer(docs, chunks, embed.NewLocalEmbedder())

	docID := docs.Add("notes.txt", models.StatusProcessing, 800, 120)

	if _, err := ix.Index(context.Background(), docID, strings.Repeat("a", 1000), 800, 120); err != nil {
		t.Fatalf("first Index() failed: %v", err)
	}
	if _, err := ix.Index(context.Background(), docID, strings.Repeat("b", 1000), 800, 120); err != nil {
		t.Fatalf("second Index() failed: %v", err)
	}

	stored := chunks.ByDoc(docID)
	if len(stored) != 2 {
		t.Fatalf("stored chunks = %d, want 2 (no growth on re-index)", len(stored))
	}
	for _, c := range stored {
		if !strings.Contains(c.Text, "b") {
			t.Errorf("chunk %s still holds pre-reindex text", c.ID)
		}
	}
}

func TestIndexer_EmptyDocument(t *testing.T) {
	docs := store.NewDocumentStore()
	chunks := store.NewChunkStore()
	ix := NewIndexer(docs, chunks, embed.NewLocalEmbedder())

	docID := docs.Add("empty.txt", models.StatusProcessing, 800, 120)

	count, err := ix.Index(context.Background(), docID, "   \n  ", 800, 120)
	if err != nil {
		t.Fatalf("Index() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("chunk count = %d, want 0", count)
	}

	d, _ := docs.Get(docID)
	if d.Status != models.StatusReady {
		t.Errorf("Status = %q, want ready (empty document is not an error)", d.Status)
	}
}
