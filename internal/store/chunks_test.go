// ABOUTME: Tests for the chunk store upsert and snapshot behavior
// ABOUTME: Verifies idempotent replace-by-id and stable insertion order
package store

import (
	"fmt"
	"testing"

	"github.com/quillfish/docqa/internal/models"
)

func chunk(id, docID, text string) models.Chunk {
	return models.Chunk{ID: id, DocID: docID, Text: text, Vector: []float64{1, 0}}
}

func TestChunkStore_UpsertAndAll(t *testing.T) {
	s := NewChunkStore()

	s.Upsert([]models.Chunk{
		chunk("d1-0", "d1", "alpha"),
		chunk("d1-1", "d1", "beta"),
	})

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("All() length = %d, want 2", len(all))
	}
	if all[0].ID != "d1-0" || all[1].ID != "d1-1" {
		t.Errorf("insertion order not preserved: %s, %s", all[0].ID, all[1].ID)
	}
}

func TestChunkStore_UpsertIsIdempotent(t *testing.T) {
	s := NewChunkStore()

	s.Upsert([]models.Chunk{chunk("d1-0", "d1", "original")})
	s.Upsert([]models.Chunk{chunk("d1-0", "d1", "replaced")})

	all := s.All()
	if len(all) != 1 {
		t.Fatalf("All() length = %d, want 1 (no growth on re-upsert)", len(all))
	}
	if all[0].Text != "replaced" {
		t.Errorf("Text = %q, want replaced", all[0].Text)
	}
}

func TestChunkStore_UpsertKeepsPosition(t *testing.T) {
	s := NewChunkStore()

	s.Upsert([]models.Chunk{
		chunk("a", "d1", "one"),
		chunk("b", "d1", "two"),
		chunk("c", "d1", "three"),
	})
	// Replacing the middle chunk must not move it
	s.Upsert([]models.Chunk{chunk("b", "d1", "two v2")})

	all := s.All()
	if all[1].ID != "b" || all[1].Text != "two v2" {
		t.Errorf("replaced chunk moved or stale: got %s %q at index 1", all[1].ID, all[1].Text)
	}
}

func TestChunkStore_ByDoc(t *testing.T) {
	s := NewChunkStore()

	s.Upsert([]models.Chunk{
		chunk("d1-0", "d1", "a"),
		chunk("d2-0", "d2", "b"),
		chunk("d1-1", "d1", "c"),
	})

	got := s.ByDoc("d1")
	if len(got) != 2 {
		t.Fatalf("ByDoc(d1) length = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.DocID != "d1" {
			t.Errorf("ByDoc returned chunk for %s", c.DocID)
		}
	}

	if got := s.ByDoc("missing"); len(got) != 0 {
		t.Errorf("ByDoc(missing) length = %d, want 0", len(got))
	}
}

func TestChunkStore_SnapshotIsIsolated(t *testing.T) {
	s := NewChunkStore()
	s.Upsert([]models.Chunk{chunk("a", "d1", "one")})

	snapshot := s.All()
	s.Upsert([]models.Chunk{chunk("b", "d1", "two")})

	if len(snapshot) != 1 {
		t.Errorf("snapshot mutated by later upsert: length = %d", len(snapshot))
	}
}

func TestChunkStore_Len(t *testing.T) {
	s := NewChunkStore()
	for i := 0; i < 4; i++ {
		s.Upsert([]models.Chunk{chunk(fmt.Sprintf("c%d", i), "d1", "x")})
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}
