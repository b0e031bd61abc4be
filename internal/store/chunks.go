// ABOUTME: In-memory chunk store with idempotent upsert by chunk id
// ABOUTME: Preserves insertion order so retrieval tie-breaks are deterministic
package store

import (
	"sync"

	"github.com/quillfish/docqa/internal/models"
)

// ChunkStore holds all indexed chunks. Upserting an existing id replaces
// the chunk in place, so re-indexing a document never grows the store.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks []models.Chunk
	byID   map[string]int // chunk id → index into chunks
}

// NewChunkStore creates an empty chunk store
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		byID: make(map[string]int),
	}
}

// Upsert inserts or replaces chunks by id in one atomic operation
func (s *ChunkStore) Upsert(items []models.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if idx, ok := s.byID[item.ID]; ok {
			s.chunks[idx] = item
			continue
		}
		s.byID[item.ID] = len(s.chunks)
		s.chunks = append(s.chunks, item)
	}
}

// All returns a point-in-time snapshot of every chunk, in insertion order
func (s *ChunkStore) All() []models.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Chunk, len(s.chunks))
	copy(snapshot, s.chunks)
	return snapshot
}

// ByDoc returns the chunks indexed for one document
func (s *ChunkStore) ByDoc(docID string) []models.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Chunk
	for _, c := range s.chunks {
		if c.DocID == docID {
			out = append(out, c)
		}
	}
	return out
}

// Len reports the number of stored chunks
func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
