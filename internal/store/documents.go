// ABOUTME: In-memory document store with atomic per-record status updates
// ABOUTME: Owns all Document records; callers only see copies
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillfish/docqa/internal/models"
)

// StatusPatch carries optional fields for UpdateStatus. Nil fields leave
// the stored value unchanged.
type StatusPatch struct {
	Error      *string
	ChunkCount *int
}

// DocumentStore tracks uploaded documents and their indexing lifecycle.
// Every mutation is a single read-modify-write under the lock, so
// concurrent writers targeting the same id cannot lose updates.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]models.Document
}

// NewDocumentStore creates an empty document store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]models.Document),
	}
}

// Add registers a new document and returns its generated id
func (s *DocumentStore) Add(name string, status models.DocStatus, chunkSize, overlap int) string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = models.Document{
		ID:        id,
		Name:      name,
		Status:    status,
		CreatedAt: time.Now(),
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
	return id
}

// UpdateStatus transitions a document's lifecycle state. Unknown ids are
// ignored. A failed status always records an error message (the patch's,
// the prior stored one, or the default); any other status clears it.
// ChunkCount is only changed when the patch supplies it.
func (s *DocumentStore) UpdateStatus(id string, status models.DocStatus, patch StatusPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		return
	}

	d.Status = status
	if status == models.StatusFailed {
		switch {
		case patch.Error != nil && *patch.Error != "":
			d.Error = *patch.Error
		case d.Error != "":
			// keep the previously recorded failure
		default:
			d.Error = models.DefaultFailureMessage
		}
	} else {
		d.Error = ""
	}
	if patch.ChunkCount != nil {
		d.ChunkCount = *patch.ChunkCount
	}

	s.docs[id] = d
}

// List returns all documents ordered by creation time, newest first
func (s *DocumentStore) List() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]models.Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs
}

// Get returns the document with the given id, or models.ErrNotFound
func (s *DocumentStore) Get(id string) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return models.Document{}, models.ErrNotFound
	}
	return d, nil
}
