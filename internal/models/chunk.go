// ABOUTME: Chunk is the unit of indexing and retrieval, a substring plus its embedding
// ABOUTME: Also defines the scored retrieval result and the public source projection
package models

// Chunk is one indexed fragment of a document. The ID is a deterministic
// composite of the document id and the chunk's ordinal, so re-indexing a
// document overwrites its chunks instead of duplicating them.
type Chunk struct {
	ID     string    `json:"id"`
	DocID  string    `json:"docId"`
	Text   string    `json:"text"`
	Vector []float64 `json:"vector"`
}

// RetrievedChunk pairs a chunk with its similarity score for one query
type RetrievedChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// SourceRef is the public projection of a retrieved chunk sent to clients:
// no vector, score rounded to 4 decimals, snippet truncated for display.
type SourceRef struct {
	DocID   string  `json:"docId"`
	ChunkID string  `json:"chunkId"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}
