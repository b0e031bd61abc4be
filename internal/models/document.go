// ABOUTME: Document represents an uploaded file tracked through the indexing lifecycle
// ABOUTME: Status moves processing → ready/failed exactly once per indexing attempt
package models

import "time"

// DocStatus is the indexing lifecycle state of a document
type DocStatus string

const (
	StatusUploaded   DocStatus = "uploaded"
	StatusProcessing DocStatus = "processing"
	StatusReady      DocStatus = "ready"
	StatusFailed     DocStatus = "failed"
)

// Document is one uploaded file and the parameters used to index it.
// Error is set if and only if Status is failed; ChunkCount reflects the
// last completed indexing attempt and is not reset on failure.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     DocStatus `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	ChunkSize  int       `json:"chunkSize"`
	Overlap    int       `json:"overlap"`
	ChunkCount int       `json:"chunkCount"`
	Error      string    `json:"error,omitempty"`
}
