// ABOUTME: Error taxonomy shared across ingestion, retrieval, and streaming
// ABOUTME: Sentinel errors support errors.Is checks at the HTTP and SSE boundaries
package models

import "errors"

var (
	// ErrInvalidChunking is returned when splitter parameters cannot
	// advance the window (overlap >= chunkSize, or non-positive size).
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrNotFound is returned when a document id is unknown
	ErrNotFound = errors.New("document not found")

	// ErrEmbedding wraps failures from the embedding provider
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration wraps failures from the generation provider
	ErrGeneration = errors.New("generation failed")
)

// DefaultFailureMessage is stored on a document when indexing fails
// without a usable error message.
const DefaultFailureMessage = "unknown error"
