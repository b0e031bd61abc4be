// ABOUTME: Splits normalized document text into ordered, overlapping fixed-width chunks
// ABOUTME: Every character of the input is covered by at least one chunk
package rag

import (
	"fmt"
	"strings"

	"github.com/quillfish/docqa/internal/models"
)

// Split cuts text into windows of chunkSize characters, each window
// starting overlap characters before the previous one ended. Line endings
// are normalized to \n and the text is trimmed before splitting. The final
// chunk may be shorter than chunkSize; empty chunks are discarded.
//
// overlap must be in [0, chunkSize) or the window would never advance;
// violations fail with models.ErrInvalidChunking.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunkSize must be positive, got %d", models.ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, chunkSize), got overlap=%d chunkSize=%d", models.ErrInvalidChunking, overlap, chunkSize)
	}

	clean := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	runes := []rune(clean)

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if chunk := string(runes[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
		start = end - overlap
	}

	return chunks, nil
}
