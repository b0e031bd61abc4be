// ABOUTME: Document endpoints: list and multipart upload with synchronous indexing
// ABOUTME: Validates chunk parameters, file type, and size before any state change
package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillfish/docqa/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// Chunk parameter bounds for uploads
const (
	minChunkSize     = 200
	maxChunkSize     = 2000
	defaultChunkSize = 800
	maxOverlap       = 400
	defaultOverlap   = 120
)

var allowedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// handleListDocuments returns all documents, newest first
func (s *Server) handleListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, s.docs.List())
}

// handleUpload ingests one text or markdown file. The document record is
// created before indexing starts and persists even when indexing fails,
// so failures stay inspectable via the list endpoint.
func (s *Server) handleUpload(c *gin.Context) {
	chunkSize, err := queryInt(c, "chunkSize", defaultChunkSize, minChunkSize, maxChunkSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	overlap, err := queryInt(c, "overlap", defaultOverlap, 0, maxOverlap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if overlap >= chunkSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "overlap must be smaller than chunkSize"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 10 MiB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .txt and .md files are supported"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not readable"})
		return
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading file: " + err.Error()})
		return
	}
	if len(raw) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 10 MiB limit"})
		return
	}

	docID := s.docs.Add(fileHeader.Filename, models.StatusProcessing, chunkSize, overlap)

	count, err := s.indexer.Index(c.Request.Context(), docID, string(raw), chunkSize, overlap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         docID,
		"name":       fileHeader.Filename,
		"status":     models.StatusReady,
		"chunkCount": count,
	})
}

// queryInt parses an optional integer query parameter within bounds
func queryInt(c *gin.Context, name string, def, min, max int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return v, nil
}
