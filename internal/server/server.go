// ABOUTME: HTTP server wiring: gin router, CORS, and route registration
// ABOUTME: Transport layer only; all question-answering logic lives in internal packages
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quillfish/docqa/internal/answer"
	"github.com/quillfish/docqa/internal/rag"
	"github.com/quillfish/docqa/internal/store"
)

// Server exposes the document and chat endpoints
type Server struct {
	docs         *store.DocumentStore
	indexer      *rag.Indexer
	orchestrator *answer.Orchestrator
	defaultTopK  int
}

// New creates a server over the given stores and pipeline components
func New(docs *store.DocumentStore, indexer *rag.Indexer, orchestrator *answer.Orchestrator, defaultTopK int) *Server {
	return &Server{
		docs:         docs,
		indexer:      indexer,
		orchestrator: orchestrator,
		defaultTopK:  defaultTopK,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	// Browser UI runs on its own origin during development
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api := r.Group("/api")
	{
		api.GET("/documents", s.handleListDocuments)
		api.POST("/documents/upload", s.handleUpload)
		api.GET("/chat/stream", s.handleChatStream)
	}

	return r
}
