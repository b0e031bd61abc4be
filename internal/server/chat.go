// ABOUTME: SSE endpoint streaming answer events for one question
// ABOUTME: Serializes the orchestrator's typed events; never invents its own
package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// handleChatStream answers a question over SSE.
// GET /api/chat/stream?question=...&topK=4
//
// Events: token{token}, done{answer?,sources}, error{code,message}.
// Exactly one of done/error ends the stream. Validation failures are
// rejected as plain JSON before the SSE handshake.
func (s *Server) handleChatStream(c *gin.Context) {
	question := strings.TrimSpace(c.Query("question"))
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	topK, err := queryInt(c, "topK", s.defaultTopK, 1, 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache, no-transform")
	c.Writer.Header().Set("Connection", "keep-alive")
	// Flush headers before the first event so clients see a live connection
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	// c.Request.Context() is cancelled when the client disconnects, which
	// aborts the in-flight generation call upstream.
	events := s.orchestrator.Answer(c.Request.Context(), question, topK)

	for ev := range events {
		c.SSEvent(ev.Name(), ev)
		c.Writer.Flush()
	}
}
