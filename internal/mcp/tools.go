// ABOUTME: MCP tool definitions and registration for the docqa server
// ABOUTME: Exposes corpus question-answering and document listing to LLM agents
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/quillfish/docqa/internal/answer"
	"github.com/quillfish/docqa/internal/store"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, docs *store.DocumentStore, orchestrator *answer.Orchestrator, defaultTopK int) *Handlers {
	handlers := &Handlers{
		docs:         docs,
		orchestrator: orchestrator,
		defaultTopK:  defaultTopK,
	}

	// 1. ask_corpus - Answer a question from the indexed documents
	server.AddTool(mcp.Tool{
		Name:        "ask_corpus",
		Description: "Answer a question using the indexed document corpus. Returns the answer text and the source chunks it is grounded on.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the corpus",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of source chunks to retrieve (default: 4)",
					"default":     4,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskCorpus)

	// 2. list_documents - List all indexed documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List all uploaded documents with their indexing status and chunk counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	return handlers
}
