// ABOUTME: MCP tool handler implementations for the docqa server
// ABOUTME: Collects the orchestrator's event stream into a single tool result
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quillfish/docqa/internal/answer"
	"github.com/quillfish/docqa/internal/models"
	"github.com/quillfish/docqa/internal/store"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	docs         *store.DocumentStore
	orchestrator *answer.Orchestrator
	defaultTopK  int
}

// askResponse is the JSON payload returned by ask_corpus
type askResponse struct {
	Answer  string             `json:"answer"`
	Sources []models.SourceRef `json:"sources"`
}

// AskCorpus handles the ask_corpus tool: it drains the streaming answer
// into one response, since MCP tool calls are request/response.
func (h *Handlers) AskCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	if strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("question must not be empty"), nil
	}

	topK := request.GetInt("top_k", h.defaultTopK)
	if topK < 1 || topK > 10 {
		return mcp.NewToolResultError("top_k must be between 1 and 10"), nil
	}

	var resp askResponse
	var sb strings.Builder

	for ev := range h.orchestrator.Answer(ctx, question, topK) {
		switch ev := ev.(type) {
		case answer.TokenEvent:
			sb.WriteString(ev.Token)
		case answer.DoneEvent:
			resp.Sources = ev.Sources
			if ev.Answer != "" {
				sb.WriteString(ev.Answer)
			}
		case answer.ErrorEvent:
			return mcp.NewToolResultError(fmt.Sprintf("%s: %s", ev.Code, ev.Message)), nil
		}
	}

	resp.Answer = sb.String()
	responseJSON, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := h.docs.List()

	responseJSON, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal documents: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
