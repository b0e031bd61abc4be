// ABOUTME: MCP command starts a Model Context Protocol server over stdio
// ABOUTME: Enables LLM agents to query the document corpus as a tool
package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quillfish/docqa/internal/config"
	"github.com/quillfish/docqa/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start an MCP (Model Context Protocol) server over stdio.

Exposes the document corpus to LLM agents as tools: ask_corpus answers
a question with cited sources, list_documents shows indexing status.

Note that the corpus is in-memory; documents must be ingested by the
same process, so this surface is most useful embedded behind a serve
deployment or for scripted sessions.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  docqa mcp`,
	}

	return cmd
}

// runMCP starts the MCP server on stdio
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - generated answers are disabled")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("wiring pipeline: %w", err)
	}

	server := mcpserver.NewMCPServer(
		"docqa corpus QA",
		"0.1.0",
	)

	mcp.RegisterTools(server, p.docs, p.orchestrator, cfg.DefaultTopK)

	log.Println("docqa MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
