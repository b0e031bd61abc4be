// ABOUTME: Shared wiring for CLI commands
// ABOUTME: Builds the store/embedder/generator pipeline from configuration
package commands

import (
	"log"

	"github.com/quillfish/docqa/internal/answer"
	"github.com/quillfish/docqa/internal/config"
	"github.com/quillfish/docqa/internal/embed"
	"github.com/quillfish/docqa/internal/llm"
	"github.com/quillfish/docqa/internal/rag"
	"github.com/quillfish/docqa/internal/store"
)

// pipeline bundles the wired service components shared by serve and mcp
type pipeline struct {
	docs         *store.DocumentStore
	chunks       *store.ChunkStore
	indexer      *rag.Indexer
	orchestrator *answer.Orchestrator
}

// buildPipeline wires stores, embedder, retriever, generator, and the
// orchestrator according to config
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	docs := store.NewDocumentStore()
	chunks := store.NewChunkStore()

	var embedder embed.Embedder
	if cfg.EmbeddingProvider == "openai" {
		e, err := embed.NewOpenAIEmbedder(embed.OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.EmbeddingModel,
			BatchSize:  cfg.EmbedBatchSize,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
		if err != nil {
			return nil, err
		}
		embedder = e
	} else {
		embedder = embed.NewLocalEmbedder()
	}

	var generator llm.Generator
	if cfg.APIKey != "" {
		g, err := llm.NewOpenAIGenerator(llm.OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.ChatModel,
			Temperature: float32(cfg.Temperature),
		})
		if err != nil {
			return nil, err
		}
		generator = g
	} else {
		log.Println("Warning: OPENAI_API_KEY not set - answers will report that generation is not configured")
		generator = &llm.ScriptedGenerator{Tokens: []string{
			"Generation is not configured on this server. ",
			"Set OPENAI_API_KEY (and optionally OPENAI_BASE_URL) to enable generated answers; ",
			"retrieval and source citation still work.",
		}}
	}

	return &pipeline{
		docs:         docs,
		chunks:       chunks,
		indexer:      rag.NewIndexer(docs, chunks, embedder),
		orchestrator: answer.NewOrchestrator(rag.NewRetriever(chunks, embedder), generator),
	}, nil
}
