// ABOUTME: Serve command starts the HTTP server with SSE answer streaming
// ABOUTME: Shuts down gracefully on SIGINT/SIGTERM
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quillfish/docqa/internal/config"
	"github.com/quillfish/docqa/internal/server"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the docqa HTTP server.

Endpoints:
  GET  /api/documents          list uploaded documents
  POST /api/documents/upload   upload and index a .txt/.md file
  GET  /api/chat/stream        answer a question over SSE
  GET  /health                 liveness check`,
		RunE: runServe,
		Example: `  # Serve on the default address
  docqa serve

  # Serve on a specific port with remote embeddings
  DOCQA_EMBEDDER=openai docqa serve --addr :9090`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides DOCQA_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("wiring pipeline: %w", err)
	}

	srv := server.New(p.docs, p.indexer, p.orchestrator, cfg.DefaultTopK)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("docqa server listening on %s", cfg.ListenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
