// ABOUTME: Root CLI command and global flags for docqa
// ABOUTME: Subcommands: serve (HTTP/SSE server), mcp (agent surface), version
package commands

import (
	"github.com/spf13/cobra"
)

var quiet bool

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docqa",
		Short: "Question answering over your own documents",
		Long: `docqa answers questions against a private document corpus.

Upload text or markdown files, and docqa chunks, embeds, and indexes
them in memory. Questions are answered by cosine-similarity retrieval
over the indexed chunks, with the generated answer streamed token by
token and grounded in cited sources.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
