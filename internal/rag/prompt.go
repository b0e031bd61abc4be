// ABOUTME: Builds the grounded prompt that constrains generation to retrieved sources
// ABOUTME: Each source carries a reference number, ids, score, and a collapsed snippet
package rag

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quillfish/docqa/internal/models"
)

// maxSnippetLen caps how much of each chunk is quoted in the prompt
const maxSnippetLen = 800

var whitespaceRe = regexp.MustCompile(`\s+`)

// BuildPrompt assembles the question and retrieved sources into a single
// grounded prompt. Deterministic for identical inputs.
func BuildPrompt(question string, sources []models.RetrievedChunk) string {
	blocks := make([]string, 0, len(sources))
	for i, s := range sources {
		snippet := collapseWhitespace(s.Chunk.Text)
		if runes := []rune(snippet); len(runes) > maxSnippetLen {
			snippet = string(runes[:maxSnippetLen])
		}
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("[#%d] docId=%s chunkId=%s score=%.4f", i+1, s.Chunk.DocID, s.Chunk.ID, s.Score),
			"Content: " + snippet,
		}, "\n"))
	}

	ctx := strings.Join(blocks, "\n\n")
	if ctx == "" {
		ctx = "(none)"
	}

	return strings.Join([]string{
		"You are a rigorous question-answering assistant. Answer strictly from the SOURCES below; if they are insufficient, say so explicitly instead of guessing.",
		"",
		"SOURCES:",
		ctx,
		"",
		"QUESTION:",
		question,
		"",
		"REQUIREMENTS:",
		"1) Lead with the conclusion, then supporting detail.",
		"2) Cite a source reference number [#] or chunkId for every claim (for example: per [#2]).",
		"3) Do not invent facts that are not in the sources.",
	}, "\n")
}

// collapseWhitespace folds all whitespace runs into single spaces
func collapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}
