// ABOUTME: Drives retrieval → prompt → generation → event emission for one question
// ABOUTME: Guarantees exactly one terminal event and cancellation of in-flight generation
package answer

import (
	"context"
	"errors"
	"io"
	"log"
	"math"

	"github.com/quillfish/docqa/internal/llm"
	"github.com/quillfish/docqa/internal/models"
	"github.com/quillfish/docqa/internal/rag"
)

// NoEvidenceAnswer is sent when retrieval finds nothing; the generator is
// never invoked in that case.
const NoEvidenceAnswer = "No relevant content was found in the knowledge base, so I cannot answer from the documents. Try different keywords, or upload a relevant document first."

// systemPrompt frames every generation call
const systemPrompt = "You are a rigorous question-answering assistant. Answer only from the provided sources, and say so when they are not sufficient to conclude."

// snippetLen caps the snippet length in source projections sent to clients
const snippetLen = 180

// Orchestrator composes retrieval and streaming generation into a single
// event stream per question
type Orchestrator struct {
	retriever *rag.Retriever
	generator llm.Generator
}

// NewOrchestrator creates an orchestrator over the given retriever and generator
func NewOrchestrator(retriever *rag.Retriever, generator llm.Generator) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
	}
}

// Answer runs the question through retrieval and generation, emitting
// events on the returned channel in order: zero or more TokenEvents, then
// exactly one terminal event. The channel is closed after the terminal
// event. Cancelling ctx aborts the in-flight generation call; nothing is
// emitted after cancellation.
func (o *Orchestrator) Answer(ctx context.Context, question string, topK int) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)
		o.run(ctx, question, topK, events)
	}()

	return events
}

// run walks the state machine. Every return path has emitted at most one
// terminal event; emit itself refuses to send once ctx is cancelled.
func (o *Orchestrator) run(ctx context.Context, question string, topK int, events chan<- Event) {
	// Retrieving
	sources, err := o.retriever.RetrieveTopK(ctx, question, topK)
	if err != nil {
		log.Printf("[answer] retrieval failed: %v", err)
		emit(ctx, events, ErrorEvent{Code: CodeRetrievalFailed, Message: err.Error()})
		return
	}

	// NoEvidence: short-circuit before the generator is ever involved
	if len(sources) == 0 {
		emit(ctx, events, DoneEvent{Answer: NoEvidenceAnswer, Sources: []models.SourceRef{}})
		return
	}

	// Generating
	prompt := rag.BuildPrompt(question, sources)
	stream, err := o.generator.Stream(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		log.Printf("[answer] opening generation stream failed: %v", err)
		emit(ctx, events, ErrorEvent{Code: CodeStreamFailed, Message: err.Error()})
		return
	}
	defer stream.Close()

	// StreamingTokens → Done/Error
	for {
		token, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			emit(ctx, events, DoneEvent{Sources: projectSources(sources)})
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				// consumer is gone; no event may follow
				return
			}
			log.Printf("[answer] generation failed mid-stream: %v", err)
			emit(ctx, events, ErrorEvent{Code: CodeStreamFailed, Message: err.Error()})
			return
		}
		if token == "" {
			continue
		}
		if !emit(ctx, events, TokenEvent{Token: token}) {
			return
		}
	}
}

// emit delivers an event unless the consumer has gone away. Returns false
// once ctx is cancelled, after which no further event may be sent.
func emit(ctx context.Context, events chan<- Event, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// projectSources downgrades retrieved chunks to their public projection
func projectSources(sources []models.RetrievedChunk) []models.SourceRef {
	refs := make([]models.SourceRef, len(sources))
	for i, s := range sources {
		snippet := s.Chunk.Text
		if runes := []rune(snippet); len(runes) > snippetLen {
			snippet = string(runes[:snippetLen])
		}
		refs[i] = models.SourceRef{
			DocID:   s.Chunk.DocID,
			ChunkID: s.Chunk.ID,
			Score:   math.Round(s.Score*10000) / 10000,
			Snippet: snippet,
		}
	}
	return refs
}
