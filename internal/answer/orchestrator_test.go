// ABOUTME: Tests for the streaming answer orchestrator state machine
// ABOUTME: Verifies terminal-event guarantees, no-evidence short circuit, and cancellation
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quillfish/docqa/internal/embed"
	"github.com/quillfish/docqa/internal/llm"
	"github.com/quillfish/docqa/internal/models"
	"github.com/quillfish/docqa/internal/rag"
	"github.com/quillfish/docqa/internal/store"
)

// trackingGenerator records whether Stream was ever opened and whether the
// returned stream was closed
type trackingGenerator struct {
	inner   llm.Generator
	invoked bool
	closed  bool
	openErr error
}

func (g *trackingGenerator) Stream(ctx context.Context, messages []llm.Message) (llm.TokenStream, error) {
	g.invoked = true
	if g.openErr != nil {
		return nil, g.openErr
	}
	stream, err := g.inner.Stream(ctx, messages)
	if err != nil {
		return nil, err
	}
	return &trackingStream{inner: stream, gen: g}, nil
}

type trackingStream struct {
	inner llm.TokenStream
	gen   *trackingGenerator
}

func (s *trackingStream) Recv() (string, error) { return s.inner.Recv() }

func (s *trackingStream) Close() error {
	s.gen.closed = true
	return s.inner.Close()
}

// failingEmbedder simulates a broken embedding provider at query time
type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return nil, errors.New("embed down")
}
func (failingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return nil, errors.New("embed down")
}
func (failingEmbedder) Dimension() int { return 128 }

// seededRetriever builds a retriever over n deterministic chunks
func seededRetriever(t *testing.T, n int) *rag.Retriever {
	t.Helper()

	chunks := store.NewChunkStore()
	e := embed.NewLocalEmbedder()

	if n > 0 {
		texts := make([]string, n)
		for i := range texts {
			texts[i] = fmt.Sprintf("chunk number %d about goroutines and channels", i)
		}
		vectors, err := e.Embed(context.Background(), texts)
		if err != nil {
			t.Fatalf("seeding embeddings failed: %v", err)
		}
		items := make([]models.Chunk, n)
		for i := range items {
			items[i] = models.Chunk{
				ID:     fmt.Sprintf("doc1-%d", i),
				DocID:  "doc1",
				Text:   texts[i],
				Vector: vectors[i],
			}
		}
		chunks.Upsert(items)
	}

	return rag.NewRetriever(chunks, e)
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()

	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func TestOrchestrator_EmptyCorpusShortCircuit(t *testing.T) {
	gen := &trackingGenerator{inner: &llm.ScriptedGenerator{Tokens: []string{"never"}}}
	o := NewOrchestrator(seededRetriever(t, 0), gen)

	events := collect(t, o.Answer(context.Background(), "anything", 4))

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	done, ok := events[0].(DoneEvent)
	if !ok {
		t.Fatalf("expected DoneEvent, got %T", events[0])
	}
	if done.Answer != NoEvidenceAnswer {
		t.Errorf("Answer = %q, want the fixed fallback message", done.Answer)
	}
	if done.Sources == nil || len(done.Sources) != 0 {
		t.Errorf("Sources = %v, want empty non-nil list", done.Sources)
	}
	if gen.invoked {
		t.Error("generator must never be invoked when retrieval is empty")
	}
}

func TestOrchestrator_TokensThenDone(t *testing.T) {
	gen := &trackingGenerator{inner: &llm.ScriptedGenerator{Tokens: []string{"Go ", "is ", "fun"}}}
	o := NewOrchestrator(seededRetriever(t, 3), gen)

	events := collect(t, o.Answer(context.Background(), "what is go", 2))

	if len(events) != 4 {
		t.Fatalf("expected 3 tokens + 1 done, got %d events", len(events))
	}

	var answerText strings.Builder
	for i := 0; i < 3; i++ {
		tok, ok := events[i].(TokenEvent)
		if !ok {
			t.Fatalf("event %d = %T, want TokenEvent", i, events[i])
		}
		answerText.WriteString(tok.Token)
	}
	if answerText.String() != "Go is fun" {
		t.Errorf("token order not preserved: %q", answerText.String())
	}

	done, ok := events[3].(DoneEvent)
	if !ok {
		t.Fatalf("final event = %T, want DoneEvent", events[3])
	}
	if done.Answer != "" {
		t.Errorf("Answer = %q, want empty on the streamed path", done.Answer)
	}
	if len(done.Sources) != 2 {
		t.Fatalf("Sources length = %d, want topK=2", len(done.Sources))
	}
	for _, src := range done.Sources {
		if src.DocID != "doc1" {
			t.Errorf("source DocID = %q, want doc1", src.DocID)
		}
		if src.Score < -1 || src.Score > 1 {
			t.Errorf("source score %f outside [-1, 1]", src.Score)
		}
		if len([]rune(src.Snippet)) > 180 {
			t.Errorf("snippet length %d exceeds 180", len([]rune(src.Snippet)))
		}
	}
	if !gen.closed {
		t.Error("generation stream not closed after completion")
	}
}

func TestOrchestrator_ProviderFailsMidStream(t *testing.T) {
	gen := &trackingGenerator{inner: &llm.ScriptedGenerator{
		Tokens:    []string{"one ", "two ", "three ", "four"},
		Err:       errors.New("provider hiccup"),
		FailAfter: 3,
	}}
	o := NewOrchestrator(seededRetriever(t, 2), gen)

	events := collect(t, o.Answer(context.Background(), "q", 4))

	if len(events) != 4 {
		t.Fatalf("expected 3 tokens + 1 error, got %d events", len(events))
	}
	for i := 0; i < 3; i++ {
		if _, ok := events[i].(TokenEvent); !ok {
			t.Errorf("event %d = %T, want TokenEvent", i, events[i])
		}
	}
	errEv, ok := events[3].(ErrorEvent)
	if !ok {
		t.Fatalf("final event = %T, want ErrorEvent", events[3])
	}
	if errEv.Code != CodeStreamFailed {
		t.Errorf("Code = %q, want %q", errEv.Code, CodeStreamFailed)
	}
	if !strings.Contains(errEv.Message, "provider hiccup") {
		t.Errorf("Message = %q, want provider failure detail", errEv.Message)
	}
	if !gen.closed {
		t.Error("generation stream not closed after failure")
	}
}

func TestOrchestrator_StreamOpenFailure(t *testing.T) {
	gen := &trackingGenerator{openErr: errors.New("dial refused")}
	o := NewOrchestrator(seededRetriever(t, 1), gen)

	events := collect(t, o.Answer(context.Background(), "q", 4))

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	errEv, ok := events[0].(ErrorEvent)
	if !ok {
		t.Fatalf("event = %T, want ErrorEvent", events[0])
	}
	if errEv.Code != CodeStreamFailed {
		t.Errorf("Code = %q, want %q", errEv.Code, CodeStreamFailed)
	}
}

func TestOrchestrator_RetrievalFailure(t *testing.T) {
	chunks := store.NewChunkStore()
	chunks.Upsert([]models.Chunk{{ID: "a", DocID: "d", Text: "t", Vector: []float64{1}}})
	retriever := rag.NewRetriever(chunks, failingEmbedder{})

	gen := &trackingGenerator{inner: &llm.ScriptedGenerator{Tokens: []string{"x"}}}
	o := NewOrchestrator(retriever, gen)

	events := collect(t, o.Answer(context.Background(), "q", 4))

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	errEv, ok := events[0].(ErrorEvent)
	if !ok {
		t.Fatalf("event = %T, want ErrorEvent", events[0])
	}
	if errEv.Code != CodeRetrievalFailed {
		t.Errorf("Code = %q, want %q", errEv.Code, CodeRetrievalFailed)
	}
	if gen.invoked {
		t.Error("generator must not be invoked when retrieval fails")
	}
}

func TestOrchestrator_CancellationStopsEvents(t *testing.T) {
	gen := &trackingGenerator{inner: &llm.ScriptedGenerator{
		Tokens: []string{"a", "b", "c", "d", "e", "f"},
	}}
	o := NewOrchestrator(seededRetriever(t, 2), gen)

	ctx, cancel := context.WithCancel(context.Background())
	events := o.Answer(ctx, "q", 4)

	// Take the first token, then simulate the consumer disconnecting
	first, ok := <-events
	if !ok {
		t.Fatal("stream closed before first event")
	}
	if _, isToken := first.(TokenEvent); !isToken {
		t.Fatalf("first event = %T, want TokenEvent", first)
	}
	cancel()

	// Drain whatever was in flight; no terminal event may arrive
	remaining := collect(t, events)
	for _, ev := range remaining {
		if ev.Terminal() {
			t.Errorf("terminal event %T emitted after cancellation", ev)
		}
	}
}

func TestOrchestrator_ExactlyOneTerminalEvent(t *testing.T) {
	tests := []struct {
		name string
		gen  *trackingGenerator
		n    int
	}{
		{"normal completion", &trackingGenerator{inner: &llm.ScriptedGenerator{Tokens: []string{"x"}}}, 2},
		{"no evidence", &trackingGenerator{inner: &llm.ScriptedGenerator{Tokens: []string{"x"}}}, 0},
		{"mid-stream failure", &trackingGenerator{inner: &llm.ScriptedGenerator{Err: errors.New("boom")}}, 2},
		{"open failure", &trackingGenerator{openErr: errors.New("boom")}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(seededRetriever(t, tt.n), tt.gen)
			events := collect(t, o.Answer(context.Background(), "q", 4))

			terminals := 0
			for i, ev := range events {
				if ev.Terminal() {
					terminals++
					if i != len(events)-1 {
						t.Errorf("terminal event at index %d is not last of %d", i, len(events))
					}
				}
			}
			if terminals != 1 {
				t.Errorf("terminal events = %d, want exactly 1", terminals)
			}
		})
	}
}
