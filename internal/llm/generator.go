// ABOUTME: Generator interface for streaming answer generation
// ABOUTME: Also provides a scripted in-memory implementation for offline use and tests
package llm

import (
	"context"
	"io"
)

// Role constants for chat messages
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged message in a generation request
type Message struct {
	Role    string
	Content string
}

// TokenStream is a cancellable, lazily-produced sequence of answer tokens.
// Recv returns io.EOF when the provider signals completion; any other
// error means the stream failed. Close releases the underlying call and
// is safe to call on every exit path.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// Generator opens a streaming completion for an ordered list of messages.
// The returned stream must honor cancellation of ctx.
type Generator interface {
	Stream(ctx context.Context, messages []Message) (TokenStream, error)
}

// ScriptedGenerator replays a fixed token sequence, optionally failing
// partway through. Deterministic, for offline runs and tests.
type ScriptedGenerator struct {
	Tokens []string
	// Err, when non-nil, is returned after FailAfter tokens instead of io.EOF
	Err       error
	FailAfter int
}

// Stream starts replaying the scripted tokens
func (g *ScriptedGenerator) Stream(ctx context.Context, messages []Message) (TokenStream, error) {
	return &scriptedStream{gen: g, ctx: ctx}, nil
}

type scriptedStream struct {
	gen *ScriptedGenerator
	ctx context.Context
	pos int
}

func (s *scriptedStream) Recv() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	if s.gen.Err != nil && s.pos >= s.gen.FailAfter {
		return "", s.gen.Err
	}
	if s.pos >= len(s.gen.Tokens) {
		return "", io.EOF
	}
	token := s.gen.Tokens[s.pos]
	s.pos++
	return token, nil
}

func (s *scriptedStream) Close() error {
	return nil
}
