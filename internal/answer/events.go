// ABOUTME: Typed event union emitted by the answer orchestrator
// ABOUTME: Transport layers only serialize these, they never invent events
package answer

import "github.com/quillfish/docqa/internal/models"

// Event is one item in a question's answer stream. Exactly one terminal
// event (DoneEvent or ErrorEvent) ends every stream.
type Event interface {
	// Name is the wire-level event name
	Name() string
	// Terminal reports whether this event ends the stream
	Terminal() bool
}

// TokenEvent carries one generated answer fragment
type TokenEvent struct {
	Token string `json:"token"`
}

func (TokenEvent) Name() string   { return "token" }
func (TokenEvent) Terminal() bool { return false }

// DoneEvent ends a successful stream with the sources that grounded the
// answer. Answer is only set on the no-evidence fast path, where no tokens
// were streamed.
type DoneEvent struct {
	Answer  string             `json:"answer,omitempty"`
	Sources []models.SourceRef `json:"sources"`
}

func (DoneEvent) Name() string   { return "done" }
func (DoneEvent) Terminal() bool { return true }

// ErrorEvent ends a failed stream with a stable code and a message safe
// to show to clients
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ErrorEvent) Name() string   { return "error" }
func (ErrorEvent) Terminal() bool { return true }

// Stable error codes surfaced to clients
const (
	CodeRetrievalFailed = "RETRIEVAL_FAILED"
	CodeStreamFailed    = "STREAM_FAILED"
)
