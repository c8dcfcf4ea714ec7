// Package audit records telemetry about outbound model-inference calls. It is
// observability only: no allocation state is ever written here.
package audit

import (
	"context"
	"time"
)

// Entry describes one inference call.
type Entry struct {
	ID               int64     `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Operation        string    `json:"operation"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	LatencyMs        int64     `json:"latency_ms"`
	Status           string    `json:"status"` // "success" or "error"
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Recorder accepts inference entries. Implementations must never block the
// calling request path.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// NopRecorder discards everything. Used when no audit database is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) {}

func (NopRecorder) Recent(context.Context, int) ([]Entry, error) {
	return []Entry{}, nil
}
