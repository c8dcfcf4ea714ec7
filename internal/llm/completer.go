package llm

import "context"

// Request is one completion call. JSONMode asks the backend to constrain the
// reply to a single JSON object; leave it off when the caller parses free text.
type Request struct {
	System    string
	User      string
	JSONMode  bool
	Operation string // audit label, e.g. "allocation" or "sentiment"
}

// Completer is the text-completion capability the pipeline depends on. The
// backend is treated as an untrusted, best-effort oracle: callers must validate
// everything it returns.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
