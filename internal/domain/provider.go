package domain

import "context"

// GenerateRequest carries everything the generation service needs to
// produce one candidate command line.
type GenerateRequest struct {
	SystemPrompt string
	Prompt       string // the natural language request
	ScopeHint    string // optional path/glob hint, empty when unset
	PeekContext  string // optional sample-data context, empty when unset
}

// CommandGenerator produces a raw command line from a request context.
// The returned string is untrusted and must pass validation before it is
// ever executed.
type CommandGenerator interface {
	GenerateCommand(ctx context.Context, req GenerateRequest) (string, error)
}

// ChatClient answers a free-form prompt; used for command explanations
// and history diagnostics.
type ChatClient interface {
	Respond(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// Provider is the full generation-service surface a backend implements.
type Provider interface {
	CommandGenerator
	ChatClient
	Name() string
}
