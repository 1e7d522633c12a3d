// Package provider defines the model-provider boundary: prompt in, answer
// text out. Transport, auth and response-shape failures all surface as
// provider-kind errors so the engine never mutates cache state on them.
package provider

import "context"

// Provider invokes the model backend with a fully built prompt.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Config drives the HTTP chat-completions client. Immutable after
// construction.
type Config struct {
	Endpoint  string
	Model     string
	APIKeyEnv string
	MaxTokens int
	// TimeoutSeconds bounds a single provider call (0 means default)
	TimeoutSeconds int
}
