package interfaces

import "context"

// ModelClient generates free text from a prompt. Implementations are
// expected to be unreliable: callers must be ready to substitute a
// deterministic rendering when Generate errors or returns implausible text.
type ModelClient interface {
	// Generate returns the model's text for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Enabled reports whether the client is configured to make calls.
	Enabled() bool
}
