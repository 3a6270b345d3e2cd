package ports

import "context"

// Oracle is the external text classification service (an LLM).
// Implementations return *application.TransportError when the call itself
// fails and *application.MalformedResponse when the reply is unusable.
type Oracle interface {
	// Classify sends prompt and returns the full response text
	Classify(ctx context.Context, prompt string, temperature float64) (string, error)

	// Name identifies the backend for logs
	Name() string
}

// StreamingOracle is an Oracle that can deliver its response in chunks.
// The concatenation of all chunks is the response; chunks is closed by the
// implementation when the stream ends.
type StreamingOracle interface {
	Oracle
	Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error
}
