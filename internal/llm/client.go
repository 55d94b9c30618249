package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is a single-shot text completion endpoint. Implementations must be
// safe for concurrent use; one call per pipeline step, no streaming.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
