package intent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"walletchat/internal/llm"
	"walletchat/internal/session"
)

// Classifier is the LLM-backed classification path. It makes exactly one
// non-streaming completion call per message; transport failures are absorbed
// into the returned Outcome, never raised.
type Classifier struct {
	client       llm.Client
	systemPrompt string
	log          *zap.Logger
}

func NewClassifier(client llm.Client, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{client: client, systemPrompt: classifierSystemPrompt, log: log}
}

// Complete sends the classification prompt and returns the raw model text.
// On transport or provider error it returns the fixed apology string; callers
// must treat that as a soft failure.
func (c *Classifier) Complete(ctx context.Context, turns []session.Turn, message string) string {
	msgs := []llm.Message{
		{Role: "system", Content: c.systemPrompt},
		{Role: "user", Content: renderTranscript(turns, message)},
	}
	resp, err := c.client.Generate(ctx, msgs)
	if err != nil {
		c.log.Warn("llm classification failed", zap.Error(err))
		return Apology
	}
	return resp.Content
}

// Classify runs the full LLM path: completion plus JSON extraction.
func (c *Classifier) Classify(ctx context.Context, turns []session.Turn, message string) Outcome {
	raw := c.Complete(ctx, turns, message)
	intent, params, ok := ExtractJSON(raw)
	if !ok {
		return Outcome{Source: SourceParseFailure, RawText: raw}
	}
	return Outcome{Source: SourceJSON, Intent: intent, Params: params}
}

// renderTranscript lays out prior turns as alternating "User:"/"Assistant:"
// lines followed by the new message.
func renderTranscript(turns []session.Turn, message string) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case session.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(message)
	return b.String()
}
