package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"walletchat/internal/action"
	"walletchat/internal/intent"
	"walletchat/internal/llm"
)

// DefaultPreserveIntents lists results that must never be paraphrased: they
// carry interactive payloads or precise figures (amounts, addresses) where a
// regenerated word is a corrupted word.
var DefaultPreserveIntents = []string{
	intent.Balance,
	intent.Earnings,
	intent.Deposit,
	intent.TransactionHistory,
	intent.CreatePaymentLink,
	intent.CreateInvoice,
}

// Context bundles what the rewrite prompt needs.
type Context struct {
	Message string
	Intent  string
	Params  map[string]string
	Result  action.Result
}

// Synthesizer optionally rewrites an action result's text into conversational
// prose. Only Text is ever replaced; ReplyMarkup and Data pass through
// verbatim on every path.
type Synthesizer struct {
	client   llm.Client
	preserve map[string]bool
	log      *zap.Logger
}

func New(client llm.Client, preserveIntents []string, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	if len(preserveIntents) == 0 {
		preserveIntents = DefaultPreserveIntents
	}
	preserve := make(map[string]bool, len(preserveIntents))
	for _, in := range preserveIntents {
		if in != "" {
			preserve[in] = true
		}
	}
	return &Synthesizer{client: client, preserve: preserve, log: log}
}

// Synthesize applies the rewrite rules in order: preserve-set short circuit,
// rewrite attempt, defensive parse, graceful fallback to the original.
func (s *Synthesizer) Synthesize(ctx context.Context, in Context) action.Result {
	if s.preserve[in.Intent] && (in.Result.ReplyMarkup != nil || in.Result.Data != nil) {
		return in.Result
	}
	if s.client == nil || strings.TrimSpace(in.Result.Text) == "" {
		return in.Result
	}

	resp, err := s.client.Generate(ctx, []llm.Message{
		{Role: "system", Content: rewriteSystemPrompt},
		{Role: "user", Content: buildRewriteInput(in)},
	})
	if err != nil {
		s.log.Warn("response rewrite failed", zap.String("intent", in.Intent), zap.Error(err))
		return in.Result
	}

	text, ok := extractRewrite(resp.Content)
	if !ok {
		return in.Result
	}
	out := in.Result
	out.Text = text
	return out
}

const rewriteSystemPrompt = `You rewrite a payment assistant's reply to sound natural and conversational.
Preserve every factual detail exactly: numbers, token symbols, addresses, links, ids and warnings must appear unchanged.
Respond with a single JSON object: {"response": "<rewritten reply>"}. Nothing else.`

func buildRewriteInput(in Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User message: %s\n", in.Message)
	fmt.Fprintf(&b, "Intent: %s\n", in.Intent)
	if len(in.Params) > 0 {
		keys := make([]string, 0, len(in.Params))
		for k := range in.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Params:")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, in.Params[k])
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Original reply:\n%s", in.Result.Text)
	return b.String()
}

// extractRewrite parses the rewrite response defensively. A reply with no
// JSON object degrades to using the raw text itself; a parseable object
// without a usable string field is rejected so the caller keeps the original.
func extractRewrite(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		text := strings.TrimSpace(raw)
		return text, text != ""
	}

	var v struct {
		Response        string `json:"response"`
		Text            string `json:"text"`
		NaturalResponse string `json:"naturalResponse"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		text := strings.TrimSpace(raw)
		return text, text != ""
	}
	for _, cand := range []string{v.Response, v.Text, v.NaturalResponse} {
		if strings.TrimSpace(cand) != "" {
			return cand, true
		}
	}
	return "", false
}
