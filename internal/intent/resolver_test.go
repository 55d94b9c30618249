package intent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletchat/internal/llm"
	"walletchat/internal/session"
)

type fakeLLM struct {
	resp  llm.Response
	err   error
	calls int
}

func (f *fakeLLM) Generate(_ context.Context, _ []llm.Message) (llm.Response, error) {
	f.calls++
	return f.resp, f.err
}

func newConversational(t *testing.T, client llm.Client, store session.Store) *Resolver {
	t.Helper()
	return NewResolver(store, NewClassifier(client, nil), true, 8, nil)
}

func TestResolveConversationalLLMWins(t *testing.T) {
	// The message would also match the rule classifier's send rule; the LLM
	// result must win outright without the rules being consulted.
	fake := &fakeLLM{resp: llm.Response{Content: `{"intent":"balance","params":{}}`}}
	r := newConversational(t, fake, session.NewMemory())

	res := r.Resolve(context.Background(), "u1", "send me my balance please")
	assert.Equal(t, "balance", res.Intent)
	assert.Equal(t, 1, fake.calls)
}

func TestResolveConversationalTransportErrorYieldsClarification(t *testing.T) {
	fake := &fakeLLM{err: errors.New("connection refused")}
	r := newConversational(t, fake, session.NewMemory())

	res := r.Resolve(context.Background(), "u1", "payment link")
	assert.Equal(t, Clarification, res.Intent)
	assert.NotEmpty(t, res.Params["message"])
}

func TestResolveConversationalParseFailureYieldsClarification(t *testing.T) {
	fake := &fakeLLM{resp: llm.Response{Content: "I'd be happy to help with payments!"}}
	r := newConversational(t, fake, session.NewMemory())

	res := r.Resolve(context.Background(), "u1", "do the thing")
	assert.Equal(t, Clarification, res.Intent)
	assert.NotEmpty(t, res.Params["message"])
}

func TestResolveConversationalMissingIntentFieldYieldsClarification(t *testing.T) {
	fake := &fakeLLM{resp: llm.Response{Content: `{"params":{"amount":"5"}}`}}
	r := newConversational(t, fake, session.NewMemory())

	res := r.Resolve(context.Background(), "u1", "send 5")
	assert.Equal(t, Clarification, res.Intent)
}

func TestResolveDeterministicBypassesLLM(t *testing.T) {
	fake := &fakeLLM{resp: llm.Response{Content: `{"intent":"balance","params":{}}`}}
	store := session.NewMemory()
	r := NewResolver(store, NewClassifier(fake, nil), false, 8, nil)

	res := r.Resolve(context.Background(), "u1", "payment link")
	assert.Equal(t, CreatePaymentLink, res.Intent)
	assert.Equal(t, 0, fake.calls)
}

func TestResolveDeterministicUnknown(t *testing.T) {
	r := NewResolver(session.NewMemory(), nil, false, 8, nil)

	res := r.Resolve(context.Background(), "u1", "the weather is nice today")
	assert.Equal(t, Unknown, res.Intent)
	assert.NotNil(t, res.Params)
}

func TestResolveAppendsTurnsIncludingFailures(t *testing.T) {
	fake := &fakeLLM{err: errors.New("boom")}
	store := session.NewMemory()
	r := newConversational(t, fake, store)

	r.Resolve(context.Background(), "u1", "hello there")

	sess, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, sess.Turns, 2)
	assert.Equal(t, session.RoleUser, sess.Turns[0].Role)
	assert.Equal(t, "hello there", sess.Turns[0].Content)
	assert.Equal(t, session.RoleAssistant, sess.Turns[1].Role)

	// The assistant turn is the rendered classification, parseable back.
	in, _, ok := ExtractJSON(sess.Turns[1].Content)
	require.True(t, ok)
	assert.Equal(t, Clarification, in)
}

func TestResolveSessionBoundedToMaxTurns(t *testing.T) {
	store := session.NewMemory()
	r := NewResolver(store, nil, false, 8, nil)

	for i := 0; i < 10; i++ {
		r.Resolve(context.Background(), "u1", fmt.Sprintf("payment link %d", i))
	}

	sess, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, sess.Turns, 8)
	// The retained turns are the most recent ones.
	assert.Equal(t, "payment link 6", sess.Turns[0].Content)
	assert.Equal(t, "payment link 9", sess.Turns[len(sess.Turns)-2].Content)
}

func TestResolveNeverReturnsEmptyIntent(t *testing.T) {
	cases := []*fakeLLM{
		{resp: llm.Response{Content: `{"intent":"balance","params":{}}`}},
		{resp: llm.Response{Content: "no json here"}},
		{err: errors.New("down")},
		{resp: llm.Response{Content: `{"intent":""}`}},
	}
	for i, fake := range cases {
		r := newConversational(t, fake, session.NewMemory())
		res := r.Resolve(context.Background(), "u1", "anything")
		assert.NotEmpty(t, res.Intent, "case %d", i)
		assert.NotNil(t, res.Params, "case %d", i)
	}
}

func TestResolveWithSerializedStore(t *testing.T) {
	store := session.NewSerialized(session.NewMemory())
	r := NewResolver(store, nil, false, 8, nil)

	r.Resolve(context.Background(), "u1", "payment link")
	sess, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, sess.Turns, 2)
}

func TestRenderTranscript(t *testing.T) {
	turns := []session.Turn{
		{Role: session.RoleUser, Content: "hi"},
		{Role: session.RoleAssistant, Content: `{"intent":"greeting","params":{}}`},
	}
	got := renderTranscript(turns, "balance?")
	assert.Equal(t, "User: hi\nAssistant: {\"intent\":\"greeting\",\"params\":{}}\nUser: balance?", got)
}
