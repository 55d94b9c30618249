package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchUnknownIntentUsesDefaultHandler(t *testing.T) {
	reg := NewRegistry(nil)
	res := reg.Dispatch(context.Background(), "no_such_intent", nil, "u1")
	assert.Equal(t, defaultUnknownText, res.Text)
	assert.Nil(t, res.ReplyMarkup)
}

func TestDispatchRegisteredHandler(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("ping", func(_ context.Context, params map[string]string, userID string) (Result, error) {
		return Result{Text: "pong for " + userID + " " + params["x"]}, nil
	})

	res := reg.Dispatch(context.Background(), "ping", map[string]string{"x": "1"}, "u1")
	assert.Equal(t, "pong for u1 1", res.Text)
}

func TestDispatchHandlerErrorIsSanitized(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("explode", func(context.Context, map[string]string, string) (Result, error) {
		return Result{}, errors.New("pq: relation \"secrets\" does not exist")
	})

	res := reg.Dispatch(context.Background(), "explode", nil, "u1")
	assert.Equal(t, safeErrorText, res.Text)
	assert.NotContains(t, res.Text, "secrets")
}

func TestDispatchHandlerPanicIsRecovered(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("panic", func(context.Context, map[string]string, string) (Result, error) {
		panic("index out of range")
	})

	res := reg.Dispatch(context.Background(), "panic", nil, "u1")
	assert.Equal(t, safeErrorText, res.Text)
}

func TestDispatchNilParamsBecomeEmptyMap(t *testing.T) {
	reg := NewRegistry(nil)
	var got map[string]string
	reg.Register("probe", func(_ context.Context, params map[string]string, _ string) (Result, error) {
		got = params
		return Result{Text: "ok"}, nil
	})

	reg.Dispatch(context.Background(), "probe", nil, "u1")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestIntents(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("a", func(context.Context, map[string]string, string) (Result, error) { return Result{}, nil })
	reg.Register("b", func(context.Context, map[string]string, string) (Result, error) { return Result{}, nil })
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Intents())
}
